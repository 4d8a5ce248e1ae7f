package logger

import "sync"

// named holds loggers registered for a client or component name.
var named sync.Map // string -> *Logger

// Register binds l to name, so every client created under that name logs
// through it. Registering nil removes the binding.
func Register(name string, l *Logger) {
	if l == nil {
		named.Delete(name)
		return
	}
	named.Store(name, l)
}

// Get returns the logger registered for name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
