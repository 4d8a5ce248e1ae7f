package serial

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// converter is a registered per-type conversion. Either side may be nil, in
// which case the structural rules apply for that direction.
type converter struct {
	dump func(reflect.Value) (any, error)
	load func(any) (any, error)
}

// Factory converts native values to JSON primitives and back. A Factory is
// configured once and is then safe for concurrent read-only use.
type Factory struct {
	converters map[reflect.Type]converter
}

// New creates a factory with the default converters registered.
func New() *Factory {
	f := &Factory{converters: make(map[reflect.Type]converter)}
	Register(f, dumpTime(time.RFC3339Nano), loadTime(time.RFC3339Nano))
	Register(f,
		func(d time.Duration) (any, error) { return d.String(), nil },
		func(raw any) (time.Duration, error) {
			s, ok := raw.(string)
			if !ok {
				return 0, fmt.Errorf("serial: duration must be a string, got %T", raw)
			}
			return time.ParseDuration(s)
		})
	Register(f,
		func(b []byte) (any, error) {
			if b == nil {
				return nil, nil
			}
			return base64.StdEncoding.EncodeToString(b), nil
		},
		func(raw any) ([]byte, error) {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("serial: bytes must be a base64 string, got %T", raw)
			}
			return base64.StdEncoding.DecodeString(s)
		})
	Register(f,
		func(m json.RawMessage) (any, error) {
			if len(m) == 0 {
				return nil, nil
			}
			var out any
			if err := json.Unmarshal(m, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		func(raw any) (json.RawMessage, error) {
			data, err := json.Marshal(normalizeNumbers(raw))
			return json.RawMessage(data), err
		})
	return f
}

var (
	defaultFactory *Factory
	defaultOnce    sync.Once
)

// Default returns the shared factory used by clients that do not override
// their façades. Register custom converters on a Clone instead of on Default.
func Default() *Factory {
	defaultOnce.Do(func() { defaultFactory = New() })
	return defaultFactory
}

// Register installs dump and load converters for T. A nil function leaves that
// direction to the structural rules.
func Register[T any](f *Factory, dump func(T) (any, error), load func(any) (T, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	var c converter
	if dump != nil {
		c.dump = func(v reflect.Value) (any, error) { return dump(v.Interface().(T)) }
	}
	if load != nil {
		c.load = func(raw any) (any, error) { return load(raw) }
	}
	f.converters[t] = c
}

// TimeFormat replaces the time.Time converter with one using layout.
// Typical use is a request-args façade formatting dates differently from bodies.
func (f *Factory) TimeFormat(layout string) *Factory {
	Register(f, dumpTime(layout), loadTime(layout))
	return f
}

// Clone returns an independent copy of the factory's registry.
func (f *Factory) Clone() *Factory {
	c := &Factory{converters: make(map[reflect.Type]converter, len(f.converters))}
	for t, conv := range f.converters {
		c.converters[t] = conv
	}
	return c
}

// Has reports whether a converter is registered for t.
func (f *Factory) Has(t reflect.Type) bool {
	_, ok := f.converters[t]
	return ok
}

// DumpValue dumps v using its static type T.
func DumpValue[T any](f *Factory, v T) (any, error) {
	return f.Dump(v, reflect.TypeOf((*T)(nil)).Elem())
}

// LoadAs loads raw into a value of type T.
func LoadAs[T any](f *Factory, raw any) (T, error) {
	var zero T
	v, err := f.Load(raw, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

func dumpTime(layout string) func(time.Time) (any, error) {
	return func(t time.Time) (any, error) { return t.Format(layout), nil }
}

func loadTime(layout string) func(any) (time.Time, error) {
	return func(raw any) (time.Time, error) {
		s, ok := raw.(string)
		if !ok {
			return time.Time{}, fmt.Errorf("serial: time must be a string, got %T", raw)
		}
		return time.Parse(layout, s)
	}
}
