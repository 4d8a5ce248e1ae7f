package logger

import (
	"time"
)

// Field keys shared by every structrest log line.
const (
	FieldComponent  = "component"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
	FieldEndpoint   = "endpoint"
	FieldHTTPMethod = "http_method"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldErrorCode  = "error_code"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs. Non-string
// keys and a dangling final key are dropped.
//
//	log.Debug("call done", logger.Fields("endpoint", "todos.get", "status", 200))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// CallFields creates the fields describing one outgoing call. A zero status
// means no response was received and is left out.
func CallFields(endpoint, method, url string, status int) map[string]interface{} {
	m := map[string]interface{}{
		FieldEndpoint:   endpoint,
		FieldHTTPMethod: method,
		FieldURL:        url,
	}
	if status != 0 {
		m[FieldStatus] = status
	}
	return m
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds the duration, in milliseconds, to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
