package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

func newBuffered(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(&Config{Level: level, Format: "json", Writer: &buf}, "test-svc")
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var rec map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newBuffered("invalid-level")
	l.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Error("expected info level fallback")
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBuffered("warn")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
	l.Warn("shown", Fields(FieldStatus, 500))
	rec := decodeLine(t, buf)
	if rec["message"] != "shown" || rec["level"] != "warn" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec[FieldStatus] != float64(500) {
		t.Errorf("status field = %v", rec[FieldStatus])
	}
	if rec["service"] != "test-svc" {
		t.Errorf("service field = %v", rec["service"])
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := newBuffered("debug")
	cl := l.WithComponent("rest").WithFields(Fields(FieldEndpoint, "GetTodo"))
	if cl.service != "test-svc" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Debug("call")
	rec := decodeLine(t, buf)
	if rec[FieldComponent] != "rest" || rec[FieldEndpoint] != "GetTodo" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestWithError(t *testing.T) {
	l, buf := newBuffered("debug")
	l.WithError(errors.New("boom")).Error("failed")
	rec := decodeLine(t, buf)
	if rec["error"] != "boom" {
		t.Errorf("error field = %v", rec["error"])
	}
}

func TestWithContext_SpanIDs(t *testing.T) {
	l, buf := newBuffered("debug")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("context without span should return the same logger")
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	l.WithContext(ctx).Info("traced")
	rec := decodeLine(t, buf)
	if rec[FieldTraceID] != sc.TraceID().String() || rec[FieldSpanID] != sc.SpanID().String() {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("discarded", Fields("k", "v"))
	if l.Enabled(zerolog.ErrorLevel) {
		t.Error("nop logger should not be enabled")
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(f) != 2 || f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields: %v", f)
	}
}

func TestMergeHelpers(t *testing.T) {
	f := MergeWithDuration(nil, 1500*time.Millisecond)
	if f[FieldDuration] != int64(1500) {
		t.Errorf("duration = %v", f[FieldDuration])
	}
	f = MergeWithError(f, errors.New("x"))
	if f[FieldError] != "x" {
		t.Errorf("error = %v", f[FieldError])
	}
	cf := CallFields("todos.get", "GET", "todos/1", 0)
	if cf[FieldEndpoint] != "todos.get" || cf[FieldURL] != "todos/1" {
		t.Errorf("unexpected call fields: %v", cf)
	}
	if _, ok := cf[FieldStatus]; ok {
		t.Error("zero status should be omitted")
	}
	if CallFields("e", "GET", "u", 404)[FieldStatus] != 404 {
		t.Error("status should be kept")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "json" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
	cfg.Level, cfg.Format = "info", "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestRegistry(t *testing.T) {
	l, buf := newBuffered("info")
	Register("billing", l)
	Get("billing").Info("from registry")
	if !strings.Contains(buf.String(), "from registry") {
		t.Error("registered logger not returned")
	}
	Register("billing", nil)
	buf.Reset()
	Get("billing").Info("after removal")
	if buf.Len() != 0 {
		t.Error("removed logger still returned")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger")
	}
}

func TestInit(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)
	var buf bytes.Buffer
	if err := Init(Config{Level: "debug", Writer: &buf}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	GetGlobalLogger().Debug("global")
	if !strings.Contains(buf.String(), "global") {
		t.Error("global logger not replaced")
	}
	if err := Init(Config{Level: "nope"}); err == nil {
		t.Error("expected validation error")
	}
}
