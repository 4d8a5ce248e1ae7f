package observability

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/structrest/errors"
)

// Instrument traces and measures endpoint calls. A nil *Instrument is valid
// and records nothing.
type Instrument struct {
	tracer  trace.Tracer
	metrics *Metrics
}

// NewInstrument builds an instrument on the given providers.
func NewInstrument(tp trace.TracerProvider, mp metric.MeterProvider) (*Instrument, error) {
	metrics, err := NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	return &Instrument{
		tracer:  tp.Tracer(instrumentationName),
		metrics: metrics,
	}, nil
}

// Global builds an instrument on the globally installed providers, the ones
// InitTracer and InitMeter set.
func Global() (*Instrument, error) {
	return NewInstrument(otel.GetTracerProvider(), otel.GetMeterProvider())
}

// CallInfo identifies one outgoing call.
type CallInfo struct {
	Endpoint string
	Method   string
	URL      string
	// Attributes are extra span attributes, such as the JSON-RPC method.
	Attributes []attribute.KeyValue
}

// Call is one in-flight instrumented call.
type Call struct {
	span    trace.Span
	metrics *Metrics
	info    CallInfo
	start   time.Time
}

// Start opens a client span for the call and counts it as active.
func (in *Instrument) Start(ctx context.Context, info CallInfo) (context.Context, *Call) {
	c := &Call{info: info, start: time.Now()}
	if in == nil {
		return ctx, c
	}
	attrs := append([]attribute.KeyValue{
		attribute.String(AttrEndpoint, info.Endpoint),
		attribute.String(AttrHTTPMethod, info.Method),
		attribute.String(AttrURL, info.URL),
	}, info.Attributes...)
	ctx, c.span = in.tracer.Start(ctx, info.Endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	c.metrics = in.metrics
	if c.metrics != nil {
		c.metrics.RecordCallStart(ctx, info.Endpoint)
	}
	return ctx, c
}

// End closes the span and records the outcome. status is 0 when no response
// was received.
func (c *Call) End(ctx context.Context, status int, err error) time.Duration {
	elapsed := time.Since(c.start)
	outcome := Outcome(err)
	if c.span != nil {
		if status > 0 {
			c.span.SetAttributes(attribute.Int(AttrStatusCode, status))
		}
		c.span.SetAttributes(attribute.String(AttrOutcome, outcome))
		if err != nil {
			c.span.RecordError(err)
			c.span.SetStatus(codes.Error, outcome)
		}
		c.span.End()
	}
	if c.metrics != nil {
		c.metrics.RecordCallEnd(ctx, c.info.Endpoint, c.info.Method, outcome, elapsed)
	}
	return elapsed
}

// Outcome labels a finished call: "ok", the error code of an API error or
// of any error exposing ErrorCode, or "error".
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := errors.As(err); ok {
		return string(e.Code)
	}
	var coded interface{ ErrorCode() string }
	if stderrors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return "error"
}
