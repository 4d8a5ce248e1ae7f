// Package observability provides OpenTelemetry tracing and metrics for
// structrest calls.
//
// Every bound call opens a client span named after its endpoint and records
// structrest.call.total, structrest.call.duration and structrest.call.active.
//
// Tracing and metrics export:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("billing"))
//	defer mp.Shutdown(ctx)
//
//	inst, err := observability.Global()
//	client := rest.NewClient(adapter, rest.WithInstrument(inst))
package observability
