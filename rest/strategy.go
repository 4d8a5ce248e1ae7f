package rest

import (
	"context"
	"fmt"

	"github.com/kbukum/structrest/errors"
	"github.com/kbukum/structrest/logger"
	"github.com/kbukum/structrest/observability"
	"github.com/kbukum/structrest/transport"
)

// Strategy decides where the adapter call of a bound endpoint runs. Request
// assembly always runs on the caller's goroutine; decoding follows the
// adapter call without suspending.
type Strategy interface {
	// Async reports whether bound endpoints return futures.
	Async() bool
	// Run executes fn: the adapter call, body read and decoding.
	Run(fn func())
}

type blocking struct{}

func (blocking) Async() bool { return false }
func (blocking) Run(fn func()) { fn() }

type cooperative struct{}

func (cooperative) Async() bool { return true }
func (cooperative) Run(fn func()) { go fn() }

var (
	// Blocking runs the adapter call inline.
	Blocking Strategy = blocking{}
	// Cooperative runs each adapter call on its own goroutine. The call is
	// the only suspension point of an async endpoint.
	Cooperative Strategy = cooperative{}
)

// Exchange is the raw outcome of one adapter call.
type Exchange struct {
	// Status is the response status, 0 when no response was received.
	Status int
	// OK is the adapter's success verdict.
	OK bool
	// Body is the raw response body.
	Body []byte
	// Err is set for transport faults and body read failures.
	Err error
}

// pending is one call in flight: the adapter exchange followed by decoding.
type pending struct {
	done chan struct{}
	ctx  context.Context
	info observability.CallInfo
	call *observability.Call
	log  *logger.Logger
}

// Send starts the adapter call for req under the client's strategy. The
// response is decoded, and the call logged and its span ended, as soon as
// the exchange completes, whether or not the future is ever awaited.
func Send[R any](ctx context.Context, c Protocol, info observability.CallInfo, req *transport.Request, decode func(Exchange) (R, error)) *Future[R] {
	ctx, call := c.Instrument().Start(ctx, info)
	f := &Future[R]{}
	f.pending = &pending{
		done: make(chan struct{}),
		ctx:  ctx,
		info: info,
		call: call,
		log:  c.Logger(),
	}
	adapter := c.Adapter()
	c.Strategy().Run(func() {
		defer close(f.pending.done)
		ex := exchange(ctx, adapter, req, f.pending.log)
		f.res, f.err = decode(ex)
		f.pending.finish(ex.Status, f.err)
	})
	return f
}

// Failed returns a completed future for a call that never reached the
// adapter, used when request assembly fails.
func Failed[R any](c Protocol, info observability.CallInfo, err error) *Future[R] {
	f := &Future[R]{err: err}
	f.pending = &pending{done: make(chan struct{}), info: info, log: c.Logger()}
	f.pending.finish(0, err)
	close(f.pending.done)
	return f
}

// wait blocks until the call completes or ctx is done.
func (p *pending) wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	default:
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return errors.ClientLibrary(ctx.Err())
	}
}

// finish logs the call and ends its span with the decoded outcome.
func (p *pending) finish(status int, err error) {
	fields := logger.CallFields(p.info.Endpoint, p.info.Method, p.info.URL, status)
	for _, kv := range p.info.Attributes {
		fields[string(kv.Key)] = kv.Value.Emit()
	}
	if p.call != nil {
		fields = logger.MergeWithDuration(fields, p.call.End(p.ctx, status, err))
	}
	if err != nil {
		fields[logger.FieldErrorCode] = observability.Outcome(err)
		p.log.WithError(err).Warn("call failed", fields)
		return
	}
	p.log.Debug("call completed", fields)
}

// exchange performs the adapter call and reads the body. The raw response
// is always released.
func exchange(ctx context.Context, adapter transport.Adapter, req *transport.Request, log *logger.Logger) Exchange {
	resp, err := adapter.Do(ctx, req)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return Exchange{Err: err}
		}
		return Exchange{Err: errors.ClientLibrary(err)}
	}
	if resp == nil {
		return Exchange{Err: errors.ClientLibrary(fmt.Errorf("adapter returned no response"))}
	}
	defer func() {
		if cerr := resp.Close(); cerr != nil {
			log.Warn("release response", logger.Fields(logger.FieldError, cerr.Error()))
		}
	}()

	ex := Exchange{Status: resp.StatusCode(), OK: resp.OK()}
	body, err := resp.Body()
	if err != nil {
		ex.Err = errors.ClientLibrary(fmt.Errorf("read response body: %w", err))
		return ex
	}
	ex.Body = body
	return ex
}
