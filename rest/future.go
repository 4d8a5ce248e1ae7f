package rest

import (
	"context"
)

// Future is the result of an async endpoint call. It is settled once the
// adapter call has returned and the response is decoded.
type Future[R any] struct {
	pending *pending
	res     R
	err     error
}

// Done is closed once the call has settled.
func (f *Future[R]) Done() <-chan struct{} { return f.pending.done }

// Await waits for the call and returns its decoded result. If ctx ends
// first, Await returns a CLIENT_LIBRARY_ERROR and the call keeps running;
// a later Await can still collect it.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	if err := f.pending.wait(ctx); err != nil {
		var zero R
		return zero, err
	}
	return f.res, f.err
}
