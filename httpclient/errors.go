package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode classifies transport faults. HTTP statuses are not errors at this
// layer; they come back in the Response.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	ErrCodeRateLimit
	ErrCodeEncode
)

var codeNames = map[ErrorCode]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeEncode:     "encode",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is a classified transport fault.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the fault is a timeout, in the manner of net.Error.
func (e *Error) Timeout() bool { return e.Code == ErrCodeTimeout }

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

// sendError classifies a failure from http.Client.Do. Cancellation and
// network timeouts are timeouts; everything else is a connection fault.
func sendError(ctx context.Context, err error) *Error {
	var netErr net.Error
	if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newError(ErrCodeTimeout, err)
	}
	return newError(ErrCodeConnection, err)
}

// limitError classifies a failed limiter wait. The limiter refuses early
// when the deadline cannot be met, before ctx itself expires.
func limitError(ctx context.Context, err error) *Error {
	if ctx.Err() != nil {
		return newError(ErrCodeTimeout, ctx.Err())
	}
	return newError(ErrCodeRateLimit, err)
}

func is(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout reports whether err is a transport timeout or cancellation.
func IsTimeout(err error) bool { return is(err, ErrCodeTimeout) }

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool { return is(err, ErrCodeConnection) }

// IsRateLimit reports whether the client-side limiter refused the request.
func IsRateLimit(err error) bool { return is(err, ErrCodeRateLimit) }
