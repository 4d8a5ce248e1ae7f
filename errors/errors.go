package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// APIError is the common base of every error a structrest call returns.
type APIError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// StatusCode is the HTTP status of the response (0 when no response was received).
	StatusCode int `json:"status_code,omitempty"`
	// Body is the raw response body, when one was read.
	Body []byte `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *APIError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithBody attaches the raw response body and returns the receiver.
func (e *APIError) WithBody(body []byte) *APIError {
	e.Body = body
	return e
}

// New creates a new APIError.
func New(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// --- Declaration and argument errors ---

// InvalidDeclaration reports a defect in an endpoint declaration.
func InvalidDeclaration(format string, args ...any) *APIError {
	return &APIError{Code: ErrCodeInvalidDeclaration, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports a call argument rejected before the request is sent.
func InvalidArgument(param, reason string) *APIError {
	e := &APIError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid argument: %s", reason)}
	if param != "" {
		e.Message = fmt.Sprintf("invalid argument %q: %s", param, reason)
		e.WithDetail("param", param)
	}
	return e
}

// --- HTTP-level errors ---

// ClientError creates an error for a 4xx response.
func ClientError(statusCode int, body []byte) *APIError {
	return &APIError{
		Code: ErrCodeClientError, Message: fmt.Sprintf("HTTP %d", statusCode),
		StatusCode: statusCode, Body: body,
	}
}

// NotFound creates an error for a 404 response.
func NotFound(body []byte) *APIError {
	return &APIError{
		Code: ErrCodeNotFound, Message: "HTTP 404",
		StatusCode: http.StatusNotFound, Body: body,
	}
}

// ServerError creates an error for a 5xx or otherwise unclassified response.
func ServerError(statusCode int, body []byte) *APIError {
	return &APIError{
		Code: ErrCodeServerError, Message: fmt.Sprintf("HTTP %d", statusCode),
		StatusCode: statusCode, Body: body,
	}
}

// FromStatus classifies a failed response by its status code range.
func FromStatus(statusCode int, body []byte) *APIError {
	switch {
	case statusCode == http.StatusNotFound:
		return NotFound(body)
	case statusCode >= 400 && statusCode < 500:
		return ClientError(statusCode, body)
	default:
		return ServerError(statusCode, body)
	}
}

// --- Transport and shape errors ---

// ClientLibrary wraps a transport fault. Deadline and cancellation causes,
// and causes reporting Timeout() true, are flagged with a "timeout" detail.
func ClientLibrary(cause error) *APIError {
	e := &APIError{Code: ErrCodeClientLibrary, Message: "transport failure", Cause: cause}
	if isTimeoutCause(cause) {
		e.WithDetail("timeout", true)
	}
	return e
}

func isTimeoutCause(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return true
	}
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}

// MalformedResponse reports a successful response whose body could not be decoded.
func MalformedResponse(cause error, body []byte) *APIError {
	return &APIError{Code: ErrCodeMalformedResponse, Message: "malformed response body", Body: body, Cause: cause}
}

// --- Inspection helpers ---

// As converts an error to an APIError if possible.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func hasCode(err error, codes ...ErrorCode) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	for _, c := range codes {
		if e.Code == c {
			return true
		}
	}
	return false
}

// IsClientError checks for a 4xx error, including NotFound.
func IsClientError(err error) bool { return hasCode(err, ErrCodeClientError, ErrCodeNotFound) }

// IsNotFound checks for a 404 error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsServerError checks for a server error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServerError) }

// IsClientLibraryError checks for a transport fault.
func IsClientLibraryError(err error) bool { return hasCode(err, ErrCodeClientLibrary) }

// IsMalformedResponse checks for an undecodable response body.
func IsMalformedResponse(err error) bool { return hasCode(err, ErrCodeMalformedResponse) }

// IsInvalidDeclaration checks for an endpoint declaration defect.
func IsInvalidDeclaration(err error) bool { return hasCode(err, ErrCodeInvalidDeclaration) }

// IsInvalidArgument checks for a rejected call argument.
func IsInvalidArgument(err error) bool { return hasCode(err, ErrCodeInvalidArgument) }

// IsTimeout checks for a transport fault caused by a deadline or cancellation.
func IsTimeout(err error) bool {
	e, ok := As(err)
	return ok && e.Code == ErrCodeClientLibrary && e.Details["timeout"] == true
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := As(err); ok {
		return e.StatusCode
	}
	return 0
}
