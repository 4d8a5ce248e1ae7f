package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Defects found before a request is sent.
const (
	// ErrCodeInvalidDeclaration indicates a malformed endpoint declaration
	// (unknown URL placeholder, unsupported type, mode mismatch).
	ErrCodeInvalidDeclaration ErrorCode = "INVALID_DECLARATION"
	// ErrCodeInvalidArgument indicates a call argument rejected before any I/O.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// HTTP-level failures.
const (
	// ErrCodeClientError indicates a 4xx response.
	ErrCodeClientError ErrorCode = "CLIENT_ERROR"
	// ErrCodeNotFound indicates a 404 response. It is a ClientError specialization.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeServerError indicates a 5xx (or otherwise unclassified) response.
	ErrCodeServerError ErrorCode = "SERVER_ERROR"
)

// Transport and response-shape failures.
const (
	// ErrCodeClientLibrary indicates a transport fault: connection failure,
	// timeout, or a body that could not be read.
	ErrCodeClientLibrary ErrorCode = "CLIENT_LIBRARY_ERROR"
	// ErrCodeMalformedResponse indicates a body that is not JSON or does not
	// match the declared result type.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
)

var clientSide = map[ErrorCode]bool{
	ErrCodeClientError: true,
	ErrCodeNotFound:    true,
}

// IsHTTPCode returns true for codes produced from an HTTP status.
func IsHTTPCode(code ErrorCode) bool {
	return clientSide[code] || code == ErrCodeServerError
}
