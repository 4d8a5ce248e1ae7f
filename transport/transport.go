// Package transport defines the narrow contract between structrest and the
// component that performs network I/O.
//
// The core assembles a Request, hands it to an Adapter and reads back a
// Response. Status classification, connection handling, timeouts and
// authentication are the adapter's business.
package transport

import (
	"context"
	"net/url"
	"strings"
)

// Request is the transport-agnostic form of one outgoing call. It is built
// once per call and must not be modified after it is handed to an Adapter.
type Request struct {
	// URL is the target path, relative to the adapter's base URL, or an
	// absolute URL when the endpoint overrides the base URL.
	URL string
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE).
	Method string
	// Headers are request-specific headers.
	Headers map[string]string
	// Query holds serialized query arguments as JSON primitives. Nil values
	// are omitted by adapters; sequences become repeated keys.
	Query map[string]any
	// Data is the body: a JSON-serializable value when IsJSON is set,
	// otherwise raw bytes or form fields for multipart requests.
	Data any
	// Files are multipart attachments keyed by form field name.
	Files map[string]File
	// IsJSON distinguishes JSON bodies from raw-data requests.
	IsJSON bool
}

// File is one multipart attachment.
type File struct {
	// FieldName is the form field name.
	FieldName string
	// Filename is the file name sent to the server.
	Filename string
	// Contents is the file content.
	Contents []byte
	// ContentType is the MIME type. Adapters default it to application/octet-stream.
	ContentType string
}

// Response is the part of an adapter response the core depends on.
type Response interface {
	// OK reports whether the adapter classifies the response as a success.
	OK() bool
	// StatusCode returns the numeric status.
	StatusCode() int
	// Body returns the raw body bytes. It may be called once.
	Body() ([]byte, error)
	// Close releases any streaming resource held by the response.
	Close() error
}

// Adapter performs network I/O for an assembled request. Implementations must
// be safe for concurrent use when a client is shared across goroutines.
// Errors are reserved for transport faults; HTTP failures come back as a
// Response whose OK reports false.
type Adapter interface {
	Do(ctx context.Context, req *Request) (Response, error)
}

// AdapterFunc adapts an ordinary function to the Adapter interface.
type AdapterFunc func(ctx context.Context, req *Request) (Response, error)

// Do calls fn(ctx, req).
func (fn AdapterFunc) Do(ctx context.Context, req *Request) (Response, error) {
	return fn(ctx, req)
}

// JoinURL resolves ref against base the way urljoin does: absolute refs win,
// rooted refs replace the base path, relative refs are appended to the
// base's directory.
func JoinURL(base, ref string) (string, error) {
	if base == "" {
		return ref, nil
	}
	if ref == "" {
		return base, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if r.IsAbs() {
		return r.String(), nil
	}
	if !strings.HasSuffix(b.Path, "/") && !strings.HasPrefix(ref, "/") && b.Path != "" {
		// Treat the base as a directory so "v1" + "items" yields "v1/items".
		b.Path += "/"
	}
	return b.ResolveReference(r).String(), nil
}
