package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/kbukum/structrest/transport"
)

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req *transport.Request) (*http.Request, error) {
	target, err := transport.JoinURL(a.config.BaseURL, req.URL)
	if err != nil {
		return nil, newError(ErrCodeEncode, fmt.Errorf("resolve url %q: %w", req.URL, err))
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, newError(ErrCodeEncode, fmt.Errorf("encode body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, newError(ErrCodeEncode, fmt.Errorf("create request: %w", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		encodeQuery(q, req.Query)
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", a.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	// Apply default headers
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	// Apply request-specific headers (override defaults)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Set content-type if body present and not already set
	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	a.config.Auth.apply(httpReq)
	return httpReq, nil
}

// encodeBody selects the body encoding: multipart when files are attached,
// JSON when flagged, raw bytes otherwise.
func encodeBody(req *transport.Request) (io.Reader, string, error) {
	if len(req.Files) > 0 {
		m, err := multipartFrom(req)
		if err != nil {
			return nil, "", err
		}
		return m.encode()
	}
	if req.IsJSON {
		data, err := json.Marshal(req.Data)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
	switch v := req.Data.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	}
	return nil, "", fmt.Errorf("unsupported raw body %T", req.Data)
}

// encodeQuery adds serialized query arguments to q. Nil values are omitted
// and sequences become repeated keys.
func encodeQuery(q url.Values, query map[string]any) {
	for k, v := range query {
		switch vv := v.(type) {
		case nil:
		case []any:
			for _, item := range vv {
				if item != nil {
					q.Add(k, formatValue(item))
				}
			}
		default:
			q.Set(k, formatValue(v))
		}
	}
}

// formatValue renders a JSON primitive as a query or form value.
func formatValue(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case int64:
		return strconv.FormatInt(vv, 10)
	case uint64:
		return strconv.FormatUint(vv, 10)
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case json.Number:
		return vv.String()
	case map[string]any:
		data, err := json.Marshal(vv)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}

// Response is an HTTP response as seen by structrest. The body is streamed:
// Body reads it once and Close releases the connection.
type Response struct {
	resp *http.Response

	once sync.Once
	body []byte
	err  error
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.resp.StatusCode >= 200 && r.resp.StatusCode < 300
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int { return r.resp.StatusCode }

// Header returns the response headers.
func (r *Response) Header() http.Header { return r.resp.Header }

// Body reads the whole body. Later calls return the same bytes.
func (r *Response) Body() ([]byte, error) {
	r.once.Do(func() {
		r.body, r.err = io.ReadAll(r.resp.Body)
		if r.err != nil {
			r.err = newError(ErrCodeConnection, fmt.Errorf("read response body: %w", r.err))
		}
	})
	return r.body, r.err
}

// Close releases the connection.
func (r *Response) Close() error {
	return r.resp.Body.Close()
}
