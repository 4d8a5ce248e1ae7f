package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kbukum/structrest/transport"
)

// MockResponse is a scripted transport.Response. It records whether Close
// was called.
type MockResponse struct {
	Status  int
	Data    []byte
	ReadErr error

	mu     sync.Mutex
	closed bool
}

func (r *MockResponse) OK() bool { return r.Status >= 200 && r.Status < 300 }
func (r *MockResponse) StatusCode() int { return r.Status }

func (r *MockResponse) Body() ([]byte, error) {
	if r.ReadErr != nil {
		return nil, r.ReadErr
	}
	return r.Data, nil
}

func (r *MockResponse) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether the response was released.
func (r *MockResponse) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type step struct {
	resp *MockResponse
	err  error
}

// MockAdapter is a transport.Adapter that replays scripted responses in
// order and records every request it receives. It is safe for concurrent use.
type MockAdapter struct {
	mu       sync.Mutex
	script   []step
	requests []*transport.Request
	served   []*MockResponse
	handler  func(ctx context.Context, req *transport.Request) (transport.Response, error)
}

// NewMockAdapter creates an adapter with an empty script.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// Respond queues a response with a raw body and returns it, so tests can
// later check it was closed.
func (m *MockAdapter) Respond(status int, body string) *MockResponse {
	resp := &MockResponse{Status: status, Data: []byte(body)}
	m.mu.Lock()
	m.script = append(m.script, step{resp: resp})
	m.mu.Unlock()
	return resp
}

// RespondJSON queues a response whose body is v encoded as JSON.
func (m *MockAdapter) RespondJSON(status int, v any) *MockResponse {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: encode scripted body: %v", err))
	}
	return m.Respond(status, string(data))
}

// RespondWith queues a prepared response.
func (m *MockAdapter) RespondWith(resp *MockResponse) *MockResponse {
	m.mu.Lock()
	m.script = append(m.script, step{resp: resp})
	m.mu.Unlock()
	return resp
}

// Fail queues a transport fault.
func (m *MockAdapter) Fail(err error) {
	m.mu.Lock()
	m.script = append(m.script, step{err: err})
	m.mu.Unlock()
}

// Handle sets a fallback used once the script is exhausted.
func (m *MockAdapter) Handle(fn func(ctx context.Context, req *transport.Request) (transport.Response, error)) {
	m.mu.Lock()
	m.handler = fn
	m.mu.Unlock()
}

// Do records req and returns the next scripted step.
func (m *MockAdapter) Do(ctx context.Context, req *transport.Request) (transport.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		handler := m.handler
		m.mu.Unlock()
		if handler != nil {
			return handler(ctx, req)
		}
		return nil, fmt.Errorf("testutil: no scripted response for %s %s", req.Method, req.URL)
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.resp != nil {
		m.served = append(m.served, next.resp)
	}
	m.mu.Unlock()

	if next.err != nil {
		return nil, next.err
	}
	return next.resp, nil
}

// Requests returns the recorded requests in arrival order.
func (m *MockAdapter) Requests() []*transport.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*transport.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of requests received.
func (m *MockAdapter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Last returns the most recent request, or nil.
func (m *MockAdapter) Last() *transport.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Remaining returns the number of unconsumed scripted steps.
func (m *MockAdapter) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

// AllClosed reports whether every served response was closed.
func (m *MockAdapter) AllClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.served {
		if !r.Closed() {
			return false
		}
	}
	return true
}

func (m *MockAdapter) Name() string { return "mock-adapter" }
func (m *MockAdapter) Start(ctx context.Context) error { return nil }
func (m *MockAdapter) Stop(ctx context.Context) error { return nil }

// Reset drops the script, the recorded requests and the fallback handler.
func (m *MockAdapter) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = nil
	m.requests = nil
	m.served = nil
	m.handler = nil
	return nil
}
