package testutil

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
)

// CleanupFunc is a function that performs cleanup, typically stopping a component.
type CleanupFunc func() error

// Setup starts a test component and returns a cleanup function.
// The cleanup function should be called (typically with defer) to stop the component.
//
// Example:
//
//	cleanup, err := testutil.Setup(server)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer cleanup()
func Setup(component TestComponent) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), component)
}

// SetupWithContext starts a test component with a custom context and returns a cleanup function.
func SetupWithContext(ctx context.Context, component TestComponent) (CleanupFunc, error) {
	if err := component.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return component.Stop(ctx) }, nil
}

// THelper provides testing.T integration for easier test setup.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps a testing.TB to provide helper methods.
//
// Example:
//
//	func TestListUsers(t *testing.T) {
//	    srv := testutil.T(t).Server(func(r *gin.Engine) { ... })
//	    // the server is closed when the test ends
//	}
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts a component and registers cleanup with testing.T.
// The component will be automatically stopped when the test ends.
func (h *THelper) Setup(component TestComponent) {
	h.t.Helper()
	if err := component.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", component.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := component.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", component.Name(), err)
		}
	})
}

// Reset resets a component to its initial state.
func (h *THelper) Reset(component TestComponent) {
	h.t.Helper()
	if err := component.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", component.Name(), err)
	}
}

// Adapter returns a started MockAdapter that fails the test if scripted
// responses are left unconsumed.
func (h *THelper) Adapter() *MockAdapter {
	h.t.Helper()
	m := NewMockAdapter()
	h.Setup(m)
	h.t.Cleanup(func() {
		if n := m.Remaining(); n > 0 {
			h.t.Errorf("mock adapter: %d scripted responses were not used", n)
		}
	})
	return m
}

// Server returns a started gin test server.
func (h *THelper) Server(routes func(r *gin.Engine)) *Server {
	h.t.Helper()
	s := NewServer(routes)
	h.Setup(s)
	return s
}
