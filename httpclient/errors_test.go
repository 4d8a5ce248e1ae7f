package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeRateLimit, "rate_limit"},
		{ErrCodeEncode, "encode"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	err := newError(ErrCodeConnection, fmt.Errorf("connection refused"))
	if got := err.Error(); got != "httpclient: connection: connection refused" {
		t.Errorf("got %q", got)
	}
	if !errors.Is(newError(ErrCodeTimeout, fmt.Errorf("dial: %w", context.DeadlineExceeded)), context.DeadlineExceeded) {
		t.Error("error should unwrap to its cause")
	}
}

type netTimeout struct{}

func (netTimeout) Error() string   { return "i/o timeout" }
func (netTimeout) Timeout() bool   { return true }
func (netTimeout) Temporary() bool { return true }

func TestSendError(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want ErrorCode
	}{
		{"refused", context.Background(), errors.New("connection refused"), ErrCodeConnection},
		{"net timeout", context.Background(), fmt.Errorf("read: %w", netTimeout{}), ErrCodeTimeout},
		{"canceled", canceled, errors.New("context canceled"), ErrCodeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sendError(tt.ctx, tt.err); got.Code != tt.want {
				t.Errorf("code = %s, want %s", got.Code, tt.want)
			}
		})
	}
}

func TestLimitError(t *testing.T) {
	if got := limitError(context.Background(), errors.New("would exceed deadline")); !IsRateLimit(got) {
		t.Errorf("expected rate limit, got %v", got)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := limitError(ctx, errors.New("canceled")); !IsTimeout(got) {
		t.Errorf("expected timeout, got %v", got)
	}
}

func TestIsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("call: %w", newError(ErrCodeTimeout, errors.New("slow")))
	if !IsTimeout(wrapped) || IsConnection(wrapped) || IsRateLimit(wrapped) {
		t.Error("IsTimeout should match through wrapping, and only it")
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("plain errors are not classified")
	}
}
