package transport

import (
	"context"
	"testing"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"", "users/1", "users/1"},
		{"https://api.example.com", "", "https://api.example.com"},
		{"https://api.example.com", "users/1", "https://api.example.com/users/1"},
		{"https://api.example.com/", "users/1", "https://api.example.com/users/1"},
		{"https://api.example.com/v1", "users/1", "https://api.example.com/v1/users/1"},
		{"https://api.example.com/v1/", "users/1", "https://api.example.com/v1/users/1"},
		{"https://api.example.com/v1", "/health", "https://api.example.com/health"},
		{"https://api.example.com/v1", "https://other.example.com/x", "https://other.example.com/x"},
		{"https://api.example.com/v1", "search?q=a", "https://api.example.com/v1/search?q=a"},
	}
	for _, tc := range tests {
		t.Run(tc.base+"+"+tc.ref, func(t *testing.T) {
			got, err := JoinURL(tc.base, tc.ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("JoinURL(%q, %q) = %q, want %q", tc.base, tc.ref, got, tc.want)
			}
		})
	}
}

func TestJoinURL_Invalid(t *testing.T) {
	if _, err := JoinURL("://bad", "x"); err == nil {
		t.Error("expected error for invalid base")
	}
}

func TestAdapterFunc(t *testing.T) {
	var seen *Request
	a := AdapterFunc(func(ctx context.Context, req *Request) (Response, error) {
		seen = req
		return nil, nil
	})
	req := &Request{Method: "GET", URL: "x"}
	if _, err := a.Do(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != req {
		t.Error("AdapterFunc did not receive the request")
	}
}
