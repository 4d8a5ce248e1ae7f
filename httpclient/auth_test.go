package httpclient

import (
	"net/http"
	"testing"

	"github.com/kbukum/structrest/config"
)

func TestBearerAuth(t *testing.T) {
	auth := BearerAuth("my-token")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestBasicAuth(t *testing.T) {
	auth := BasicAuth("user", "pass")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	u, p, ok := req.BasicAuth()
	if !ok || u != "user" || p != "pass" {
		t.Errorf("basic auth not set correctly: user=%q pass=%q ok=%v", u, p, ok)
	}
}

func TestAPIKeyAuth_Header(t *testing.T) {
	auth := APIKeyAuth("secret-key")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-API-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}
}

func TestAPIKeyAuthHeader_CustomName(t *testing.T) {
	auth := APIKeyAuthHeader("secret-key", "X-Custom-Key")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-Custom-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}
}

func TestAPIKeyAuthQuery(t *testing.T) {
	auth := APIKeyAuthQuery("secret-key", "api_key")
	req, _ := http.NewRequest("GET", "http://example.com/path", nil)
	auth.apply(req)
	if got := req.URL.Query().Get("api_key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}
}

func TestCustomAuth(t *testing.T) {
	auth := CustomAuth(func(req *http.Request) {
		req.Header.Set("X-Custom", "value")
	})
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-Custom"); got != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
}

func TestNilAuth(t *testing.T) {
	var auth *AuthConfig
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req) // should not panic
}

func TestAuthNone(t *testing.T) {
	auth := &AuthConfig{Type: AuthNone}
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req) // should not modify request
	if req.Header.Get("Authorization") != "" {
		t.Error("AuthNone should not set Authorization header")
	}
}

func TestAuthFrom_Config(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.AuthConfig
		header string
		want   string
		query  string
	}{
		{"bearer", config.AuthConfig{Type: "bearer", Token: "t"}, "Authorization", "Bearer t", ""},
		{"api key default header", config.AuthConfig{Type: "api_key", Key: "k"}, "X-API-Key", "k", ""},
		{"api key named header", config.AuthConfig{Type: "api_key", Key: "k", Name: "X-Token"}, "X-Token", "k", ""},
		{"api key query", config.AuthConfig{Type: "api_key", Key: "k", In: "query", Name: "key"}, "", "", "key=k"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "http://example.com", nil)
			authFrom(tc.cfg).apply(req)
			if tc.header != "" && req.Header.Get(tc.header) != tc.want {
				t.Errorf("%s = %q, want %q", tc.header, req.Header.Get(tc.header), tc.want)
			}
			if req.URL.RawQuery != tc.query {
				t.Errorf("query = %q, want %q", req.URL.RawQuery, tc.query)
			}
		})
	}
	if authFrom(config.AuthConfig{}) != nil {
		t.Error("empty type should disable auth")
	}
	basic := authFrom(config.AuthConfig{Type: "basic", Username: "u", Password: "p"})
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	basic.apply(req)
	if u, p, ok := req.BasicAuth(); !ok || u != "u" || p != "p" {
		t.Errorf("basic auth = %q %q %v", u, p, ok)
	}
}
