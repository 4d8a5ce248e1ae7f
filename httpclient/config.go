package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/structrest/config"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP adapter.
type Config struct {
	// Name identifies the adapter in logs.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL request URLs are resolved against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the per-request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures authentication applied to all requests.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests. Request headers
	// override them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent overrides the default structrest User-Agent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// RateLimit bounds the request rate. Nil disables it.
	RateLimit *RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig is a token bucket: RequestsPerSecond refill, Burst size.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RateLimit != nil && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.RateLimit != nil && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("httpclient: rate limit must be positive")
	}
	return nil
}

// ConfigFrom converts a loaded client configuration into an adapter Config.
func ConfigFrom(cc *config.ClientConfig) Config {
	cfg := Config{
		Name:      cc.Name,
		BaseURL:   cc.BaseURL,
		Timeout:   cc.Timeout,
		Headers:   cc.Headers,
		UserAgent: cc.UserAgent,
		Auth:      authFrom(cc.Auth),
	}
	if cc.RateLimit.Enabled() {
		cfg.RateLimit = &RateLimitConfig{
			RequestsPerSecond: cc.RateLimit.RequestsPerSecond,
			Burst:             cc.RateLimit.Burst,
		}
	}
	return cfg
}
