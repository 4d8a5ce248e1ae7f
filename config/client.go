package config

import (
	"fmt"
	"time"

	"github.com/kbukum/structrest/logger"
	"github.com/kbukum/structrest/validation"
)

const defaultTimeout = 30 * time.Second

// ClientConfig configures one API client and its HTTP adapter.
//
//	base_url: https://api.example.com/v1/
//	timeout: 10s
//	headers:
//	  Accept-Language: en
//	auth:
//	  type: bearer
//	  token: s3cret
//	rate_limit:
//	  requests_per_second: 5
//	  burst: 10
type ClientConfig struct {
	Name      string            `yaml:"name" mapstructure:"name"`
	BaseURL   string            `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Timeout   time.Duration     `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`
	UserAgent string            `yaml:"user_agent" mapstructure:"user_agent"`
	Auth      AuthConfig        `yaml:"auth" mapstructure:"auth"`
	RateLimit RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Logging   logger.Config     `yaml:"logging" mapstructure:"logging"`
}

// AuthConfig selects the adapter's authentication scheme.
type AuthConfig struct {
	// Type is one of "", "bearer", "basic" or "api_key".
	Type     string `yaml:"type" mapstructure:"type" validate:"omitempty,oneof=bearer basic api_key"`
	Token    string `yaml:"token" mapstructure:"token" validate:"required_if=Type bearer"`
	Username string `yaml:"username" mapstructure:"username" validate:"required_if=Type basic"`
	Password string `yaml:"password" mapstructure:"password"`
	Key      string `yaml:"key" mapstructure:"key" validate:"required_if=Type api_key"`
	// In places an API key in the "header" (default) or the "query".
	In string `yaml:"in" mapstructure:"in" validate:"omitempty,oneof=header query"`
	// Name is the header or query parameter carrying the API key.
	Name string `yaml:"name" mapstructure:"name"`
}

// RateLimitConfig bounds the adapter's request rate. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// Enabled reports whether a limit is configured.
func (c RateLimitConfig) Enabled() bool { return c.RequestsPerSecond > 0 }

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *ClientConfig) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 1
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the configuration.
func (c *ClientConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// LoadClient loads, defaults and validates the configuration of the named client.
func LoadClient(name string, opts ...LoaderOption) (*ClientConfig, error) {
	cfg := &ClientConfig{Name: name}
	if err := Load(name, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
