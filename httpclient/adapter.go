package httpclient

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/kbukum/structrest/config"
	"github.com/kbukum/structrest/logger"
	"github.com/kbukum/structrest/transport"
	"github.com/kbukum/structrest/version"
)

// Adapter is the net/http transport.Adapter with auth, default headers and
// client-side rate limiting. It is safe for concurrent use.
type Adapter struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	userAgent  string
	log        *logger.Logger
}

var _ transport.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is
// left as is.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithRoundTripper replaces the transport of the default *http.Client.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.httpClient.Transport = rt }
}

// WithLogger sets the adapter's logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config:    cfg,
		userAgent: cfg.UserAgent,
	}
	if a.userAgent == "" {
		a.userAgent = version.UserAgent()
	}
	if cfg.RateLimit != nil {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		name := cfg.Name
		if name == "" {
			name = "httpclient"
		}
		a.log = logger.Get("httpclient").WithFields(logger.Fields("adapter", name))
	}
	return a, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(cfg Config, opts ...Option) *Adapter {
	a, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// FromConfig creates an adapter from a loaded client configuration. The
// adapter logs through a logger built from cc.Logging unless opts override it.
func FromConfig(cc *config.ClientConfig, opts ...Option) (*Adapter, error) {
	cfg := ConfigFrom(cc)
	log := logger.New(&cc.Logging, cfg.Name).WithComponent("httpclient")
	return New(cfg, append([]Option{WithLogger(log)}, opts...)...)
}

// Do sends req. HTTP error statuses are returned as responses; only
// transport faults are errors. The caller must close the response.
func (a *Adapter) Do(ctx context.Context, req *transport.Request) (transport.Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, limitError(ctx, err)
		}
	}

	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	a.log.Debug("sending request", logger.Fields(
		logger.FieldHTTPMethod, httpReq.Method,
		logger.FieldURL, httpReq.URL.Redacted(),
	))
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, sendError(ctx, err)
	}
	return &Response{resp: resp}, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// GetConfig returns the adapter's configuration.
func (a *Adapter) GetConfig() Config {
	return a.config
}
