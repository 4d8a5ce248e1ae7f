package rest

import (
	"github.com/kbukum/structrest/logger"
	"github.com/kbukum/structrest/observability"
	"github.com/kbukum/structrest/serial"
	"github.com/kbukum/structrest/transport"
)

// Protocol is what a bound endpoint needs from a client: the three
// serialization façades, the adapter and the concurrency strategy.
type Protocol interface {
	// RequestBodyFactory serializes request bodies.
	RequestBodyFactory() *serial.Factory
	// RequestArgsFactory serializes query and JSON-RPC params.
	RequestArgsFactory() *serial.Factory
	// ResponseBodyFactory deserializes response bodies.
	ResponseBodyFactory() *serial.Factory
	// Adapter performs the network I/O.
	Adapter() transport.Adapter
	// Strategy runs the adapter call.
	Strategy() Strategy
	// Logger receives one record per call.
	Logger() *logger.Logger
	// Instrument traces and measures calls. It may be nil.
	Instrument() *observability.Instrument
}

// Client is the default Protocol implementation. It is configured once and
// safe for concurrent use when its adapter is.
type Client struct {
	adapter         transport.Adapter
	strategy        Strategy
	bodyFactory     *serial.Factory
	argsFactory     *serial.Factory
	responseFactory *serial.Factory
	log             *logger.Logger
	instrument      *observability.Instrument
}

// Option configures a Client.
type Option func(*Client)

// WithRequestBodyFactory sets the request-body façade. The args and response
// façades default to it.
func WithRequestBodyFactory(f *serial.Factory) Option {
	return func(c *Client) { c.bodyFactory = f }
}

// WithRequestArgsFactory sets the façade used for query and JSON-RPC params,
// for example one with a different date format.
func WithRequestArgsFactory(f *serial.Factory) Option {
	return func(c *Client) { c.argsFactory = f }
}

// WithResponseBodyFactory sets the response-body façade.
func WithResponseBodyFactory(f *serial.Factory) Option {
	return func(c *Client) { c.responseFactory = f }
}

// WithLogger sets the call logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithInstrument enables tracing and metrics.
func WithInstrument(in *observability.Instrument) Option {
	return func(c *Client) { c.instrument = in }
}

// WithStrategy overrides the concurrency strategy chosen by the constructor.
func WithStrategy(s Strategy) Option {
	return func(c *Client) { c.strategy = s }
}

// NewClient creates a blocking client: calls run the adapter inline.
func NewClient(adapter transport.Adapter, opts ...Option) *Client {
	return newClient(adapter, Blocking, opts)
}

// NewAsyncClient creates a cooperative client: bound endpoints return
// futures and the adapter call runs on its own goroutine.
func NewAsyncClient(adapter transport.Adapter, opts ...Option) *Client {
	return newClient(adapter, Cooperative, opts)
}

func newClient(adapter transport.Adapter, strategy Strategy, opts []Option) *Client {
	c := &Client{adapter: adapter, strategy: strategy}
	for _, opt := range opts {
		opt(c)
	}
	if c.bodyFactory == nil {
		c.bodyFactory = serial.Default()
	}
	if c.argsFactory == nil {
		c.argsFactory = c.bodyFactory
	}
	if c.responseFactory == nil {
		c.responseFactory = c.bodyFactory
	}
	if c.log == nil {
		c.log = logger.Get("structrest")
	}
	return c
}

func (c *Client) RequestBodyFactory() *serial.Factory { return c.bodyFactory }
func (c *Client) RequestArgsFactory() *serial.Factory { return c.argsFactory }
func (c *Client) ResponseBodyFactory() *serial.Factory { return c.responseFactory }
func (c *Client) Adapter() transport.Adapter { return c.adapter }
func (c *Client) Strategy() Strategy { return c.strategy }
func (c *Client) Logger() *logger.Logger { return c.log }
func (c *Client) Instrument() *observability.Instrument { return c.instrument }
