package jsonrpc

import (
	"github.com/kbukum/structrest/rest"
	"github.com/kbukum/structrest/transport"
)

// Client is a rest.Client that also issues request ids.
type Client struct {
	*rest.Client
	ids IDGenerator
}

// Option configures a Client.
type Option func(*options)

type options struct {
	ids  IDGenerator
	rest []rest.Option
}

// WithIDGenerator replaces the default UUID ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// WithRESTOptions passes options through to the underlying rest.Client.
func WithRESTOptions(opts ...rest.Option) Option {
	return func(o *options) { o.rest = append(o.rest, opts...) }
}

// NewClient creates a blocking JSON-RPC client.
func NewClient(adapter transport.Adapter, opts ...Option) *Client {
	o := collect(opts)
	return &Client{Client: rest.NewClient(adapter, o.rest...), ids: o.ids}
}

// NewAsyncClient creates a cooperative JSON-RPC client whose bound methods
// return futures.
func NewAsyncClient(adapter transport.Adapter, opts ...Option) *Client {
	o := collect(opts)
	return &Client{Client: rest.NewAsyncClient(adapter, o.rest...), ids: o.ids}
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.ids == nil {
		o.ids = UUIDs()
	}
	return o
}

// NextID returns a fresh request id.
func (c *Client) NextID() any { return c.ids.NextID() }
