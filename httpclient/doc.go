// Package httpclient is the net/http implementation of transport.Adapter.
//
// It resolves request URLs against a base URL, encodes JSON, raw and
// multipart bodies, applies default headers, authentication and a
// User-Agent, and optionally rate-limits requests client side. HTTP error
// statuses are returned as responses; only transport faults (timeouts,
// connection failures, encoding problems) are errors.
//
// # Basic Usage
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com/v1/",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//	client := rest.NewClient(adapter)
//
// # From Configuration
//
//	cc, err := config.LoadClient("billing")
//	adapter, err := httpclient.FromConfig(cc)
package httpclient
