package jsonrpc

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/structrest/descriptor"
	"github.com/kbukum/structrest/errors"
	"github.com/kbukum/structrest/observability"
	"github.com/kbukum/structrest/rest"
	"github.com/kbukum/structrest/serial"
	"github.com/kbukum/structrest/transport"
	"github.com/kbukum/structrest/validation"
)

// Endpoint is a declared remote procedure taking arguments A and
// returning R.
type Endpoint[A, R any] struct {
	// Method is the remote method name.
	Method string
	// Name labels the endpoint in logs and spans. It defaults to Method.
	Name string
	// Path is the URL template the envelope is posted to, relative to the
	// adapter's base URL. Placeholders consume arguments.
	Path string
	// BaseURL overrides the adapter's base URL.
	BaseURL string
	// Positional sends params as an array in field order.
	Positional bool
	// Async restricts the endpoint to async clients.
	Async bool

	desc *descriptor.Descriptor
}

// EndpointOption configures a declaration.
type EndpointOption func(*declaration)

type declaration struct {
	name, path, baseURL string
	positional, async   bool
}

// Path sets the URL path the envelope is posted to.
func Path(path string) EndpointOption {
	return func(d *declaration) { d.path = path }
}

// BaseURL overrides the adapter's base URL for this endpoint.
func BaseURL(url string) EndpointOption {
	return func(d *declaration) { d.baseURL = url }
}

// Positional sends params by position instead of by name.
func Positional() EndpointOption {
	return func(d *declaration) { d.positional = true }
}

// Async declares the endpoint for async clients only.
func Async() EndpointOption {
	return func(d *declaration) { d.async = true }
}

// Name sets the endpoint name used in logs and spans.
func Name(name string) EndpointOption {
	return func(d *declaration) { d.name = name }
}

// Descriptor returns the compiled method descriptor.
func (e *Endpoint[A, R]) Descriptor() *descriptor.Descriptor { return e.desc }

// Declare declares a remote method. Every argument that the path does not
// consume is sent in params.
func Declare[A, R any](method string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	if method == "" {
		return nil, errors.InvalidDeclaration("jsonrpc: method name is required")
	}
	d := declaration{name: method}
	for _, opt := range opts {
		opt(&d)
	}
	desc, err := descriptor.Build(
		reflect.TypeOf((*A)(nil)).Elem(),
		reflect.TypeOf((*R)(nil)).Elem(),
		d.path, "", descriptor.Options{},
	)
	if err != nil {
		return nil, err
	}
	return &Endpoint[A, R]{
		Method:     method,
		Name:       d.name,
		Path:       d.path,
		BaseURL:    d.baseURL,
		Positional: d.positional,
		Async:      d.async,
		desc:       desc,
	}, nil
}

// MustDeclare is like Declare but panics on a declaration error.
func MustDeclare[A, R any](method string, opts ...EndpointOption) *Endpoint[A, R] {
	e, err := Declare[A, R](method, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Method is a remote method bound to a blocking client.
type Method[A, R any] struct {
	client   *Client
	endpoint *Endpoint[A, R]
}

// AsyncMethod is a remote method bound to an async client.
type AsyncMethod[A, R any] struct {
	client   *Client
	endpoint *Endpoint[A, R]
}

// Bind attaches e to a blocking client.
func Bind[A, R any](c *Client, e *Endpoint[A, R]) (*Method[A, R], error) {
	if e.Async || c.Strategy().Async() {
		return nil, errors.InvalidDeclaration("%s: async endpoint and client must be bound with BindAsync", e.Name)
	}
	if err := check(c, e); err != nil {
		return nil, err
	}
	return &Method[A, R]{client: c, endpoint: e}, nil
}

// BindAsync attaches e to an async client.
func BindAsync[A, R any](c *Client, e *Endpoint[A, R]) (*AsyncMethod[A, R], error) {
	if !e.Async || !c.Strategy().Async() {
		return nil, errors.InvalidDeclaration("%s: BindAsync needs an async endpoint and an async client", e.Name)
	}
	if err := check(c, e); err != nil {
		return nil, err
	}
	return &AsyncMethod[A, R]{client: c, endpoint: e}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[A, R any](c *Client, e *Endpoint[A, R]) *Method[A, R] {
	m, err := Bind(c, e)
	if err != nil {
		panic(err)
	}
	return m
}

// MustBindAsync is like BindAsync but panics on error.
func MustBindAsync[A, R any](c *Client, e *Endpoint[A, R]) *AsyncMethod[A, R] {
	m, err := BindAsync(c, e)
	if err != nil {
		panic(err)
	}
	return m
}

func check[A, R any](c *Client, e *Endpoint[A, R]) error {
	if err := c.ResponseBodyFactory().Check(e.desc.ResultType); err != nil {
		return errors.InvalidDeclaration("%s: result type: %v", e.Name, err).WithCause(err)
	}
	if err := c.RequestArgsFactory().Check(e.desc.ArgsSchema); err != nil {
		return errors.InvalidDeclaration("%s: arguments: %v", e.Name, err).WithCause(err)
	}
	return nil
}

// Call performs one remote call and decodes its result.
func (m *Method[A, R]) Call(ctx context.Context, args A) (R, error) {
	return start(ctx, m.client, m.endpoint, args).Await(ctx)
}

// Call starts one remote call and returns its future.
func (m *AsyncMethod[A, R]) Call(ctx context.Context, args A) *rest.Future[R] {
	return start(ctx, m.client, m.endpoint, args)
}

func start[A, R any](ctx context.Context, c *Client, e *Endpoint[A, R], args A) *rest.Future[R] {
	id := c.NextID()
	info := observability.CallInfo{
		Endpoint: e.Name,
		Method:   http.MethodPost,
		URL:      e.Path,
		Attributes: []attribute.KeyValue{
			attribute.String(observability.AttrRPCMethod, e.Method),
			attribute.String(observability.AttrRPCID, idString(id)),
		},
	}
	id, err := normalizeID(id)
	if err != nil {
		return rest.Failed[R](c, info, errors.InvalidArgument("id", err.Error()))
	}
	req, err := envelope(c, e, id, args)
	if err != nil {
		return rest.Failed[R](c, info, err)
	}
	info.URL = req.URL
	return rest.Send(ctx, c, info, req, func(ex rest.Exchange) (R, error) { return decode[R](c, id, ex) })
}

// envelope assembles the POST request carrying one call.
func envelope[A, R any](c *Client, e *Endpoint[A, R], id any, args A) (*transport.Request, error) {
	b, err := e.desc.Bind(args)
	if err != nil {
		return nil, err
	}
	if err := validation.Validate(b.Args); err != nil {
		return nil, err
	}
	url := e.desc.URL(b)
	if e.BaseURL != "" {
		if url, err = transport.JoinURL(e.BaseURL, url); err != nil {
			return nil, errors.InvalidArgument("", err.Error()).WithCause(err)
		}
	}
	params, err := dumpParams(c.RequestArgsFactory(), e.desc, b, e.Positional)
	if err != nil {
		return nil, err
	}
	return &transport.Request{
		URL:    url,
		Method: http.MethodPost,
		Data:   Request{JSONRPC: Version, ID: id, Method: e.Method, Params: params},
		IsJSON: true,
	}, nil
}

// dumpParams serializes the arguments as a named object, or as an array in
// field order when positional. Endpoints without params omit the member.
func dumpParams(f *serial.Factory, d *descriptor.Descriptor, b *descriptor.Bound, positional bool) (any, error) {
	fields := serial.Fields(d.ArgsSchema)
	if len(fields) == 0 {
		return nil, nil
	}
	raw, err := f.Dump(b.Schema, d.ArgsSchema)
	if err != nil {
		return nil, errors.InvalidArgument("", err.Error()).WithCause(err)
	}
	if !positional {
		return raw, nil
	}
	named, _ := raw.(map[string]any)
	list := make([]any, len(fields))
	for i, fld := range fields {
		list[i] = named[fld.Name]
	}
	return list, nil
}

// decode unwraps the response envelope. A valid error envelope wins over the
// HTTP status; otherwise failed statuses are classified like REST calls.
func decode[R any](c *Client, id any, ex rest.Exchange) (R, error) {
	var zero R
	if ex.Err != nil {
		return zero, ex.Err
	}
	resp, perr := parse(ex.Body)
	if !ex.OK {
		if perr == nil && resp.err != nil && correlated(id, resp) {
			return zero, withData(c, resp)
		}
		return zero, errors.FromStatus(ex.Status, ex.Body)
	}
	if perr != nil {
		return zero, errors.MalformedResponse(perr, ex.Body)
	}
	if !correlated(id, resp) {
		return zero, errors.MalformedResponse(fmt.Errorf("response id %v does not match request id %v", resp.id, id), ex.Body)
	}
	if resp.err != nil {
		return zero, withData(c, resp)
	}
	return rest.Load[R](c, resp.result, ex.Body)
}

func parse(body []byte) (*response, error) {
	raw, err := rest.ParseJSON(body)
	if err != nil {
		return nil, err
	}
	return parseResponse(raw)
}

// correlated reports whether resp answers request id. Error responses may
// carry a null id when the server could not read it.
func correlated(id any, resp *response) bool {
	if resp.err != nil && resp.id == nil {
		return true
	}
	return sameID(id, resp.id)
}

func withData(c *Client, resp *response) *Error {
	if resp.data != nil {
		if data, err := c.ResponseBodyFactory().Load(resp.data, anyType); err == nil {
			resp.err.Data = data
		}
	}
	return resp.err
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()
