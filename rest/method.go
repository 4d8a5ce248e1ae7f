package rest

import (
	"context"
	"fmt"

	"github.com/kbukum/structrest/errors"
	"github.com/kbukum/structrest/observability"
)

// Method is an endpoint bound to a blocking client.
type Method[A, R any] struct {
	client   Protocol
	endpoint *Endpoint[A, R]
}

// AsyncMethod is an endpoint bound to an async client.
type AsyncMethod[A, R any] struct {
	client   Protocol
	endpoint *Endpoint[A, R]
}

// Bind attaches e to a blocking client. Binding an async endpoint or using
// an async client is a declaration error.
func Bind[A, R any](c Protocol, e *Endpoint[A, R]) (*Method[A, R], error) {
	if e.Async || c.Strategy().Async() {
		return nil, errors.InvalidDeclaration("%s: async endpoint and client must be bound with BindAsync", e.Name)
	}
	if err := check(c, e); err != nil {
		return nil, err
	}
	return &Method[A, R]{client: c, endpoint: e}, nil
}

// BindAsync attaches e to an async client.
func BindAsync[A, R any](c Protocol, e *Endpoint[A, R]) (*AsyncMethod[A, R], error) {
	if !e.Async || !c.Strategy().Async() {
		return nil, errors.InvalidDeclaration("%s: BindAsync needs an async endpoint and an async client", e.Name)
	}
	if err := check(c, e); err != nil {
		return nil, err
	}
	return &AsyncMethod[A, R]{client: c, endpoint: e}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[A, R any](c Protocol, e *Endpoint[A, R]) *Method[A, R] {
	m, err := Bind(c, e)
	if err != nil {
		panic(err)
	}
	return m
}

// MustBindAsync is like BindAsync but panics on error.
func MustBindAsync[A, R any](c Protocol, e *Endpoint[A, R]) *AsyncMethod[A, R] {
	m, err := BindAsync(c, e)
	if err != nil {
		panic(err)
	}
	return m
}

// check verifies the endpoint's types against the client's façades, which
// may carry converters the structural check did not know about.
func check[A, R any](c Protocol, e *Endpoint[A, R]) error {
	d := e.desc
	if err := c.ResponseBodyFactory().Check(d.ResultType); err != nil {
		return errors.InvalidDeclaration("%s: result type: %v", e.Name, err).WithCause(err)
	}
	if d.BodyType != nil && !e.Multipart {
		if err := c.RequestBodyFactory().Check(d.BodyType); err != nil {
			return errors.InvalidDeclaration("%s: body: %v", e.Name, err).WithCause(err)
		}
	}
	if err := c.RequestArgsFactory().Check(d.ArgsSchema); err != nil {
		return errors.InvalidDeclaration("%s: arguments: %v", e.Name, err).WithCause(err)
	}
	return nil
}

// Endpoint returns the bound endpoint.
func (m *Method[A, R]) Endpoint() *Endpoint[A, R] { return m.endpoint }

// Call performs one request and decodes the result.
func (m *Method[A, R]) Call(ctx context.Context, args A) (R, error) {
	return start(ctx, m.client, m.endpoint, args).Await(ctx)
}

// Endpoint returns the bound endpoint.
func (m *AsyncMethod[A, R]) Endpoint() *Endpoint[A, R] { return m.endpoint }

// Call starts one request and returns its future. Assembly errors are
// delivered through the future.
func (m *AsyncMethod[A, R]) Call(ctx context.Context, args A) *Future[R] {
	return start(ctx, m.client, m.endpoint, args)
}

func start[A, R any](ctx context.Context, c Protocol, e *Endpoint[A, R], args A) *Future[R] {
	info := observability.CallInfo{Endpoint: e.Name, Method: e.Method, URL: e.URL}
	decode := func(ex Exchange) (R, error) { return Decode[R](c, &e.Spec, ex) }
	req, err := assemble(c, &e.Spec, e.desc, args)
	if err != nil {
		return Failed[R](c, info, err)
	}
	info.URL = req.URL
	return Send(ctx, c, info, req, decode)
}

// Decode classifies a completed exchange and loads the body into R.
func Decode[R any](c Protocol, s *Spec, ex Exchange) (R, error) {
	var zero R
	if ex.Err != nil {
		return zero, ex.Err
	}
	if !ex.OK {
		if s != nil && s.OnError != nil {
			if err := s.OnError(ex.Status, ex.Body); err != nil {
				return zero, err
			}
		}
		return zero, errors.FromStatus(ex.Status, ex.Body)
	}
	raw, err := ParseJSON(ex.Body)
	if err != nil {
		return zero, errors.MalformedResponse(err, ex.Body)
	}
	return Load[R](c, raw, ex.Body)
}

// Load converts parsed JSON into R with the response façade.
func Load[R any](c Protocol, raw any, body []byte) (R, error) {
	var zero R
	v, err := c.ResponseBodyFactory().Load(raw, typeOf[R]())
	if err != nil {
		return zero, errors.MalformedResponse(err, body)
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(R)
	if !ok {
		return zero, errors.MalformedResponse(fmt.Errorf("decoded %T, want %T", v, zero), body)
	}
	return out, nil
}
