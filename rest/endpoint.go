package rest

import (
	"net/http"
	"reflect"

	"github.com/kbukum/structrest/descriptor"
	"github.com/kbukum/structrest/errors"
)

// ErrorHandler maps a failed response to an error. Returning nil falls back
// to the default status classification.
type ErrorHandler func(status int, body []byte) error

// Spec is the routing metadata of a declared endpoint.
type Spec struct {
	Name        string
	Method      string
	URL         string
	BodyName    string
	BaseURL     string
	Headers     map[string]string
	Async       bool
	Multipart   bool
	FormFields  bool
	FileName    string
	ContentType string
	OnError     ErrorHandler

	bodyRequired bool
}

// EndpointOption configures a declaration.
type EndpointOption func(*Spec)

// Body names the body parameter. Unlike the verb default, an explicit name
// must match a declared parameter.
func Body(name string) EndpointOption {
	return func(s *Spec) {
		s.BodyName = name
		s.bodyRequired = true
	}
}

// BaseURL overrides the adapter's base URL for this endpoint.
func BaseURL(url string) EndpointOption {
	return func(s *Spec) { s.BaseURL = url }
}

// Header adds a static request header.
func Header(key, value string) EndpointOption {
	return func(s *Spec) {
		if s.Headers == nil {
			s.Headers = make(map[string]string)
		}
		s.Headers[key] = value
	}
}

// Async declares the endpoint for async clients only.
func Async() EndpointOption {
	return func(s *Spec) { s.Async = true }
}

// Name sets the endpoint name used in logs and spans. It defaults to
// "METHOD url".
func Name(name string) EndpointOption {
	return func(s *Spec) { s.Name = name }
}

// FileName sets the multipart filename, overriding the stream's own name.
func FileName(name string) EndpointOption {
	return func(s *Spec) { s.FileName = name }
}

// FormFields sends a multipart endpoint's remaining arguments as form fields
// instead of query parameters.
func FormFields() EndpointOption {
	return func(s *Spec) { s.FormFields = true }
}

// ContentType sets the multipart attachment's content type.
func ContentType(ct string) EndpointOption {
	return func(s *Spec) { s.ContentType = ct }
}

// OnError installs a custom handler for failed responses.
func OnError(h ErrorHandler) EndpointOption {
	return func(s *Spec) { s.OnError = h }
}

// Endpoint is a declared endpoint taking arguments A and returning R.
type Endpoint[A, R any] struct {
	Spec
	desc *descriptor.Descriptor
}

// Descriptor returns the compiled method descriptor.
func (e *Endpoint[A, R]) Descriptor() *descriptor.Descriptor { return e.desc }

// Declare builds an endpoint from a spec. The verb helpers are the usual
// entry points.
func Declare[A, R any](spec Spec, opts ...EndpointOption) (*Endpoint[A, R], error) {
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.Name == "" {
		spec.Name = spec.Method + " " + spec.URL
	}
	if spec.FormFields && !spec.Multipart {
		return nil, errors.InvalidDeclaration("%s: FormFields requires a multipart endpoint", spec.Name)
	}
	desc, err := descriptor.Build(
		typeOf[A](),
		typeOf[R](),
		spec.URL, spec.BodyName,
		descriptor.Options{BodyRequired: spec.bodyRequired || spec.Multipart, Stream: spec.Multipart},
	)
	if err != nil {
		return nil, err
	}
	return &Endpoint[A, R]{Spec: spec, desc: desc}, nil
}

func must[A, R any](e *Endpoint[A, R], err error) *Endpoint[A, R] {
	if err != nil {
		panic(err)
	}
	return e
}

// Get declares a GET endpoint. It has no body unless Body is given.
func Get[A, R any](url string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	return Declare[A, R](Spec{Method: http.MethodGet, URL: url}, opts...)
}

// Delete declares a DELETE endpoint. It has no body unless Body is given.
func Delete[A, R any](url string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	return Declare[A, R](Spec{Method: http.MethodDelete, URL: url}, opts...)
}

// Post declares a POST endpoint whose body is the "body" parameter, if declared.
func Post[A, R any](url string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	return Declare[A, R](Spec{Method: http.MethodPost, URL: url, BodyName: descriptor.DefaultBodyName}, opts...)
}

// Put declares a PUT endpoint whose body is the "body" parameter, if declared.
func Put[A, R any](url string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	return Declare[A, R](Spec{Method: http.MethodPut, URL: url, BodyName: descriptor.DefaultBodyName}, opts...)
}

// Patch declares a PATCH endpoint whose body is the "body" parameter, if declared.
func Patch[A, R any](url string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	return Declare[A, R](Spec{Method: http.MethodPatch, URL: url, BodyName: descriptor.DefaultBodyName}, opts...)
}

// Multipart declares a multipart upload. The stream parameter, "file" unless
// Body is given, must be an io.Reader; it is sent as a form file under its
// parameter name.
func Multipart[A, R any](method, url string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	return Declare[A, R](Spec{Method: method, URL: url, BodyName: "file", Multipart: true}, opts...)
}

// File declares a POST multipart upload of the "file" parameter.
func File[A, R any](url string, opts ...EndpointOption) (*Endpoint[A, R], error) {
	return Multipart[A, R](http.MethodPost, url, opts...)
}

// MustGet is like Get but panics on a declaration error. It suits
// package-level endpoint variables.
func MustGet[A, R any](url string, opts ...EndpointOption) *Endpoint[A, R] {
	return must(Get[A, R](url, opts...))
}

// MustDelete is like Delete but panics on a declaration error.
func MustDelete[A, R any](url string, opts ...EndpointOption) *Endpoint[A, R] {
	return must(Delete[A, R](url, opts...))
}

// MustPost is like Post but panics on a declaration error.
func MustPost[A, R any](url string, opts ...EndpointOption) *Endpoint[A, R] {
	return must(Post[A, R](url, opts...))
}

// MustPut is like Put but panics on a declaration error.
func MustPut[A, R any](url string, opts ...EndpointOption) *Endpoint[A, R] {
	return must(Put[A, R](url, opts...))
}

// MustPatch is like Patch but panics on a declaration error.
func MustPatch[A, R any](url string, opts ...EndpointOption) *Endpoint[A, R] {
	return must(Patch[A, R](url, opts...))
}

// MustMultipart is like Multipart but panics on a declaration error.
func MustMultipart[A, R any](method, url string, opts ...EndpointOption) *Endpoint[A, R] {
	return must(Multipart[A, R](method, url, opts...))
}

// MustFile is like File but panics on a declaration error.
func MustFile[A, R any](url string, opts ...EndpointOption) *Endpoint[A, R] {
	return must(File[A, R](url, opts...))
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
