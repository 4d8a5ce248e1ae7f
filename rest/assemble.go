package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"reflect"

	"github.com/kbukum/structrest/descriptor"
	"github.com/kbukum/structrest/errors"
	"github.com/kbukum/structrest/transport"
	"github.com/kbukum/structrest/validation"
)

// assemble turns one call's arguments into a transport request. Every
// failure here happens before any I/O.
func assemble(c Protocol, s *Spec, d *descriptor.Descriptor, args any) (*transport.Request, error) {
	b, err := d.Bind(args)
	if err != nil {
		return nil, err
	}
	if err := validation.Validate(b.Args); err != nil {
		return nil, err
	}

	url := d.URL(b)
	if s.BaseURL != "" {
		if url, err = transport.JoinURL(s.BaseURL, url); err != nil {
			return nil, errors.InvalidArgument("", err.Error()).WithCause(err)
		}
	}
	req := &transport.Request{URL: url, Method: s.Method}
	if len(s.Headers) > 0 {
		req.Headers = make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			req.Headers[k] = v
		}
	}

	query, err := c.RequestArgsFactory().Dump(b.Schema, d.ArgsSchema)
	if err != nil {
		return nil, errors.InvalidArgument("", err.Error()).WithCause(err)
	}
	if m, ok := query.(map[string]any); ok && len(m) > 0 {
		if s.Multipart && s.FormFields {
			req.Data = m
		} else {
			req.Query = m
		}
	}

	switch {
	case s.Multipart:
		file, err := attachment(s, d.BodyName, b.Body)
		if err != nil {
			return nil, err
		}
		req.Files = map[string]transport.File{file.FieldName: file}
	case d.BodyType != nil:
		data, err := c.RequestBodyFactory().Dump(b.Body, d.BodyType)
		if err != nil {
			return nil, errors.InvalidArgument(d.BodyName, err.Error()).WithCause(err)
		}
		req.Data = data
		req.IsJSON = true
	}
	return req, nil
}

type named interface {
	Name() string
}

// attachment reads the stream parameter into a multipart file. The filename
// comes from the FileName option, else from the stream's Name method.
func attachment(s *Spec, field string, body any) (transport.File, error) {
	r, ok := body.(io.Reader)
	if !ok || r == nil || isNilValue(r) {
		return transport.File{}, errors.InvalidArgument(field, "stream is nil")
	}
	name := s.FileName
	if name == "" {
		if n, ok := r.(named); ok {
			name = filepath.Base(n.Name())
		}
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return transport.File{}, errors.InvalidArgument(field, "stream has no usable filename; set rest.FileName")
	}
	contents, err := io.ReadAll(r)
	if err != nil {
		return transport.File{}, errors.ClientLibrary(fmt.Errorf("read stream %q: %w", field, err))
	}
	return transport.File{
		FieldName:   field,
		Filename:    name,
		Contents:    contents,
		ContentType: s.ContentType,
	}, nil
}

// isNilValue reports whether v holds a nil pointer, map, slice, chan, func
// or interface behind a non-nil interface.
func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ParseJSON parses a response body into JSON primitives, keeping numbers as
// json.Number. An empty body parses as null; trailing data is an error.
func ParseJSON(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
