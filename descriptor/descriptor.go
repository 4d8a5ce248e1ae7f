// Package descriptor compiles an endpoint declaration into a Method
// Descriptor: which argument fields fill URL placeholders, which one is the
// body and which remain to be serialized as query or JSON-RPC params.
//
// A declaration is checked once, when the descriptor is built. Every defect
// (unknown placeholder, unsupported type, bad default) is reported there as an
// INVALID_DECLARATION error and never deferred to call time.
package descriptor

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/kbukum/structrest/errors"
	"github.com/kbukum/structrest/serial"
)

// NoArgs is the argument type of endpoints that take no parameters.
type NoArgs struct{}

// DefaultBodyName is the body parameter name the body-carrying verbs use
// when none is given. Unlike an explicit name it may be absent.
const DefaultBodyName = "body"

var readerType = reflect.TypeOf((*io.Reader)(nil)).Elem()

// Options tunes how a descriptor is built.
type Options struct {
	// BodyRequired makes an absent body parameter a declaration error.
	BodyRequired bool
	// Stream declares the body as a binary stream (multipart uploads):
	// its field must be an io.Reader and it is excluded from shape checks.
	Stream bool
}

// Param is one declared argument.
type Param struct {
	// Name is the parameter name: the json tag name or the Go field name.
	Name string
	// Field is the Go struct field.
	Field reflect.StructField
	// Path is set when the URL template consumes the parameter.
	Path bool
	// Body is set for the body parameter.
	Body bool

	def    reflect.Value
	hasDef bool
}

// Default returns the parsed default value, if the field declares one.
func (p Param) Default() (any, bool) {
	if !p.hasDef {
		return nil, false
	}
	return p.def.Interface(), true
}

// Descriptor is the compiled metadata of one endpoint.
type Descriptor struct {
	// ArgsType is the declared argument struct.
	ArgsType reflect.Type
	// ResultType is the declared result type.
	ResultType reflect.Type
	// BodyType is the body field's type, nil when there is no body.
	BodyType reflect.Type
	// BodyName is the body parameter name, empty when there is no body.
	BodyName string
	// Params lists every parameter in declaration order.
	Params []Param
	// ArgsSchema is the synthetic struct holding the parameters that are
	// neither path nor body parameters.
	ArgsSchema reflect.Type
	// Template is the parsed URL template.
	Template *Template

	byName     map[string]int
	schemaFrom []int
}

// Build compiles a descriptor. argsType must be a struct type; bodyName names
// the body parameter, or is empty for endpoints without a body.
func Build(argsType, resultType reflect.Type, urlFormat, bodyName string, opts Options) (*Descriptor, error) {
	if argsType == nil || argsType.Kind() != reflect.Struct {
		return nil, errors.InvalidDeclaration("arguments must be a struct type, got %v", argsType)
	}
	if resultType == nil {
		return nil, errors.InvalidDeclaration("result type is required")
	}
	tmpl, err := ParseTemplate(urlFormat)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		ArgsType:   argsType,
		ResultType: resultType,
		Template:   tmpl,
		byName:     make(map[string]int),
	}
	if err := d.collect(); err != nil {
		return nil, err
	}

	for _, name := range tmpl.Names() {
		i, ok := d.byName[name]
		if !ok {
			return nil, errors.InvalidDeclaration("url %q references unknown parameter %q", urlFormat, name)
		}
		d.Params[i].Path = true
	}

	if bodyName != "" {
		i, ok := d.byName[bodyName]
		switch {
		case ok && d.Params[i].Path:
			return nil, errors.InvalidDeclaration("body parameter %q is also a url placeholder", bodyName)
		case ok:
			d.Params[i].Body = true
			d.BodyName = bodyName
			d.BodyType = d.Params[i].Field.Type
		case opts.BodyRequired || bodyName != DefaultBodyName:
			return nil, errors.InvalidDeclaration("body parameter %q is not declared", bodyName)
		}
	}
	if opts.Stream {
		if d.BodyType == nil {
			return nil, errors.InvalidDeclaration("multipart endpoint needs a stream parameter %q", bodyName)
		}
		if !d.BodyType.Implements(readerType) {
			return nil, errors.InvalidDeclaration("stream parameter %q must be an io.Reader, got %s", bodyName, d.BodyType)
		}
	}

	if err := d.checkShapes(opts.Stream); err != nil {
		return nil, err
	}
	d.ArgsSchema = d.buildSchema()
	return d, nil
}

func (d *Descriptor) collect() error {
	for i := 0; i < d.ArgsType.NumField(); i++ {
		sf := d.ArgsType.Field(i)
		if sf.Anonymous {
			return errors.InvalidDeclaration("%s: embedded field %s is not supported", d.ArgsType, sf.Name)
		}
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if _, dup := d.byName[name]; dup {
			return errors.InvalidDeclaration("%s: duplicate parameter name %q", d.ArgsType, name)
		}
		p := Param{Name: name, Field: sf}
		if raw, ok := sf.Tag.Lookup("default"); ok {
			v, err := parseDefault(raw, sf.Type)
			if err != nil {
				return errors.InvalidDeclaration("%s.%s: bad default %q: %v", d.ArgsType, sf.Name, raw, err)
			}
			p.def, p.hasDef = v, true
		}
		d.byName[name] = len(d.Params)
		d.Params = append(d.Params, p)
	}
	return nil
}

func (d *Descriptor) checkShapes(stream bool) error {
	if err := serial.CheckShape(d.ResultType); err != nil {
		return errors.InvalidDeclaration("result type: %v", err).WithCause(err)
	}
	for _, p := range d.Params {
		if p.Body && stream {
			continue
		}
		if err := serial.CheckShape(p.Field.Type); err != nil {
			return errors.InvalidDeclaration("parameter %q: %v", p.Name, err).WithCause(err)
		}
	}
	return nil
}

// buildSchema builds the synthetic argument struct from the parameters the
// URL and body do not consume. Field names and json tags are preserved.
func (d *Descriptor) buildSchema() reflect.Type {
	fields := make([]reflect.StructField, 0, len(d.Params))
	for i, p := range d.Params {
		if p.Path || p.Body {
			continue
		}
		fields = append(fields, reflect.StructField{
			Name: p.Field.Name,
			Type: p.Field.Type,
			Tag:  p.Field.Tag,
		})
		d.schemaFrom = append(d.schemaFrom, i)
	}
	return reflect.StructOf(fields)
}

// Param returns the parameter with the given name.
func (d *Descriptor) Param(name string) (Param, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Param{}, false
	}
	return d.Params[i], true
}

// PathParams returns the names consumed by the URL template.
func (d *Descriptor) PathParams() []string {
	return d.Template.Names()
}

// QueryParams returns the names serialized through the synthetic schema.
func (d *Descriptor) QueryParams() []string {
	names := make([]string, len(d.schemaFrom))
	for i, idx := range d.schemaFrom {
		names[i] = d.Params[idx].Name
	}
	return names
}

// Bound is one call's arguments resolved against a descriptor.
type Bound struct {
	// Args is the argument struct with defaults applied.
	Args any
	// Path maps each placeholder to its string-converted value.
	Path map[string]string
	// Body is the body value, nil when the endpoint has no body.
	Body any
	// Schema is a value of ArgsSchema holding the remaining parameters.
	Schema any
}

// URL expands the template with the bound path values.
func (d *Descriptor) URL(b *Bound) string {
	return d.Template.Expand(b.Path)
}

// Bind resolves args, which must be of ArgsType (a nil args means all
// parameters omitted). Zero-valued fields with a default take the default.
func (d *Descriptor) Bind(args any) (*Bound, error) {
	v := reflect.New(d.ArgsType).Elem()
	if args != nil {
		av := reflect.ValueOf(args)
		if av.Kind() == reflect.Ptr && av.Type().Elem() == d.ArgsType {
			if av.IsNil() {
				return nil, errors.InvalidArgument("", "nil arguments pointer")
			}
			av = av.Elem()
		}
		if av.Type() != d.ArgsType {
			return nil, errors.InvalidArgument("", fmt.Sprintf("expected %s, got %s", d.ArgsType, av.Type()))
		}
		v.Set(av)
	}

	for _, p := range d.Params {
		if !p.hasDef {
			continue
		}
		if fv := v.FieldByIndex(p.Field.Index); fv.IsZero() {
			fv.Set(p.def)
		}
	}

	b := &Bound{Args: v.Interface(), Path: make(map[string]string, len(d.Template.Names()))}
	for _, p := range d.Params {
		fv := v.FieldByIndex(p.Field.Index)
		switch {
		case p.Path:
			s, err := pathString(fv)
			if err != nil {
				return nil, errors.InvalidArgument(p.Name, err.Error())
			}
			b.Path[p.Name] = s
		case p.Body:
			b.Body = fv.Interface()
		}
	}

	schema := reflect.New(d.ArgsSchema).Elem()
	for i, idx := range d.schemaFrom {
		schema.Field(i).Set(v.FieldByIndex(d.Params[idx].Field.Index))
	}
	b.Schema = schema.Interface()
	return b, nil
}

// pathString converts a path value the way fmt would print it, preferring
// text marshaling. Nil pointers cannot be placed in a URL.
func pathString(v reflect.Value) (string, error) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", fmt.Errorf("path value is nil")
		}
		v = v.Elem()
	}
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	}
	return fmt.Sprint(v.Interface()), nil
}
