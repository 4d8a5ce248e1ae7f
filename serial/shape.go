package serial

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ErrUnsupportedType is returned for types outside the supported shape grammar.
var ErrUnsupportedType = errors.New("serial: unsupported type")

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Field describes one serialized struct field.
type Field struct {
	// Name is the JSON name: the json tag name, or the Go field name.
	Name string
	// Index is the field index path, as accepted by reflect.Value.FieldByIndex.
	Index []int
	// OmitEmpty is set when the json tag carries omitempty.
	OmitEmpty bool
	// Type is the field type.
	Type reflect.Type
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields returns the serialized fields of struct type t. Untagged embedded
// structs are flattened the way encoding/json does; unexported and "-" fields
// are skipped.
func Fields(t reflect.Type) []Field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}
	fields := collectFields(t, nil)
	fieldCache.Store(t, fields)
	return fields
}

func collectFields(t reflect.Type, prefix []int) []Field {
	var out []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, opts := parseTag(sf.Tag.Get("json"))
		if name == "-" && opts == "" {
			continue
		}
		index := append(append([]int(nil), prefix...), i)
		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && sf.Type.Kind() == reflect.Struct {
				out = append(out, collectFields(ft, index)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		out = append(out, Field{
			Name:      name,
			Index:     index,
			OmitEmpty: strings.Contains(opts, "omitempty"),
			Type:      sf.Type,
		})
	}
	return out
}

func parseTag(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

// CheckShape validates t against the structural grammar alone: primitives,
// pointers, sequences, string-keyed maps, structs, text marshalers and any.
func CheckShape(t reflect.Type) error {
	return (*Factory)(nil).check(t, map[reflect.Type]bool{}, t.String())
}

// Check validates t against the grammar extended with f's converters.
func (f *Factory) Check(t reflect.Type) error {
	return f.check(t, map[reflect.Type]bool{}, t.String())
}

func (f *Factory) check(t reflect.Type, seen map[reflect.Type]bool, path string) error {
	if f != nil && f.Has(t) {
		return nil
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	if isText(t) {
		return nil
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return f.check(t.Elem(), seen, path+"[]")
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return fmt.Errorf("%w: %s has non-string map key %s", ErrUnsupportedType, path, t.Key())
		}
		return f.check(t.Elem(), seen, path+"{}")
	case reflect.Struct:
		for _, fld := range Fields(t) {
			if err := f.check(fld.Type, seen, path+"."+fld.Name); err != nil {
				return err
			}
		}
		return nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, path, t)
}

// isText reports whether t (or *t) round-trips through text marshaling.
func isText(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(t)
	marshal := t.Implements(textMarshalerType) || pt.Implements(textMarshalerType)
	return marshal && pt.Implements(textUnmarshalerType)
}
