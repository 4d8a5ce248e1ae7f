package serial

import (
	"encoding"
	"fmt"
	"reflect"
)

// Dump converts v, declared as type t, into JSON primitives: nil, bool, int64,
// uint64, float64, string, []any and map[string]any.
func (f *Factory) Dump(v any, t reflect.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if t != nil && rv.Type() != t {
		if !rv.Type().AssignableTo(t) {
			return nil, fmt.Errorf("serial: cannot dump %s as %s", rv.Type(), t)
		}
		conv := reflect.New(t).Elem()
		conv.Set(rv)
		rv = conv
	}
	return f.dump(rv)
}

func (f *Factory) dump(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	t := v.Type()
	if c, ok := f.converters[t]; ok && c.dump != nil {
		return c.dump(v)
	}
	if isText(t) {
		return dumpText(v)
	}

	switch t.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return f.dump(v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		return f.dumpSeq(v)
	case reflect.Array:
		return f.dumpSeq(v)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key %s", ErrUnsupportedType, t.Key())
		}
		if v.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			item, err := f.dump(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = item
		}
		return out, nil
	case reflect.Struct:
		return f.dumpStruct(v)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func (f *Factory) dumpSeq(v reflect.Value) (any, error) {
	out := make([]any, v.Len())
	for i := range out {
		item, err := f.dump(v.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

func (f *Factory) dumpStruct(v reflect.Value) (map[string]any, error) {
	fields := Fields(v.Type())
	out := make(map[string]any, len(fields))
	for _, fld := range fields {
		fv := v.FieldByIndex(fld.Index)
		if fld.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		item, err := f.dump(fv)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fld.Name, err)
		}
		out[fld.Name] = item
	}
	return out, nil
}

func dumpText(v reflect.Value) (any, error) {
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, nil
	}
	m, ok := v.Interface().(encoding.TextMarshaler)
	if !ok {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		m = ptr.Interface().(encoding.TextMarshaler)
	}
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
