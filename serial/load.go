package serial

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// Load converts JSON primitives into a value of type t. Numbers may arrive as
// float64, int64, uint64 or json.Number. Shape mismatches are errors; unknown
// object keys are ignored.
func (f *Factory) Load(raw any, t reflect.Type) (any, error) {
	if err := f.Check(t); err != nil {
		return nil, err
	}
	out := reflect.New(t)
	if raw == nil {
		return out.Elem().Interface(), nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(f.loadHook),
		Result:     out.Interface(),
		TagName:    "json",
		Squash:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("serial: load %s: %w", t, err)
	}
	return out.Elem().Interface(), nil
}

// loadHook runs before mapstructure decodes each value: registered
// converters first, then text unmarshalers, then number handling. Numbers
// are range checked against their target and never load into strings.
func (f *Factory) loadHook(from, to reflect.Type, data any) (any, error) {
	if data == nil {
		return data, nil
	}
	if c, ok := f.converters[to]; ok && c.load != nil {
		return c.load(data)
	}
	if isText(to) && from.Kind() == reflect.String {
		ptr := reflect.New(to)
		u := ptr.Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
	switch to.Kind() {
	case reflect.Interface:
		return normalizeNumbers(data), nil
	case reflect.String:
		if from == numberType {
			return nil, fmt.Errorf("expected a string, got number %s", data)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		n, ok, err := numeric(data)
		if err != nil || !ok {
			return data, err
		}
		return fitNumber(n, to)
	}
	return data, nil
}

var numberType = reflect.TypeOf(json.Number(""))

// numeric normalizes a number to int64, uint64 or float64. ok is false for
// non-numbers, which are left to the structural decoder.
func numeric(data any) (any, bool, error) {
	if n, isNumber := data.(json.Number); isNumber {
		if i, err := n.Int64(); err == nil {
			return i, true, nil
		}
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u, true, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, false, fmt.Errorf("invalid number %s", n)
		}
		return f, true, nil
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), true, nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), true, nil
	}
	return nil, false, nil
}

// fitNumber converts n to type to, failing on overflow, on a fractional value
// for an integer type and on a negative value for an unsigned type.
func fitNumber(n any, to reflect.Type) (any, error) {
	out := reflect.New(to).Elem()
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		switch v := n.(type) {
		case int64:
			i = v
		case uint64:
			if v > math.MaxInt64 {
				return nil, fmt.Errorf("number %d overflows %s", v, to)
			}
			i = int64(v)
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("number %g is not an integer", v)
			}
			if v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, fmt.Errorf("number %g overflows %s", v, to)
			}
			i = int64(v)
		}
		if out.OverflowInt(i) {
			return nil, fmt.Errorf("number %d overflows %s", i, to)
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var u uint64
		switch v := n.(type) {
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("negative number %d for %s", v, to)
			}
			u = uint64(v)
		case uint64:
			u = v
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("number %g is not an integer", v)
			}
			if v < 0 {
				return nil, fmt.Errorf("negative number %g for %s", v, to)
			}
			if v >= math.MaxUint64 {
				return nil, fmt.Errorf("number %g overflows %s", v, to)
			}
			u = uint64(v)
		}
		if out.OverflowUint(u) {
			return nil, fmt.Errorf("number %d overflows %s", u, to)
		}
		out.SetUint(u)
	default:
		var f float64
		switch v := n.(type) {
		case int64:
			f = float64(v)
		case uint64:
			f = float64(v)
		case float64:
			f = v
		}
		if out.OverflowFloat(f) {
			return nil, fmt.Errorf("number %g overflows %s", f, to)
		}
		out.SetFloat(f)
	}
	return out.Interface(), nil
}

// normalizeNumbers replaces json.Number values, at any depth, with int64 when
// integral and float64 otherwise.
func normalizeNumbers(data any) any {
	switch v := data.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if fl, err := v.Float64(); err == nil {
			return fl
		}
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeNumbers(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalizeNumbers(item)
		}
		return out
	}
	return data
}
