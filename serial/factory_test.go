package serial

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type child struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type item struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Tags     []string         `json:"tags"`
	Price    *float64         `json:"price"`
	Created  time.Time        `json:"created"`
	Children []child          `json:"children"`
	Meta     map[string]int   `json:"meta"`
	Ref      uuid.UUID        `json:"ref"`
	Wait     time.Duration    `json:"wait"`
	Blob     []byte           `json:"blob"`
	Extra    *child           `json:"extra,omitempty"`
	Raw      json.RawMessage  `json:"raw"`
	Nested   map[string][]int `json:"nested"`
	Active   bool             `json:"active"`
	Ratio    float32          `json:"ratio"`
	Counter  uint16           `json:"counter"`
	internal string
}

func sampleItem() item {
	price := 9.5
	return item{
		ID:       42,
		Name:     "widget",
		Tags:     []string{"a", "b"},
		Price:    &price,
		Created:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Children: []child{{Name: "c1", Score: 1}, {Name: "c2", Score: 2}},
		Meta:     map[string]int{"x": 1},
		Ref:      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Wait:     1500 * time.Millisecond,
		Blob:     []byte{0, 1, 2, 250},
		Raw:      json.RawMessage(`{"k":[1,2]}`),
		Nested:   map[string][]int{"n": {3, 4}},
		Active:   true,
		Ratio:    0.25,
		Counter:  7,
	}
}

func TestRoundTrip_Composite(t *testing.T) {
	f := New()
	in := sampleItem()
	typ := reflect.TypeOf(in)

	raw, err := f.Dump(in, typ)
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", raw)
	}
	if m["created"] != "2024-03-01T12:30:00Z" {
		t.Errorf("created = %v", m["created"])
	}
	if _, present := m["extra"]; present {
		t.Error("omitempty nil pointer should be skipped")
	}
	if _, present := m["internal"]; present {
		t.Error("unexported field must not be dumped")
	}

	out, err := LoadAs[item](f, raw)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	// RawMessage is re-encoded, compare it semantically.
	if !jsonEqual(t, in.Raw, out.Raw) {
		t.Errorf("raw = %s, want %s", out.Raw, in.Raw)
	}
	in.Raw, out.Raw = nil, nil
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", out, in)
	}
}

func TestRoundTrip_ThroughJSON(t *testing.T) {
	f := New()
	in := sampleItem()
	in.Raw = nil

	raw, err := DumpValue(f, in)
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := LoadAs[item](f, parsed)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", out, in)
	}
}

func TestRoundTrip_Sequences(t *testing.T) {
	f := Default()
	tests := []struct {
		name string
		v    any
	}{
		{"ints", []int{1, 2, 3}},
		{"optional", []*int{nil}},
		{"nested", [][]string{{"a"}, {"b", "c"}}},
		{"array", [2]bool{true, false}},
		{"map of structs", map[string]child{"k": {Name: "n", Score: 3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			typ := reflect.TypeOf(tc.v)
			raw, err := f.Dump(tc.v, typ)
			if err != nil {
				t.Fatalf("Dump() error: %v", err)
			}
			out, err := f.Load(raw, typ)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if !reflect.DeepEqual(out, tc.v) {
				t.Errorf("got %#v, want %#v", out, tc.v)
			}
		})
	}
}

func TestLoad_NumbersFromJSON(t *testing.T) {
	got, err := LoadAs[[]int](Default(), []any{json.Number("1"), json.Number("2"), json.Number("3")})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}

	untyped, err := LoadAs[any](Default(), map[string]any{"a": json.Number("1"), "b": []any{json.Number("2.5")}})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := map[string]any{"a": int64(1), "b": []any{2.5}}
	if !reflect.DeepEqual(untyped, want) {
		t.Errorf("got %#v, want %#v", untyped, want)
	}
}

func TestLoad_NumberBounds(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"int8 max", json.Number("127"), int8(127)},
		{"int8 min", json.Number("-128"), int8(-128)},
		{"uint64 max", json.Number("18446744073709551615"), uint64(math.MaxUint64)},
		{"integral exponent", json.Number("1e3"), 1000},
		{"float32", json.Number("0.5"), float32(0.5)},
		{"int into float", int64(3), 3.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Default().Load(tc.raw, reflect.TypeOf(tc.want))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestLoad_Nil(t *testing.T) {
	got, err := LoadAs[*child](Default(), nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	n, err := LoadAs[int](Default(), nil)
	if err != nil || n != 0 {
		t.Errorf("expected zero int, got %v %v", n, err)
	}
}

func TestLoad_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		typ  reflect.Type
	}{
		{"string into int", "abc", reflect.TypeOf(0)},
		{"scalar into struct", "x", reflect.TypeOf(child{})},
		{"object into slice", map[string]any{"a": 1}, reflect.TypeOf([]int{})},
		{"bad time", "yesterday", reflect.TypeOf(time.Time{})},
		{"bad uuid", "not-a-uuid", reflect.TypeOf(uuid.UUID{})},
		{"number into string", json.Number("12345"), reflect.TypeOf("")},
		{"int8 overflow", json.Number("300"), reflect.TypeOf(int8(0))},
		{"int8 underflow", json.Number("-129"), reflect.TypeOf(int8(0))},
		{"negative uint", json.Number("-1"), reflect.TypeOf(uint(0))},
		{"fraction into int", json.Number("2.5"), reflect.TypeOf(0)},
		{"float32 overflow", json.Number("1e300"), reflect.TypeOf(float32(0))},
		{"uint64 into int64", uint64(math.MaxUint64), reflect.TypeOf(int64(0))},
		{"dumped int into uint8", int64(256), reflect.TypeOf(uint8(0))},
		{"nested overflow", map[string]any{"n": json.Number("300")}, reflect.TypeOf(struct {
			N int8 `json:"n"`
		}{})},
		{"overflow in slice", []any{json.Number("1"), json.Number("70000")}, reflect.TypeOf([]uint16{})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Default().Load(tc.raw, tc.typ); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCheck_Unsupported(t *testing.T) {
	type withChan struct {
		C chan int `json:"c"`
	}
	type withFunc struct {
		F func() `json:"f"`
	}
	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"chan", reflect.TypeOf(make(chan int))},
		{"func", reflect.TypeOf(func() {})},
		{"complex", reflect.TypeOf(complex(1, 2))},
		{"int keys", reflect.TypeOf(map[int]string{})},
		{"nested chan", reflect.TypeOf(withChan{})},
		{"slice of func", reflect.TypeOf([]withFunc{})},
		{"non-empty interface", reflect.TypeOf((*error)(nil)).Elem()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckShape(tc.typ)
			if !errors.Is(err, ErrUnsupportedType) {
				t.Fatalf("expected ErrUnsupportedType, got %v", err)
			}
		})
	}
}

func TestCheck_Supported(t *testing.T) {
	types := []reflect.Type{
		reflect.TypeOf(item{}),
		reflect.TypeOf([]*item{}),
		reflect.TypeOf(map[string]any{}),
		reflect.TypeOf((*any)(nil)).Elem(),
	}
	for _, typ := range types {
		if err := Default().Check(typ); err != nil {
			t.Errorf("Check(%s) error: %v", typ, err)
		}
	}
}

func TestDump_UnsupportedValue(t *testing.T) {
	_, err := Default().Dump(map[string]any{"c": make(chan int)}, nil)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTimeFormat_OnClone(t *testing.T) {
	base := New()
	args := base.Clone().TimeFormat("2006-01-02")
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	got, err := DumpValue(args, day)
	if err != nil || got != "2024-05-06" {
		t.Errorf("args façade: got %v, %v", got, err)
	}
	full, err := DumpValue(base, day)
	if err != nil || full != "2024-05-06T00:00:00Z" {
		t.Errorf("base façade must be untouched: got %v, %v", full, err)
	}
}

type celsius float64

func TestRegister_Custom(t *testing.T) {
	f := New()
	Register(f,
		func(c celsius) (any, error) { return fmt.Sprintf("%gC", float64(c)), nil },
		func(raw any) (celsius, error) {
			s, _ := raw.(string)
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, "C"), 64)
			return celsius(v), err
		})

	raw, err := f.Dump([]celsius{21.5}, nil)
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	if !reflect.DeepEqual(raw, []any{"21.5C"}) {
		t.Errorf("got %#v", raw)
	}
	back, err := LoadAs[[]celsius](f, raw)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(back) != 1 || back[0] != 21.5 {
		t.Errorf("got %v", back)
	}
	if Default().Has(reflect.TypeOf(celsius(0))) {
		t.Error("registering on a factory must not leak into Default")
	}
}

func TestFields_Embedded(t *testing.T) {
	type base struct {
		ID int `json:"id"`
	}
	type outer struct {
		base
		Name   string `json:"name"`
		Hidden string `json:"-"`
	}
	raw, err := DumpValue(Default(), outer{base: base{ID: 1}, Name: "n", Hidden: "h"})
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	want := map[string]any{"id": int64(1), "name": "n"}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("got %#v, want %#v", raw, want)
	}
}

func jsonEqual(t *testing.T, a, b json.RawMessage) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}
