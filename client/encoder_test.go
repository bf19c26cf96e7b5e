package client

import (
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/simrl/simenv/wire"
)

func TestEncodeScalars(t *testing.T) {
	e := NewEncoder(DefaultCacheSize)
	cases := []struct {
		name string
		in   any
		want wire.Action
	}{
		{"int", 3, wire.IntAction(3)},
		{"int32", int32(7), wire.IntAction(7)},
		{"int64", int64(-2), wire.IntAction(-2)},
		{"uint8", uint8(5), wire.IntAction(5)},
		{"float64", 2.5, wire.FloatAction(2.5)},
		{"float32", float32(1.5), wire.FloatAction(1.5)},
		{"bool", true, wire.BoolAction(true)},
		{"string", "north", wire.StringAction("north")},
	}
	for _, c := range cases {
		got, err := e.Encode(c.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	cached := NewEncoder(DefaultCacheSize)
	uncached := NewEncoder(0)
	for _, in := range []any{3, 2.5, true} {
		first, err := cached.Encode(in)
		if err != nil {
			t.Fatalf("encode %v: %v", in, err)
		}
		second, err := cached.Encode(in)
		if err != nil {
			t.Fatalf("encode %v again: %v", in, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("cache hit for %v differs: %s vs %s", in, first, second)
		}
		fresh, err := uncached.Encode(in)
		if err != nil {
			t.Fatalf("uncached encode %v: %v", in, err)
		}
		if !reflect.DeepEqual(first, fresh) {
			t.Errorf("cached and uncached encodings of %v differ: %s vs %s", in, first, fresh)
		}
	}
}

func TestEncodeSizeOneBuffers(t *testing.T) {
	e := NewEncoder(DefaultCacheSize)
	cases := []struct {
		name   string
		buffer any
		scalar any
	}{
		{"float slice", []float64{2.5}, 2.5},
		{"float32 slice", []float32{1.5}, float32(1.5)},
		{"int slice", []int{3}, 3},
		{"int64 slice", []int64{9}, int64(9)},
		{"bool slice", []bool{true}, true},
		{"vecdense", mat.NewVecDense(1, []float64{4.25}), 4.25},
	}
	for _, c := range cases {
		fromBuffer, err := e.Encode(c.buffer)
		if err != nil {
			t.Fatalf("%s: encode buffer: %v", c.name, err)
		}
		fromScalar, err := e.Encode(c.scalar)
		if err != nil {
			t.Fatalf("%s: encode scalar: %v", c.name, err)
		}
		if !reflect.DeepEqual(fromBuffer, fromScalar) {
			t.Errorf("%s: size-1 buffer encoded as %s, scalar as %s", c.name, fromBuffer, fromScalar)
		}
	}
}

func TestEncodeArrays(t *testing.T) {
	e := NewEncoder(DefaultCacheSize)
	cases := []struct {
		name string
		in   any
		want wire.Action
	}{
		{"float slice", []float64{0.5, -1.5, 2}, wire.FloatArrayAction([]float64{0.5, -1.5, 2})},
		{"int slice", []int{1, 2, 3}, wire.IntArrayAction([]int64{1, 2, 3})},
		{"int32 slice", []int32{4, 5}, wire.IntArrayAction([]int64{4, 5})},
		{"bool slice", []bool{true, false}, wire.BoolArrayAction([]bool{true, false})},
		{"vecdense", mat.NewVecDense(3, []float64{1, 2, 3}), wire.FloatArrayAction([]float64{1, 2, 3})},
	}
	for _, c := range cases {
		got, err := e.Encode(c.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestEncodeSequences(t *testing.T) {
	e := NewEncoder(DefaultCacheSize)
	cases := []struct {
		name string
		in   []any
		want wire.Action
	}{
		{"ints", []any{1, 2, 3}, wire.IntArrayAction([]int64{1, 2, 3})},
		{"floats", []any{1.0, 2.5}, wire.FloatArrayAction([]float64{1, 2.5})},
		{"bools", []any{true, false}, wire.BoolArrayAction([]bool{true, false})},
		// mixed kinds coerce to float, booleans becoming 0/1
		{"mixed", []any{1, 2.5, true}, wire.FloatArrayAction([]float64{1, 2.5, 1})},
	}
	for _, c := range cases {
		got, err := e.Encode(c.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestEncodeUnsupported(t *testing.T) {
	e := NewEncoder(DefaultCacheSize)
	for _, in := range []any{
		[]any{1, "x"},
		struct{ X int }{X: 1},
		nil,
		map[string]int{"a": 1},
	} {
		_, err := e.Encode(in)
		if err == nil {
			t.Errorf("encode %#v: expected error", in)
			continue
		}
		var unsupported *UnsupportedActionError
		if !errors.As(err, &unsupported) {
			t.Errorf("encode %#v: got %T, want UnsupportedActionError", in, err)
		}
	}
}

func TestEncodeNamedNumericType(t *testing.T) {
	type force float64
	e := NewEncoder(DefaultCacheSize)
	got, err := e.Encode(force(1.25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := wire.FloatAction(1.25); !reflect.DeepEqual(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestCacheCapacityCutoff(t *testing.T) {
	e := NewEncoder(2)
	for _, v := range []int{1, 2, 3, 4} {
		got, err := e.Encode(v)
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		if want := wire.IntAction(int64(v)); !reflect.DeepEqual(got, want) {
			t.Errorf("encode %d: got %s, want %s", v, got, want)
		}
	}
	if len(e.cache) != 2 {
		t.Errorf("cache grew past capacity: %d entries", len(e.cache))
	}
	// values past the cap still encode correctly on repeat
	got, err := e.Encode(4)
	if err != nil {
		t.Fatalf("re-encode bypassed value: %v", err)
	}
	if want := wire.IntAction(4); !reflect.DeepEqual(got, want) {
		t.Errorf("re-encode bypassed value: got %s, want %s", got, want)
	}
}

func TestArrayActionsNotCached(t *testing.T) {
	e := NewEncoder(DefaultCacheSize)
	if _, err := e.Encode([]float64{1, 2, 3}); err != nil {
		t.Fatalf("encode array: %v", err)
	}
	if len(e.cache) != 0 {
		t.Errorf("array action landed in the scalar cache: %d entries", len(e.cache))
	}
}

func TestEncodeAll(t *testing.T) {
	e := NewEncoder(DefaultCacheSize)
	got, err := e.EncodeAll([]any{1, 2.5, []float64{1, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []wire.Action{
		wire.IntAction(1),
		wire.FloatAction(2.5),
		wire.FloatArrayAction([]float64{1, 2}),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := e.EncodeAll([]any{1, struct{}{}}); err == nil {
		t.Error("expected error for unsupported batch element")
	}
}
