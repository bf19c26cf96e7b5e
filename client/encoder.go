package client

import (
	"fmt"
	"math"
	"reflect"

	"gonum.org/v1/gonum/mat"

	"github.com/simrl/simenv/wire"
)

// DefaultCacheSize bounds the encoder's scalar cache unless overridden.
const DefaultCacheSize = 256

// Encoder converts locally-typed action values into tagged wire actions.
// Classification order is significant: buffers first (with size-1 unwrap),
// then scalars, then mixed sequences, then a float coercion of last resort.
//
// Scalar int/float/bool encodings are cached up to the capacity; once full,
// new distinct values bypass the cache. Hits and misses yield identical
// wire values.
type Encoder struct {
	cache    map[cacheKey]wire.Action
	capacity int
}

type cacheKey struct {
	kind byte
	bits uint64
}

func NewEncoder(cacheSize int) *Encoder {
	return &Encoder{
		cache:    make(map[cacheKey]wire.Action),
		capacity: cacheSize,
	}
}

// Encode converts one action value to its wire form. It fails with
// UnsupportedActionError only when no coercion rule applies.
func (e *Encoder) Encode(v any) (wire.Action, error) {
	// 1. multi-element numeric buffers; size-1 buffers unwrap to scalars
	if a, ok := e.encodeBuffer(v); ok {
		return a, nil
	}
	// 2. scalar bool/int/float, 3. text
	if a, ok := e.encodeScalar(v); ok {
		return a, nil
	}
	// 4. ordered sequences without a static element type
	if seq, ok := v.([]any); ok {
		return e.encodeSequence(seq)
	}
	// 5. last resort: anything reflection sees as a number
	if f, ok := coerceFloat(v); ok {
		return wire.FloatAction(f), nil
	}
	return wire.Action{}, &UnsupportedActionError{Value: v}
}

// EncodeAll encodes a batch of actions independently, preserving order.
func (e *Encoder) EncodeAll(vs []any) ([]wire.Action, error) {
	out := make([]wire.Action, len(vs))
	for i, v := range vs {
		a, err := e.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}

func (e *Encoder) encodeBuffer(v any) (wire.Action, bool) {
	switch x := v.(type) {
	case []float64:
		if len(x) == 1 {
			return e.floatScalar(x[0]), true
		}
		out := make([]float64, len(x))
		copy(out, x)
		return wire.FloatArrayAction(out), true
	case []float32:
		if len(x) == 1 {
			return e.floatScalar(float64(x[0])), true
		}
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return wire.FloatArrayAction(out), true
	case []int:
		if len(x) == 1 {
			return e.intScalar(int64(x[0])), true
		}
		out := make([]int64, len(x))
		for i, n := range x {
			out[i] = int64(n)
		}
		return wire.IntArrayAction(out), true
	case []int32:
		if len(x) == 1 {
			return e.intScalar(int64(x[0])), true
		}
		out := make([]int64, len(x))
		for i, n := range x {
			out[i] = int64(n)
		}
		return wire.IntArrayAction(out), true
	case []int64:
		if len(x) == 1 {
			return e.intScalar(x[0]), true
		}
		out := make([]int64, len(x))
		copy(out, x)
		return wire.IntArrayAction(out), true
	case []bool:
		if len(x) == 1 {
			return e.boolScalar(x[0]), true
		}
		out := make([]bool, len(x))
		copy(out, x)
		return wire.BoolArrayAction(out), true
	case *mat.VecDense:
		if x.Len() == 1 {
			return e.floatScalar(x.AtVec(0)), true
		}
		out := make([]float64, x.Len())
		for i := range out {
			out[i] = x.AtVec(i)
		}
		return wire.FloatArrayAction(out), true
	}
	return wire.Action{}, false
}

func (e *Encoder) encodeScalar(v any) (wire.Action, bool) {
	// bool is a distinct wire kind, checked before the integer kinds
	switch x := v.(type) {
	case bool:
		return e.boolScalar(x), true
	case int:
		return e.intScalar(int64(x)), true
	case int8:
		return e.intScalar(int64(x)), true
	case int16:
		return e.intScalar(int64(x)), true
	case int32:
		return e.intScalar(int64(x)), true
	case int64:
		return e.intScalar(x), true
	case uint:
		return e.intScalar(int64(x)), true
	case uint8:
		return e.intScalar(int64(x)), true
	case uint16:
		return e.intScalar(int64(x)), true
	case uint32:
		return e.intScalar(int64(x)), true
	case float32:
		return e.floatScalar(float64(x)), true
	case float64:
		return e.floatScalar(x), true
	case string:
		return wire.StringAction(x), true
	}
	return wire.Action{}, false
}

func (e *Encoder) encodeSequence(seq []any) (wire.Action, error) {
	if kind, ok := uniformKind(seq); ok {
		switch kind {
		case 'f':
			out := make([]float64, len(seq))
			for i, x := range seq {
				out[i], _ = coerceFloat(x)
			}
			return wire.FloatArrayAction(out), nil
		case 'i':
			out := make([]int64, len(seq))
			for i, x := range seq {
				out[i] = coerceInt(x)
			}
			return wire.IntArrayAction(out), nil
		case 'b':
			out := make([]bool, len(seq))
			for i, x := range seq {
				out[i] = reflect.ValueOf(x).Bool()
			}
			return wire.BoolArrayAction(out), nil
		}
	}
	// mixed kinds: coerce everything to float or give up
	out := make([]float64, len(seq))
	for i, x := range seq {
		f, ok := coerceFloat(x)
		if !ok {
			return wire.Action{}, &UnsupportedActionError{Value: x}
		}
		out[i] = f
	}
	return wire.FloatArrayAction(out), nil
}

// uniformKind reports the shared element kind of a sequence, if any,
// with the same float/integer/boolean precedence the scalar rules use.
func uniformKind(seq []any) (byte, bool) {
	if len(seq) == 0 {
		return 'f', true
	}
	kind := elemKind(seq[0])
	if kind == 0 {
		return 0, false
	}
	for _, x := range seq[1:] {
		if elemKind(x) != kind {
			return 0, false
		}
	}
	return kind, true
}

func elemKind(v any) byte {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return 'f'
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return 'i'
	case reflect.Bool:
		return 'b'
	}
	return 0
}

func coerceInt(v any) int64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	}
	return 0
}

func coerceFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func (e *Encoder) intScalar(v int64) wire.Action {
	key := cacheKey{kind: 'i', bits: uint64(v)}
	if a, ok := e.cache[key]; ok {
		return a
	}
	a := wire.IntAction(v)
	e.store(key, a)
	return a
}

func (e *Encoder) floatScalar(v float64) wire.Action {
	key := cacheKey{kind: 'f', bits: math.Float64bits(v)}
	if a, ok := e.cache[key]; ok {
		return a
	}
	a := wire.FloatAction(v)
	e.store(key, a)
	return a
}

func (e *Encoder) boolScalar(v bool) wire.Action {
	key := cacheKey{kind: 'b'}
	if v {
		key.bits = 1
	}
	if a, ok := e.cache[key]; ok {
		return a
	}
	a := wire.BoolAction(v)
	e.store(key, a)
	return a
}

// insert until full, then bypass; existing entries are never evicted
func (e *Encoder) store(key cacheKey, a wire.Action) {
	if e.capacity > 0 && len(e.cache) < e.capacity {
		e.cache[key] = a
	}
}
