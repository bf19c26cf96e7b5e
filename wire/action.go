package wire

import (
	"errors"
	"fmt"
)

// Action is the tagged wire form of a single decided action value.
// Exactly one variant is populated per message.
type Action struct {
	IntValue    *int64    `json:"int_value,omitempty"`
	FloatValue  *float64  `json:"float_value,omitempty"`
	BoolValue   *bool     `json:"bool_value,omitempty"`
	StringValue *string   `json:"string_value,omitempty"`
	IntArray    []int64   `json:"int_array,omitempty"`
	FloatArray  []float64 `json:"float_array,omitempty"`
	BoolArray   []bool    `json:"bool_array,omitempty"`
}

func IntAction(v int64) Action {
	return Action{IntValue: &v}
}

func FloatAction(v float64) Action {
	return Action{FloatValue: &v}
}

func BoolAction(v bool) Action {
	return Action{BoolValue: &v}
}

func StringAction(v string) Action {
	return Action{StringValue: &v}
}

func IntArrayAction(vs []int64) Action {
	return Action{IntArray: vs}
}

func FloatArrayAction(vs []float64) Action {
	return Action{FloatArray: vs}
}

func BoolArrayAction(vs []bool) Action {
	return Action{BoolArray: vs}
}

// Kind names the populated variant, or "empty".
func (a Action) Kind() string {
	switch {
	case a.IntValue != nil:
		return "int"
	case a.FloatValue != nil:
		return "float"
	case a.BoolValue != nil:
		return "bool"
	case a.StringValue != nil:
		return "string"
	case a.IntArray != nil:
		return "int_array"
	case a.FloatArray != nil:
		return "float_array"
	case a.BoolArray != nil:
		return "bool_array"
	}
	return "empty"
}

// Validate checks the one-variant invariant.
func (a Action) Validate() error {
	set := 0
	if a.IntValue != nil {
		set++
	}
	if a.FloatValue != nil {
		set++
	}
	if a.BoolValue != nil {
		set++
	}
	if a.StringValue != nil {
		set++
	}
	if a.IntArray != nil {
		set++
	}
	if a.FloatArray != nil {
		set++
	}
	if a.BoolArray != nil {
		set++
	}
	if set == 0 {
		return errors.New("action has no value set")
	}
	if set > 1 {
		return fmt.Errorf("action has %d values set, expected exactly one", set)
	}
	return nil
}

// Float64 coerces the action to a single float. Array variants must have
// exactly one element.
func (a Action) Float64() (float64, error) {
	switch {
	case a.FloatValue != nil:
		return *a.FloatValue, nil
	case a.IntValue != nil:
		return float64(*a.IntValue), nil
	case a.BoolValue != nil:
		if *a.BoolValue {
			return 1, nil
		}
		return 0, nil
	case len(a.FloatArray) == 1:
		return a.FloatArray[0], nil
	case len(a.IntArray) == 1:
		return float64(a.IntArray[0]), nil
	}
	return 0, fmt.Errorf("cannot convert %s action to float64", a.Kind())
}

// Int64 coerces the action to a single integer, truncating floats.
func (a Action) Int64() (int64, error) {
	switch {
	case a.IntValue != nil:
		return *a.IntValue, nil
	case a.FloatValue != nil:
		return int64(*a.FloatValue), nil
	case a.BoolValue != nil:
		if *a.BoolValue {
			return 1, nil
		}
		return 0, nil
	case len(a.IntArray) == 1:
		return a.IntArray[0], nil
	case len(a.FloatArray) == 1:
		return int64(a.FloatArray[0]), nil
	}
	return 0, fmt.Errorf("cannot convert %s action to int64", a.Kind())
}

// Bool coerces the action to a boolean, treating non-zero numbers as true.
func (a Action) Bool() (bool, error) {
	switch {
	case a.BoolValue != nil:
		return *a.BoolValue, nil
	case a.IntValue != nil:
		return *a.IntValue != 0, nil
	case a.FloatValue != nil:
		return *a.FloatValue != 0, nil
	}
	return false, fmt.Errorf("cannot convert %s action to bool", a.Kind())
}

// Float64Slice coerces the action to a float vector. Scalars become a
// one-element vector.
func (a Action) Float64Slice() ([]float64, error) {
	switch {
	case a.FloatArray != nil:
		out := make([]float64, len(a.FloatArray))
		copy(out, a.FloatArray)
		return out, nil
	case a.IntArray != nil:
		out := make([]float64, len(a.IntArray))
		for i, v := range a.IntArray {
			out[i] = float64(v)
		}
		return out, nil
	case a.BoolArray != nil:
		out := make([]float64, len(a.BoolArray))
		for i, v := range a.BoolArray {
			if v {
				out[i] = 1
			}
		}
		return out, nil
	}
	v, err := a.Float64()
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s action to []float64", a.Kind())
	}
	return []float64{v}, nil
}

func (a Action) String() string {
	switch {
	case a.IntValue != nil:
		return fmt.Sprintf("int(%d)", *a.IntValue)
	case a.FloatValue != nil:
		return fmt.Sprintf("float(%g)", *a.FloatValue)
	case a.BoolValue != nil:
		return fmt.Sprintf("bool(%t)", *a.BoolValue)
	case a.StringValue != nil:
		return fmt.Sprintf("string(%q)", *a.StringValue)
	case a.IntArray != nil:
		return fmt.Sprintf("int_array(%v)", a.IntArray)
	case a.FloatArray != nil:
		return fmt.Sprintf("float_array(%v)", a.FloatArray)
	case a.BoolArray != nil:
		return fmt.Sprintf("bool_array(%v)", a.BoolArray)
	}
	return "empty"
}
