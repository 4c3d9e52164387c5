package calculator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is the result of evaluating an expression: either a scalar or, for
// a list literal, an ordered list of scalars. The zero Value is the scalar 0.
type Value struct {
	num  float64
	list []float64
	// islist distinguishes an empty list from the scalar zero.
	islist bool
}

// Scalar returns a scalar Value.
func Scalar(x float64) Value {
	return Value{num: x}
}

// List returns a list Value holding a copy of xs.
func List(xs ...float64) Value {
	return Value{list: append([]float64(nil), xs...), islist: true}
}

// IsList reports whether v is a list.
func (v Value) IsList() bool {
	return v.islist
}

// Float returns v's scalar value. The second result is false if v is a list.
func (v Value) Float() (float64, bool) {
	return v.num, !v.islist
}

// Floats returns a copy of v's elements. The result is nil if v is a scalar.
func (v Value) Floats() []float64 {
	if !v.islist {
		return nil
	}
	return append([]float64{}, v.list...)
}

// String formats v with the shortest representation that round-trips.
func (v Value) String() string {
	if !v.islist {
		return formatFloat(v.num)
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v.list {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloat(x))
	}
	b.WriteByte(']')
	return b.String()
}

// MarshalJSON encodes a scalar as a JSON number and a list as an array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.islist {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.num)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
