package indicators

import "fmt"

// Value is an indicator reading that may be undefined, e.g. during warmup.
// Callers must check Ok before using V.
type Value struct {
	V  float64
	Ok bool
}

// Some returns a defined Value.
func Some(v float64) Value { return Value{V: v, Ok: true} }

// None is the undefined Value.
var None = Value{}

// Greater reports whether both values are defined and v > o.
// The second result is false when either side is undefined.
func (v Value) Greater(o Value) (gt bool, ok bool) {
	if !v.Ok || !o.Ok {
		return false, false
	}
	return v.V > o.V, true
}

func (v Value) String() string {
	if !v.Ok {
		return "n/a"
	}
	return fmt.Sprintf("%g", v.V)
}
