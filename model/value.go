package model

import (
	"fmt"
	"strings"
)

// Value is a per-DOF quantity that is either unset or known. In a prescribed
// displacement vector a known value fixes the DOF. In a force vector it is an
// applied external load.
type Value struct {
	known bool
	v     float64
}

// Unset returns a value that carries no information
func Unset() Value { return Value{} }

// Known returns a value set to v
func Known(v float64) Value { return Value{known: true, v: v} }

// IsKnown reports whether the value is set
func (v Value) IsKnown() bool { return v.known }

// Get returns the value and whether it is set
func (v Value) Get() (float64, bool) { return v.v, v.known }

// Or returns the value if it is set and def otherwise
func (v Value) Or(def float64) float64 {
	if v.known {
		return v.v
	}
	return def
}

func (v Value) String() string {
	if !v.known {
		return "-"
	}
	return fmt.Sprintf("%g", v.v)
}

// Vector is a DOF-indexed vector of tagged values
type Vector []Value

// NewVector returns n unset values
func NewVector(n int) Vector { return make(Vector, n) }

// KnownVector wraps plain values, all of them known
func KnownVector(values []float64) Vector {
	vec := make(Vector, len(values))
	for i, v := range values {
		vec[i] = Known(v)
	}
	return vec
}

// At returns the value of one component of a node
func (vec Vector) At(nodeID int, axis Axis) Value { return vec[DOF(nodeID, axis)] }

// Set stores a known value for one component of a node
func (vec Vector) Set(nodeID int, axis Axis, v float64) { vec[DOF(nodeID, axis)] = Known(v) }

// Floats returns the values with unset entries replaced by def
func (vec Vector) Floats(def float64) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v.Or(def)
	}
	return out
}

// CountKnown returns the number of set entries
func (vec Vector) CountKnown() (n int) {
	for _, v := range vec {
		if v.known {
			n++
		}
	}
	return
}

// Clone returns an independent copy
func (vec Vector) Clone() Vector {
	return append(Vector(nil), vec...)
}

func (vec Vector) String() string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
