// Package motion defines the value types that flow from input sources to the
// transform engine: an unbounded pan [Offset], the per-sample [Velocity] and
// the [Sample] pairing the two.
//
// All types are plain values. A Sample handed to a listener is a copy and is
// never mutated afterwards.
package motion

import "math"

// Offset is the cumulative pan displacement in pixels. It is unbounded;
// wrapping happens per tile downstream.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns o translated by (dx, dy).
func (o Offset) Add(dx, dy float64) Offset {
	return Offset{X: o.X + dx, Y: o.Y + dy}
}

// Velocity is the offset delta that produced the current sample. It is not
// smoothed and carries no time unit.
type Velocity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Neg returns the velocity pointing the other way.
func (v Velocity) Neg() Velocity {
	return Velocity{X: -v.X, Y: -v.Y}
}

// Speed is the Euclidean magnitude of v.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are zero.
func (v Velocity) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Sample is one (offset, velocity) pair emitted per accepted input event.
type Sample struct {
	Offset   Offset   `json:"offset"`
	Velocity Velocity `json:"velocity"`
}

// Zero returns the sample used for the initial layout pass.
func Zero() Sample {
	return Sample{}
}
