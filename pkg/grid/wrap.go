package grid

import (
	"fmt"
	"math"
)

// Wrap returns a function mapping any real value into the centred half-open
// interval [-period/2, period/2) by true modulo.
//
// Values already inside the interval are returned unchanged, which makes the
// function exactly idempotent. For every other input w(v+k·period) == w(v) up
// to floating point rounding.
//
// Wrap panics if period is not a positive finite number. Callers derive the
// period from a validated [Config].
func Wrap(period float64) func(float64) float64 {
	if !(period > 0) || math.IsInf(period, 0) {
		panic(fmt.Sprintf("grid: wrap period must be positive and finite, got %v", period))
	}
	half := period / 2
	return func(v float64) float64 {
		if v >= -half && v < half {
			return v
		}
		m := math.Mod(v+half, period)
		if m < 0 {
			m += period
		}
		// m+period can round up to exactly period for tiny negative m.
		if m >= period {
			m -= period
		}
		return m - half
	}
}

// Wrappers returns the horizontal and vertical wrap functions for c.
func (c Config) Wrappers() (wrapX, wrapY func(float64) float64) {
	return Wrap(c.Width()), Wrap(c.Height())
}
