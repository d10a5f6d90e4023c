package input

import (
	"math"
	"time"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

// Inertia controls how a released drag keeps moving.
type Inertia struct {
	// Resistance is the exponential decay rate per second. Velocity is
	// multiplied by exp(-Resistance·dt) every step.
	Resistance float64

	// MinSpeed in pixels per second ends a throw and is the minimum release
	// speed that starts one.
	MinSpeed float64

	// SampleWindow is how far back pointer samples count toward the release
	// velocity.
	SampleWindow time.Duration
}

// DefaultInertia returns a throw that coasts for roughly a second.
func DefaultInertia() Inertia {
	return Inertia{
		Resistance:   4,
		MinSpeed:     20,
		SampleWindow: 100 * time.Millisecond,
	}
}

// Validate checks the inertia parameters.
func (in Inertia) Validate() error {
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidConfig, "resistance", in.Resistance); err != nil {
		return err
	}
	if err := derrors.ValidateFinite(derrors.ErrCodeInvalidConfig, "min_speed", in.MinSpeed); err != nil {
		return err
	}
	if in.MinSpeed < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "min_speed must not be negative, got %v", in.MinSpeed)
	}
	if in.SampleWindow <= 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "sample_window must be positive, got %v", in.SampleWindow)
	}
	return nil
}

// decay returns the velocity multiplier for a step of dt.
func (in Inertia) decay(dt time.Duration) float64 {
	return math.Exp(-in.Resistance * dt.Seconds())
}
