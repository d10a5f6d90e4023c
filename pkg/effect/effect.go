// Package effect computes the per-tile visual effect of the grid: a
// distance-based fade toward the viewport edges and a velocity-driven skew
// and stretch.
//
// Every function here is pure. Nothing is cached between frames, so the
// effect is always an instantaneous function of the current sample.
package effect

import (
	"math"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/motion"
)

// Model holds the effect coefficients.
//
// FadeStart and FadeEnd are fractions of half the viewport dimension on each
// axis. Distances up to FadeStart are fully opaque, distances beyond FadeEnd
// sit at MinOpacity, and the ramp in between is linear.
type Model struct {
	FadeStart     float64 `toml:"fade_start" json:"fade_start"`
	FadeEnd       float64 `toml:"fade_end" json:"fade_end"`
	MinOpacity    float64 `toml:"min_opacity" json:"min_opacity"`
	MaxOpacity    float64 `toml:"max_opacity" json:"max_opacity"`
	SkewFactor    float64 `toml:"skew_factor" json:"skew_factor"`
	StretchFactor float64 `toml:"stretch_factor" json:"stretch_factor"`
}

// OpacityFloor is the lowest opacity any configured model may reach.
const OpacityFloor = 0.4

// Default returns the stock coefficients.
func Default() Model {
	return Model{
		FadeStart:     0.30,
		FadeEnd:       0.90,
		MinOpacity:    OpacityFloor,
		MaxOpacity:    1.0,
		SkewFactor:    0.2,
		StretchFactor: 0.005,
	}
}

// Validate checks that the fade window is ordered, the opacity range lies
// within [OpacityFloor, 1] and the stretch factor is positive, so a tile
// keeps its natural size only when the grid is at rest.
func (m Model) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"fade_start", m.FadeStart},
		{"fade_end", m.FadeEnd},
		{"min_opacity", m.MinOpacity},
		{"max_opacity", m.MaxOpacity},
		{"skew_factor", m.SkewFactor},
		{"stretch_factor", m.StretchFactor},
	}
	for _, f := range fields {
		if err := derrors.ValidateFinite(derrors.ErrCodeInvalidConfig, f.name, f.v); err != nil {
			return err
		}
	}
	if m.FadeStart < 0 || m.FadeEnd < m.FadeStart {
		return derrors.New(derrors.ErrCodeInvalidConfig,
			"fade window must satisfy 0 <= fade_start <= fade_end, got [%v, %v]", m.FadeStart, m.FadeEnd)
	}
	if m.MinOpacity < OpacityFloor || m.MaxOpacity > 1 || m.MinOpacity > m.MaxOpacity {
		return derrors.New(derrors.ErrCodeInvalidConfig,
			"opacity range must satisfy %v <= min <= max <= 1, got [%v, %v]", OpacityFloor, m.MinOpacity, m.MaxOpacity)
	}
	if m.StretchFactor <= 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "stretch_factor must be positive, got %v", m.StretchFactor)
	}
	return nil
}

// Effect is the visual state of one tile. Skew is in degrees.
type Effect struct {
	Opacity float64
	SkewX   float64
	SkewY   float64
	ScaleX  float64
	ScaleY  float64
}

// Compute returns the effect for a tile whose top-left corner sits at the
// wrapped position (x, y), given the current velocity and viewport size.
//
// Distance is measured per axis between the tile centre and the viewport
// centre. The two axis opacities are combined with min, so a corner tile
// fades no faster than an edge tile. Skew is linear in velocity and is not
// clamped.
func (m Model) Compute(x, y, tileSize float64, v motion.Velocity, viewportW, viewportH float64) Effect {
	half := tileSize / 2
	dx := math.Abs(x + half - viewportW/2)
	dy := math.Abs(y + half - viewportH/2)

	opacity := math.Min(m.Fade(dx, viewportW), m.Fade(dy, viewportH))

	return Effect{
		Opacity: m.clamp(opacity),
		SkewX:   v.X * m.SkewFactor,
		SkewY:   v.Y * m.SkewFactor,
		ScaleX:  1 + math.Abs(v.X)*m.StretchFactor,
		ScaleY:  1 + math.Abs(v.Y)*m.StretchFactor,
	}
}

// Fade maps a distance from the viewport centre to an opacity for a viewport
// dimension. When the window collapses (dimension 0 or FadeStart equal to
// FadeEnd) the ramp becomes a step at FadeStart.
func (m Model) Fade(distance, dimension float64) float64 {
	threshold := dimension / 2
	start := m.FadeStart * threshold
	end := m.FadeEnd * threshold

	switch {
	case distance <= start:
		return m.MaxOpacity
	case distance >= end:
		return m.MinOpacity
	}
	t := (distance - start) / (end - start)
	return m.clamp(m.MaxOpacity + (m.MinOpacity-m.MaxOpacity)*t)
}

func (m Model) clamp(v float64) float64 {
	return math.Max(m.MinOpacity, math.Min(m.MaxOpacity, v))
}
