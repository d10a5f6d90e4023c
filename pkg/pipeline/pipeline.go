// Package pipeline produces rendered snapshots of the grid.
//
// This package implements the replay → render pipeline used by the render
// command and the HTTP API. By centralizing this logic, every entry point
// produces byte-identical output for the same input.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Replay: Build a tracker and engine, run the initial pass, then apply
//     either a recorded [dio.Script] or a single motion sample
//  2. Render: Generate output for the final frame in the requested formats
//     (JSON, SVG, PNG, PDF)
//
// Rendered artifacts are cached under a key derived from the grid, effect
// model, viewport and final sample, so replaying a script that ends where a
// previous one did reuses its output.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Script:  script,
//	    Formats: []string{"png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run individual stages:
//
//	frame, stats, err := pipeline.Replay(ctx, opts)
//	artifacts, err := pipeline.Render(frame, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/driftgrid/pkg/cache"
	"github.com/matzehuels/driftgrid/pkg/effect"
	"github.com/matzehuels/driftgrid/pkg/engine"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/input"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
	"github.com/matzehuels/driftgrid/pkg/session"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0
)

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{sink.FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a snapshot.
// Zero-valued fields fall back to their package defaults.
type Options struct {
	// Replay options
	Grid     grid.Config          `json:"grid"`
	Effect   effect.Model         `json:"effect"`
	Viewport effect.FixedViewport `json:"viewport"`
	Inertia  input.Inertia        `json:"-"`
	Script   *dio.Script          `json:"-"`      // replayed when set
	Sample   motion.Sample        `json:"sample"` // applied when Script is nil

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"` // bypass cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the final frame after replay.
	Frame engine.Frame

	// FrameHash identifies the frame's inputs; artifact keys derive from it.
	FrameHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and event counts.
	Stats Stats

	// CacheInfo tracks whether rendering hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Events     int // script steps applied
	Rejected   int // events refused by the tracker
	Frames     uint64
	ReplayTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats normalises and checks every format name.
func ValidateFormats(formats []string) ([]string, error) {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		norm, err := sink.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		out = append(out, norm)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates every setting.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Grid == (grid.Config{}) {
		o.Grid = grid.DefaultConfig()
	}
	if o.Effect == (effect.Model{}) {
		o.Effect = effect.Default()
	}
	if o.Viewport == (effect.FixedViewport{}) {
		o.Viewport = engine.DefaultViewport
	}
	if o.Inertia == (input.Inertia{}) {
		o.Inertia = input.DefaultInertia()
	}
	if s := o.Script; s != nil && s.Viewport != nil {
		o.Viewport = effect.FixedViewport{Width: s.Viewport.Width, Height: s.Viewport.Height}
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	if err := o.Grid.Validate(); err != nil {
		return err
	}
	if err := o.Effect.Validate(); err != nil {
		return err
	}
	if err := o.Inertia.Validate(); err != nil {
		return err
	}
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "viewport.width", o.Viewport.Width); err != nil {
		return err
	}
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "viewport.height", o.Viewport.Height); err != nil {
		return err
	}
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "scale", o.Scale); err != nil {
		return err
	}
	if o.Script != nil {
		if err := o.Script.Validate(); err != nil {
			return err
		}
	} else if err := session.ValidateSample(o.Sample); err != nil {
		return err
	}
	formats, err := ValidateFormats(o.Formats)
	if err != nil {
		return err
	}
	o.Formats = formats
	o.validated = true
	return nil
}

// FrameKeyOpts returns cache key options for the frame produced by s.
func (o *Options) FrameKeyOpts(s motion.Sample) cache.FrameKeyOpts {
	m := o.Effect
	return cache.FrameKeyOpts{
		TileSize:  o.Grid.TileSize,
		Gap:       o.Grid.Gap,
		Columns:   o.Grid.Columns,
		Rows:      o.Grid.Rows,
		Effect:    [6]float64{m.FadeStart, m.FadeEnd, m.MinOpacity, m.MaxOpacity, m.SkewFactor, m.StretchFactor},
		ViewportW: o.Viewport.Width,
		ViewportH: o.Viewport.Height,
		OffsetX:   s.Offset.X,
		OffsetY:   s.Offset.Y,
		VelocityX: s.Velocity.X,
		VelocityY: s.Velocity.Y,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Labels: !o.NoLabels,
	}
}

// SinkOptions returns the renderer settings.
func (o *Options) SinkOptions() sink.Options {
	return sink.Options{Scale: o.Scale, Labels: !o.NoLabels}
}

// SessionParams returns the parameters for a session replaying these options.
// Call ValidateAndSetDefaults first.
func (o *Options) SessionParams() session.Params {
	return session.Params{
		Grid:     o.Grid,
		Effect:   o.Effect,
		Viewport: o.Viewport,
		Inertia:  o.Inertia,
		Logger:   o.Logger,
	}
}
