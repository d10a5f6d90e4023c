package engine

import (
	"slices"

	"github.com/matzehuels/driftgrid/pkg/motion"
)

// TileTransform is the rendered state of one tile for one frame. X and Y are
// the wrapped top-left corner relative to the viewport origin. Skew is in
// degrees.
type TileTransform struct {
	Index   int     `json:"index"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
	SkewX   float64 `json:"skew_x"`
	SkewY   float64 `json:"skew_y"`
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
}

// Frame is one complete transform batch.
type Frame struct {
	Seq       uint64          `json:"seq"`
	Offset    motion.Offset   `json:"offset"`
	Velocity  motion.Velocity `json:"velocity"`
	ViewportW float64         `json:"viewport_width"`
	ViewportH float64         `json:"viewport_height"`
	TileSize  float64         `json:"tile_size"`
	Tiles     []TileTransform `json:"tiles"`
}

// Clone returns a deep copy that stays valid after the engine's next pass.
func (f Frame) Clone() Frame {
	f.Tiles = slices.Clone(f.Tiles)
	return f
}

// Sink receives frames. Render is called synchronously from the engine and
// should return quickly; a sink that cannot keep up keeps only the latest
// frame.
type Sink interface {
	Render(Frame) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Frame) error

// Render implements Sink.
func (f SinkFunc) Render(fr Frame) error { return f(fr) }

// MultiSink fans a frame out to several sinks in order. The first error stops
// the fan-out.
type MultiSink []Sink

// Render implements Sink.
func (m MultiSink) Render(f Frame) error {
	for _, s := range m {
		if err := s.Render(f); err != nil {
			return err
		}
	}
	return nil
}
