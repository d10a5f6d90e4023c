package sink

import (
	"math"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/driftgrid/pkg/engine"
	"github.com/matzehuels/driftgrid/pkg/grid"
)

// Shared look of every frame renderer.
const (
	Background   = "#111111"
	CornerRadius = 12.0
	LabelAlpha   = 0.8
	LabelSize    = 32.0
)

// TileColor returns the fill colour of tile index.
func TileColor(index int) colorful.Color {
	return colorful.Hsl(grid.Hue(index), grid.Saturation, grid.Lightness)
}

func background() colorful.Color {
	c, _ := colorful.Hex(Background)
	return c
}

// tileMatrix maps tile-local coordinates, centred on the tile, to viewport
// coordinates: translate to the tile centre, skew along x then y, then scale.
func tileMatrix(t engine.TileTransform, size float64) gg.Matrix {
	half := size / 2
	m := gg.Translate(t.X+half, t.Y+half)
	m = m.Multiply(gg.Shear(math.Tan(rad(t.SkewX)), 0))
	m = m.Multiply(gg.Shear(0, math.Tan(rad(t.SkewY))))
	return m.Multiply(gg.Scale(t.ScaleX, t.ScaleY))
}

// visible reports whether the transformed tile can intersect the viewport.
// The test is conservative: it bounds the tile by a circle around its centre.
func visible(t engine.TileTransform, size, vw, vh float64) bool {
	if t.Opacity <= 0 {
		return false
	}
	half := size / 2
	cx, cy := t.X+half, t.Y+half
	scale := math.Max(math.Abs(t.ScaleX), math.Abs(t.ScaleY))
	shear := 1 + math.Abs(math.Tan(rad(t.SkewX))) + math.Abs(math.Tan(rad(t.SkewY)))
	r := half * math.Sqrt2 * scale * shear
	return cx+r >= 0 && cx-r <= vw && cy+r >= 0 && cy-r <= vh
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
