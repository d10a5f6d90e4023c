package sink

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/matzehuels/driftgrid/pkg/engine"
	"github.com/matzehuels/driftgrid/pkg/fonts"
	"github.com/matzehuels/driftgrid/pkg/grid"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	labels bool
}

// WithScale sets the PNG scale factor (default 1.0; 2.0 for high-DPI output).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithoutPNGLabels disables tile labels.
func WithoutPNGLabels() PNGOption {
	return func(r *pngRenderer) { r.labels = false }
}

// RenderPNG rasterises the frame. Each tile is drawn under its own affine
// transform with its opacity applied to the fill.
func RenderPNG(f engine.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %v", r.scale)
	}

	w, h := int(f.ViewportW*r.scale+0.5), int(f.ViewportH*r.scale+0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("viewport %vx%v is empty", f.ViewportW, f.ViewportH)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	bg := background()
	dc.ClearWithColor(gg.RGB(bg.R, bg.G, bg.B))
	dc.Scale(r.scale, r.scale)

	if r.labels {
		src, err := fonts.Source()
		if err != nil {
			return nil, fmt.Errorf("load label font: %w", err)
		}
		dc.SetFont(src.Face(LabelSize))
	}

	half := f.TileSize / 2
	for _, t := range f.Tiles {
		if !visible(t, f.TileSize, f.ViewportW, f.ViewportH) {
			continue
		}
		dc.Push()
		dc.Transform(tileMatrix(t, f.TileSize))

		c := TileColor(t.Index)
		dc.SetRGBA(c.R, c.G, c.B, t.Opacity)
		dc.DrawRoundedRectangle(-half, -half, f.TileSize, f.TileSize, CornerRadius)
		if err := dc.Fill(); err != nil {
			dc.Pop()
			return nil, fmt.Errorf("fill tile %d: %w", t.Index, err)
		}

		if r.labels {
			dc.SetRGBA(1, 1, 1, LabelAlpha*t.Opacity)
			dc.DrawStringAnchored(grid.Label(t.Index), 0, 0, 0.5, 0.5)
		}
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
