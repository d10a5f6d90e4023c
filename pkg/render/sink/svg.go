package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/driftgrid/pkg/engine"
	"github.com/matzehuels/driftgrid/pkg/fonts"
	"github.com/matzehuels/driftgrid/pkg/grid"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	embedFont  bool
	cull       bool
	background string
}

func WithoutLabels() SVGOption            { return func(r *svgRenderer) { r.labels = false } }
func WithEmbeddedFont() SVGOption         { return func(r *svgRenderer) { r.embedFont = true } }
func WithAllTiles() SVGOption             { return func(r *svgRenderer) { r.cull = false } }
func WithBackground(hex string) SVGOption { return func(r *svgRenderer) { r.background = hex } }

// RenderSVG draws the frame at viewport size. Tiles that cannot intersect the
// viewport are skipped unless [WithAllTiles] is given.
func RenderSVG(f engine.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true, cull: true, background: Background}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.ViewportW, f.ViewportH, f.ViewportW, f.ViewportH)

	if r.labels && r.embedFont {
		renderFontFace(&buf)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	half := f.TileSize / 2
	for _, t := range f.Tiles {
		if r.cull && !visible(t, f.TileSize, f.ViewportW, f.ViewportH) {
			continue
		}
		fmt.Fprintf(&buf, `  <g id="tile-%d" transform="translate(%.2f %.2f) skewX(%.3f) skewY(%.3f) scale(%.4f %.4f)" opacity="%.3f">`+"\n",
			t.Index, t.X+half, t.Y+half, t.SkewX, t.SkewY, t.ScaleX, t.ScaleY, t.Opacity)
		fmt.Fprintf(&buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s"/>`+"\n",
			-half, -half, f.TileSize, f.TileSize, CornerRadius, TileColor(t.Index).Hex())
		if r.labels {
			fmt.Fprintf(&buf, `    <text class="label" x="0" y="0">%s</text>`+"\n", grid.Label(t.Index))
		}
		buf.WriteString("  </g>\n")
	}

	if r.labels {
		renderLabelStyle(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFontFace(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style></defs>\n",
		fonts.FontFamily, fonts.LabelBase64())
}

func renderLabelStyle(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>.label { font-family: %s; font-size: %.0fpx; font-weight: bold; fill: rgba(255,255,255,%.1f); text-anchor: middle; dominant-baseline: central; }</style>\n",
		fonts.FallbackFontFamily, LabelSize, LabelAlpha)
}
