package sink

import (
	"github.com/matzehuels/driftgrid/pkg/engine"
	"github.com/matzehuels/driftgrid/pkg/render"
)

// RenderPDF renders the frame as PDF via SVG conversion. The label font is
// embedded so the document does not depend on installed fonts.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(f engine.Frame, opts ...SVGOption) ([]byte, error) {
	opts = append([]SVGOption{WithEmbeddedFont()}, opts...)
	return render.ToPDF(RenderSVG(f, opts...))
}
