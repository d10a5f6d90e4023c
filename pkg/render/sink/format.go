package sink

import (
	"slices"
	"strings"

	"github.com/matzehuels/driftgrid/pkg/engine"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatSVG, FormatPNG, FormatPDF}

var contentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// ParseFormat normalises a format name. Unknown names return
// [derrors.ErrCodeInvalidFormat].
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(Formats, f) {
		return "", derrors.New(derrors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", s, strings.Join(Formats, ", "))
	}
	return f, nil
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Options are the renderer settings shared by every format.
type Options struct {
	Scale  float64 // PNG only; zero means 1
	Labels bool
}

// Render produces format from f.
func Render(f engine.Frame, format string, opts Options) ([]byte, error) {
	var svgOpts []SVGOption
	if !opts.Labels {
		svgOpts = append(svgOpts, WithoutLabels())
	}

	switch format {
	case FormatJSON:
		return RenderJSON(f)
	case FormatSVG:
		return RenderSVG(f, svgOpts...), nil
	case FormatPNG:
		pngOpts := []PNGOption{}
		if opts.Scale > 0 {
			pngOpts = append(pngOpts, WithScale(opts.Scale))
		}
		if !opts.Labels {
			pngOpts = append(pngOpts, WithoutPNGLabels())
		}
		return RenderPNG(f, pngOpts...)
	case FormatPDF:
		return RenderPDF(f, svgOpts...)
	}
	return nil, derrors.New(derrors.ErrCodeInvalidFormat, "unknown format %q", format)
}
