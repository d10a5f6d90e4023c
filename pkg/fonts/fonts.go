// Package fonts provides the label font for rendered frames.
//
// Labels use the Go Bold typeface, compiled into the binary, so raster
// output never depends on fonts installed on the host.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
)

// LabelTTF returns the TTF font data.
func LabelTTF() []byte {
	return gobold.TTF
}

// Cache for the base64 encoding and parsed source (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once

	source     *text.FontSource
	sourceErr  error
	sourceOnce sync.Once
)

// LabelBase64 returns the TTF font data as a base64 string for embedding
// in SVG @font-face rules. The result is cached after first computation.
func LabelBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(gobold.TTF)
	})
	return ttfBase64
}

// Source returns the parsed font, shared by every raster renderer.
func Source() (*text.FontSource, error) {
	sourceOnce.Do(func() {
		source, sourceErr = text.NewFontSource(gobold.TTF)
	})
	return source, sourceErr
}

// FontFamily is the CSS font-family name used for the embedded font.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for viewers without the embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`
