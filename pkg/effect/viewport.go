package effect

// Viewport reports the current visible area in pixels. It is queried on
// every frame so the fade window follows window resizes.
type Viewport interface {
	Size() (width, height float64)
}

// FixedViewport is a viewport of constant size.
type FixedViewport struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// Size implements Viewport.
func (v FixedViewport) Size() (float64, float64) { return v.Width, v.Height }

// ViewportFunc adapts a function to the Viewport interface.
type ViewportFunc func() (width, height float64)

// Size implements Viewport.
func (f ViewportFunc) Size() (float64, float64) { return f() }
