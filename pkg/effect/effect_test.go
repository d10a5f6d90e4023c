package effect

import (
	"fmt"
	"math"
	"testing"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/motion"
)

const (
	tileSize  = 200.0
	viewportW = 1280.0
	viewportH = 800.0
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// topLeftFor returns the tile corner whose centre sits dist away from the
// viewport centre along an axis of the given dimension.
func topLeftFor(dist, dimension float64) float64 {
	return dimension/2 + dist - tileSize/2
}

func TestComputeCentre(t *testing.T) {
	m := Default()
	e := m.Compute(topLeftFor(0, viewportW), topLeftFor(0, viewportH), tileSize, motion.Velocity{}, viewportW, viewportH)
	want := Effect{Opacity: 1, ScaleX: 1, ScaleY: 1}
	if e != want {
		t.Errorf("Compute() = %+v, want %+v", e, want)
	}
}

func TestComputeFadeRamp(t *testing.T) {
	m := Default()
	// Half width 640: fade from 192 to 576.
	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"inside start", 100, 1},
		{"at start", 192, 1},
		{"midpoint", 384, 0.7},
		{"at end", 576, 0.4},
		{"beyond end", 1000, 0.4},
		{"negative side", -384, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := m.Compute(topLeftFor(tt.dist, viewportW), topLeftFor(0, viewportH), tileSize, motion.Velocity{}, viewportW, viewportH)
			if !approx(e.Opacity, tt.want) {
				t.Errorf("Opacity = %v, want %v", e.Opacity, tt.want)
			}
		})
	}
}

func TestCornerFade(t *testing.T) {
	m := Default()
	corner := m.Compute(topLeftFor(600, viewportW), topLeftFor(380, viewportH), tileSize, motion.Velocity{}, viewportW, viewportH)
	if corner.Opacity != 0.4 {
		t.Errorf("corner Opacity = %v, want 0.4", corner.Opacity)
	}
	edge := m.Compute(topLeftFor(600, viewportW), topLeftFor(50, viewportH), tileSize, motion.Velocity{}, viewportW, viewportH)
	if edge.Opacity != corner.Opacity {
		t.Errorf("edge Opacity = %v, want corner opacity %v", edge.Opacity, corner.Opacity)
	}
}

func TestOpacityBounds(t *testing.T) {
	m := Default()
	viewports := [][2]float64{{1280, 800}, {0, 0}, {1, 1}, {320, 4000}, {0, 600}}
	for _, vp := range viewports {
		for x := -5000.0; x <= 5000; x += 137 {
			for y := -5000.0; y <= 5000; y += 211 {
				e := m.Compute(x, y, tileSize, motion.Velocity{X: x / 10, Y: y / 10}, vp[0], vp[1])
				if e.Opacity < 0.4 || e.Opacity > 1 {
					t.Fatalf("Compute(%v, %v) in %v opacity = %v, outside [0.4, 1]", x, y, vp, e.Opacity)
				}
			}
		}
	}
}

func TestOpacityMonotonic(t *testing.T) {
	m := Default()
	for _, fixedY := range []float64{0, 200, 300, 1000} {
		prev := math.Inf(1)
		for d := 192.0; d <= 576; d += 4 {
			e := m.Compute(topLeftFor(d, viewportW), topLeftFor(fixedY, viewportH), tileSize, motion.Velocity{}, viewportW, viewportH)
			if e.Opacity > prev {
				t.Fatalf("dy=%v: opacity rose from %v to %v at dx=%v", fixedY, prev, e.Opacity, d)
			}
			prev = e.Opacity
		}
	}
}

func TestDegenerateViewport(t *testing.T) {
	m := Default()
	if got := m.Fade(0, 0); got != 1 {
		t.Errorf("Fade(0, 0) = %v, want 1", got)
	}
	if got := m.Fade(0.001, 0); got != 0.4 {
		t.Errorf("Fade(0.001, 0) = %v, want 0.4", got)
	}
}

func TestSkewAndScale(t *testing.T) {
	m := Default()
	tests := []struct {
		v              motion.Velocity
		skewX, skewY   float64
		scaleX, scaleY float64
	}{
		{motion.Velocity{}, 0, 0, 1, 1},
		{motion.Velocity{X: 10, Y: -5}, 2, -1, 1.05, 1.025},
		{motion.Velocity{X: -100}, -20, 0, 1.5, 1},
		{motion.Velocity{Y: 1e6}, 0, 2e5, 1, 5001},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v,%v", tt.v.X, tt.v.Y), func(t *testing.T) {
			e := m.Compute(0, 0, tileSize, tt.v, viewportW, viewportH)
			if !approx(e.SkewX, tt.skewX) || !approx(e.SkewY, tt.skewY) {
				t.Errorf("skew = (%v, %v), want (%v, %v)", e.SkewX, e.SkewY, tt.skewX, tt.skewY)
			}
			if !approx(e.ScaleX, tt.scaleX) || !approx(e.ScaleY, tt.scaleY) {
				t.Errorf("scale = (%v, %v), want (%v, %v)", e.ScaleX, e.ScaleY, tt.scaleX, tt.scaleY)
			}
		})
	}
}

func TestScaleFloor(t *testing.T) {
	m := Default()
	for _, vx := range []float64{-500, -3, -0.5, 0, 0.5, 3, 500} {
		e := m.Compute(0, 0, tileSize, motion.Velocity{X: vx, Y: -vx}, viewportW, viewportH)
		if e.ScaleX < 1 || e.ScaleY < 1 {
			t.Errorf("v=%v: scale = (%v, %v), want >= 1", vx, e.ScaleX, e.ScaleY)
		}
		if (e.ScaleX == 1) != (vx == 0) {
			t.Errorf("v=%v: ScaleX = %v, equality with 1 must match zero velocity", vx, e.ScaleX)
		}
	}
}

func TestModelValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Model)
	}{
		{"reversed window", func(m *Model) { m.FadeStart, m.FadeEnd = 0.9, 0.3 }},
		{"negative start", func(m *Model) { m.FadeStart = -0.1 }},
		{"min above max", func(m *Model) { m.MinOpacity = 1.1 }},
		{"max above one", func(m *Model) { m.MaxOpacity = 1.5 }},
		{"NaN skew", func(m *Model) { m.SkewFactor = math.NaN() }},
		{"negative stretch", func(m *Model) { m.StretchFactor = -1 }},
		{"zero stretch", func(m *Model) { m.StretchFactor = 0 }},
		{"min below floor", func(m *Model) { m.MinOpacity = 0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			tt.mutate(&m)
			if err := m.Validate(); !derrors.Is(err, derrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestViewportAdapters(t *testing.T) {
	var vp Viewport = FixedViewport{Width: 10, Height: 20}
	if w, h := vp.Size(); w != 10 || h != 20 {
		t.Errorf("FixedViewport.Size() = (%v, %v), want (10, 20)", w, h)
	}
	calls := 0
	vp = ViewportFunc(func() (float64, float64) { calls++; return 3, 4 })
	vp.Size()
	vp.Size()
	if calls != 2 {
		t.Errorf("ViewportFunc called %d times, want 2", calls)
	}
}

func ExampleModel_Compute() {
	m := Default()
	e := m.Compute(540, 300, 200, motion.Velocity{X: 10}, 1280, 800)
	fmt.Printf("opacity=%.1f skew=%.1f scale=%.2f\n", e.Opacity, e.SkewX, e.ScaleX)
	// Output: opacity=1.0 skew=2.0 scale=1.05
}
