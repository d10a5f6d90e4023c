package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matzehuels/driftgrid/pkg/effect"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/pan"
)

// captureSink keeps a deep copy of every frame.
type captureSink struct {
	frames []Frame
	raw    []Frame
	err    error
}

func (c *captureSink) Render(f Frame) error {
	c.frames = append(c.frames, f.Clone())
	c.raw = append(c.raw, f)
	return c.err
}

func (c *captureSink) last() Frame { return c.frames[len(c.frames)-1] }

func newEngine(t *testing.T, opts ...Option) (*Engine, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	e, err := New(grid.DefaultConfig(), sink, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e, sink
}

func TestZeroState(t *testing.T) {
	// A 200×200 viewport is centred on tile 0.
	e, sink := newEngine(t, WithViewport(effect.FixedViewport{Width: 200, Height: 200}))
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	f := sink.last()
	if f.Offset != (motion.Offset{}) || !f.Velocity.IsZero() {
		t.Errorf("initial sample = (%+v, %+v), want zero", f.Offset, f.Velocity)
	}
	want := TileTransform{Index: 0, X: 0, Y: 0, Opacity: 1, ScaleX: 1, ScaleY: 1}
	if got := f.Tiles[0]; got != want {
		t.Errorf("tile 0 = %+v, want %+v", got, want)
	}
}

func TestSeamlessTiling(t *testing.T) {
	e, sink := newEngine(t)
	cfg := e.Config()
	if cfg.Width() != 3750 {
		t.Fatalf("Width() = %v, want 3750", cfg.Width())
	}

	if err := e.Apply(motion.Sample{}); err != nil {
		t.Fatalf("Apply(0,0) error = %v", err)
	}
	if err := e.Apply(motion.Sample{Offset: motion.Offset{X: 3750, Y: 0}}); err != nil {
		t.Fatalf("Apply(3750,0) error = %v", err)
	}

	a, b := sink.frames[0], sink.frames[1]
	for i := range a.Tiles {
		if a.Tiles[i].X != b.Tiles[i].X || a.Tiles[i].Y != b.Tiles[i].Y {
			t.Errorf("tile %d: (%v, %v) at offset 0, (%v, %v) at offset 3750",
				i, a.Tiles[i].X, a.Tiles[i].Y, b.Tiles[i].X, b.Tiles[i].Y)
		}
	}

	if err := e.Apply(motion.Sample{Offset: motion.Offset{X: -7500, Y: 2500}}); err != nil {
		t.Fatalf("Apply(-7500,2500) error = %v", err)
	}
	c := sink.last()
	for i := range a.Tiles {
		if a.Tiles[i].X != c.Tiles[i].X || a.Tiles[i].Y != c.Tiles[i].Y {
			t.Errorf("tile %d differs after (-2W, +H) pan", i)
		}
	}
}

func TestWrappedPositionRange(t *testing.T) {
	e, sink := newEngine(t)
	cfg := e.Config()
	halfW, halfH := cfg.Width()/2, cfg.Height()/2

	offsets := []motion.Offset{{X: 0, Y: 0}, {X: 1e5, Y: -3e4}, {X: -1875, Y: 1250}, {X: 12.5, Y: -0.25}}
	for _, off := range offsets {
		if err := e.Apply(motion.Sample{Offset: off}); err != nil {
			t.Fatalf("Apply(%+v) error = %v", off, err)
		}
		for _, tt := range sink.last().Tiles {
			if tt.X < -halfW || tt.X >= halfW || tt.Y < -halfH || tt.Y >= halfH {
				t.Errorf("offset %+v: tile %d at (%v, %v) outside period window", off, tt.Index, tt.X, tt.Y)
			}
		}
	}
}

func TestFullGridRecompute(t *testing.T) {
	e, sink := newEngine(t)
	tr := pan.NewTracker(e)

	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	steps := []func() error{
		func() error { return tr.Drag(pan.DragMove{X: 10, Y: 0, DeltaX: 10}) },
		func() error { return tr.Drag(pan.DragMove{X: 10, Y: 0}) },
		func() error { return tr.Throw(pan.ThrowUpdate{X: 40, Y: 5, DeltaX: 30, DeltaY: 5}) },
		func() error { return tr.Scroll(pan.ScrollDelta{DeltaY: 120}) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	if len(sink.frames) != len(steps)+1 {
		t.Fatalf("got %d frames, want %d", len(sink.frames), len(steps)+1)
	}
	want := grid.DefaultColumns * grid.DefaultRows
	for i, f := range sink.frames {
		if len(f.Tiles) != want {
			t.Errorf("frame %d has %d tiles, want %d", i, len(f.Tiles), want)
		}
		if f.Seq != uint64(i+1) {
			t.Errorf("frame %d Seq = %d, want %d", i, f.Seq, i+1)
		}
		seen := make(map[int]bool, want)
		for _, tt := range f.Tiles {
			seen[tt.Index] = true
		}
		if len(seen) != want {
			t.Errorf("frame %d covers %d distinct tiles, want %d", i, len(seen), want)
		}
	}

	if got := sink.last().Offset; got != (motion.Offset{X: 40, Y: -115}) {
		t.Errorf("final offset = %+v, want {X:40 Y:-115}", got)
	}
}

func TestBufferIsReused(t *testing.T) {
	e, sink := newEngine(t)
	_ = e.Apply(motion.Sample{})
	_ = e.Apply(motion.Sample{Offset: motion.Offset{X: 5}})

	if &sink.raw[0].Tiles[0] != &sink.raw[1].Tiles[0] {
		t.Error("engine allocated a new tile buffer for the second frame")
	}
	if &sink.frames[0].Tiles[0] == &sink.raw[0].Tiles[0] {
		t.Error("Clone() shares the engine buffer")
	}
	if sink.frames[0].Tiles[0].X == sink.frames[1].Tiles[0].X {
		t.Error("cloned frames should keep their own positions")
	}
}

func TestViewportIsReadLive(t *testing.T) {
	w, h := 1280.0, 800.0
	e, sink := newEngine(t, WithViewport(effect.ViewportFunc(func() (float64, float64) { return w, h })))

	_ = e.Start()
	w, h = 640, 480
	_ = e.Refresh()

	if f := sink.frames[0]; f.ViewportW != 1280 || f.ViewportH != 800 {
		t.Errorf("first frame viewport = %vx%v, want 1280x800", f.ViewportW, f.ViewportH)
	}
	if f := sink.frames[1]; f.ViewportW != 640 || f.ViewportH != 480 {
		t.Errorf("second frame viewport = %vx%v, want 640x480", f.ViewportW, f.ViewportH)
	}
	if vw, vh := e.Viewport(); vw != 640 || vh != 480 {
		t.Errorf("Viewport() = %vx%v, want 640x480", vw, vh)
	}
}

func TestRefreshRepeatsLastSample(t *testing.T) {
	e, sink := newEngine(t)
	s := motion.Sample{Offset: motion.Offset{X: 3, Y: 4}, Velocity: motion.Velocity{X: 1}}
	_ = e.Apply(s)
	_ = e.Refresh()

	if got := sink.last(); got.Offset != s.Offset || got.Velocity != s.Velocity {
		t.Errorf("Refresh() frame sample = (%+v, %+v), want (%+v, %+v)", got.Offset, got.Velocity, s.Offset, s.Velocity)
	}
}

func TestNewValidation(t *testing.T) {
	sink := &captureSink{}
	arena, err := grid.NewArena(grid.Config{TileSize: 10, Gap: 0, Columns: 2, Rows: 2})
	if err != nil {
		t.Fatalf("NewArena() error = %v", err)
	}

	tests := []struct {
		name string
		cfg  grid.Config
		sink Sink
		opts []Option
		code derrors.Code
	}{
		{"zero tile size", grid.Config{Columns: 2, Rows: 2}, sink, nil, derrors.ErrCodeInvalidConfig},
		{"zero columns", grid.Config{TileSize: 1, Rows: 2}, sink, nil, derrors.ErrCodeInvalidConfig},
		{"nil sink", grid.DefaultConfig(), nil, nil, derrors.ErrCodeInvalidInput},
		{"bad model", grid.DefaultConfig(), sink, []Option{WithModel(effect.Model{FadeStart: 1, FadeEnd: 0.5})}, derrors.ErrCodeInvalidConfig},
		{"arena mismatch", grid.DefaultConfig(), sink, []Option{WithArena(arena)}, derrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.sink, tt.opts...)
			if !derrors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestSharedArena(t *testing.T) {
	arena, err := grid.NewArena(grid.DefaultConfig())
	if err != nil {
		t.Fatalf("NewArena() error = %v", err)
	}
	e1, _ := newEngine(t, WithArena(arena))
	e2, _ := newEngine(t, WithArena(arena))
	if e1.Arena() != e2.Arena() {
		t.Error("engines should share the provided arena")
	}
}

func TestSinkErrorIsWrapped(t *testing.T) {
	sinkErr := errors.New("disk full")
	sink := &captureSink{err: sinkErr}
	e, err := New(grid.DefaultConfig(), sink)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = e.Start()
	if !errors.Is(err, sinkErr) || !derrors.Is(err, derrors.ErrCodeInternal) {
		t.Errorf("Start() error = %v, want INTERNAL_ERROR wrapping %v", err, sinkErr)
	}
}

func TestMultiSink(t *testing.T) {
	a, b := &captureSink{}, &captureSink{}
	e, err := New(grid.DefaultConfig(), MultiSink{a, b})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(a.frames) != 1 || len(b.frames) != 1 {
		t.Errorf("frames delivered = (%d, %d), want (1, 1)", len(a.frames), len(b.frames))
	}
}

func ExampleEngine() {
	var tiles int
	sink := SinkFunc(func(f Frame) error {
		tiles = len(f.Tiles)
		return nil
	})

	eng, err := New(grid.DefaultConfig(), sink)
	if err != nil {
		panic(err)
	}
	tracker := pan.NewTracker(eng)
	_ = eng.Start()
	_ = tracker.Scroll(pan.ScrollDelta{DeltaX: 10})

	fmt.Println(tracker.Offset().X, tiles)
	// Output: -10 150
}
