package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/driftgrid/pkg/cache"
	"github.com/matzehuels/driftgrid/pkg/effect"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/input"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
)

func TestValidateFormats(t *testing.T) {
	got, err := ValidateFormats([]string{"SVG", "json"})
	if err != nil {
		t.Fatalf("ValidateFormats: %v", err)
	}
	if got[0] != sink.FormatSVG || got[1] != sink.FormatJSON {
		t.Errorf("ValidateFormats = %v, want [svg json]", got)
	}

	if _, err := ValidateFormats([]string{"svg", "invalid"}); !derrors.Is(err, derrors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format should fail with %s: %v", derrors.ErrCodeInvalidFormat, err)
	}

	// Empty slice is valid
	if _, err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Grid != grid.DefaultConfig() {
		t.Errorf("Grid = %v, want default", opts.Grid)
	}
	if opts.Effect != effect.Default() {
		t.Errorf("Effect = %+v, want default", opts.Effect)
	}
	if opts.Inertia != input.DefaultInertia() {
		t.Errorf("Inertia = %+v, want default", opts.Inertia)
	}
	if opts.Viewport.Width != 1280 || opts.Viewport.Height != 800 {
		t.Errorf("Viewport = %+v, want 1280x800", opts.Viewport)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != sink.FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsScriptViewport(t *testing.T) {
	opts := Options{Script: &dio.Script{Viewport: &dio.Viewport{Width: 300, Height: 200}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Viewport.Width != 300 || opts.Viewport.Height != 200 {
		t.Errorf("Viewport = %+v, want script viewport 300x200", opts.Viewport)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code derrors.Code
	}{
		{"bad grid", Options{Grid: grid.Config{TileSize: 200, Columns: -1, Rows: 1}}, derrors.ErrCodeInvalidConfig},
		{"bad effect", Options{Effect: effect.Model{FadeStart: 2, FadeEnd: 1, MaxOpacity: 1}}, derrors.ErrCodeInvalidConfig},
		{"bad scale", Options{Scale: -1}, derrors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, derrors.ErrCodeInvalidFormat},
		{"bad script", Options{Script: &dio.Script{Steps: []dio.Step{{Kind: "pinch"}}}}, derrors.ErrCodeInvalidInput},
		{"nan offset", Options{Sample: motion.Sample{Offset: motion.Offset{X: math.NaN()}}}, derrors.ErrCodeInvalidEvent},
		{"infinite velocity", Options{Sample: motion.Sample{Velocity: motion.Velocity{Y: math.Inf(-1)}}}, derrors.ErrCodeInvalidEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !derrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"PNG"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Formats[0]
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Formats[0] != first || first != sink.FormatPNG {
		t.Errorf("Formats = %v, want [png]", opts.Formats)
	}
}

func TestReplaySample(t *testing.T) {
	ctx := context.Background()

	frame, stats, err := Replay(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if frame.Seq != 1 || stats.Frames != 1 {
		t.Errorf("zero sample: seq %d, frames %d; want only the initial pass", frame.Seq, stats.Frames)
	}

	s := motion.Sample{Offset: motion.Offset{X: 3750}, Velocity: motion.Velocity{X: 5}}
	frame, _, err = Replay(ctx, Options{Sample: s})
	if err != nil {
		t.Fatal(err)
	}
	if frame.Seq != 2 {
		t.Errorf("Seq = %d, want 2", frame.Seq)
	}
	if frame.Offset != s.Offset || frame.Velocity != s.Velocity {
		t.Errorf("frame sample = %v %v, want %v %v", frame.Offset, frame.Velocity, s.Offset, s.Velocity)
	}
	if len(frame.Tiles) != grid.DefaultConfig().Count() {
		t.Errorf("len(Tiles) = %d, want %d", len(frame.Tiles), grid.DefaultConfig().Count())
	}
}

func TestReplayRejectsNonFiniteSample(t *testing.T) {
	s := motion.Sample{Offset: motion.Offset{X: math.NaN()}}
	frame, _, err := Replay(context.Background(), Options{Sample: s})
	if !derrors.Is(err, derrors.ErrCodeInvalidEvent) {
		t.Fatalf("Replay() error = %v, want %s", err, derrors.ErrCodeInvalidEvent)
	}
	if len(frame.Tiles) != 0 {
		t.Errorf("Replay() rendered %d tiles for a rejected sample", len(frame.Tiles))
	}
}

func TestReplayScript(t *testing.T) {
	script := &dio.Script{Steps: []dio.Step{
		{Kind: dio.StepScroll, DX: 10},
		{Kind: dio.StepScroll, DX: math.NaN()},
		{Kind: dio.StepDrag, X: 5, Y: 6, DX: 1, DY: 2},
		{Kind: dio.StepScroll, DY: math.Inf(1)},
	}}

	frame, stats, err := Replay(context.Background(), Options{Script: script})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Events != 2 || stats.Rejected != 2 {
		t.Errorf("events %d, rejected %d; want 2 and 2", stats.Events, stats.Rejected)
	}
	if frame.Offset != (motion.Offset{X: 5, Y: 6}) {
		t.Errorf("Offset = %v, want (5,6)", frame.Offset)
	}
	if frame.Seq != 3 {
		t.Errorf("Seq = %d, want 3", frame.Seq)
	}
}

func TestReplayPointerThrow(t *testing.T) {
	script := &dio.Script{Steps: []dio.Step{
		{Kind: dio.StepPress, X: 0, Y: 0, MS: 0},
		{Kind: dio.StepMove, X: -100, Y: 0, MS: 50},
		{Kind: dio.StepRelease, MS: 50},
		{Kind: dio.StepSettle},
	}}

	frame, stats, err := Replay(context.Background(), Options{Script: script})
	if err != nil {
		t.Fatal(err)
	}
	if frame.Offset.X >= -100 {
		t.Errorf("Offset.X = %v, want the throw to carry past -100", frame.Offset.X)
	}
	if frame.Offset.Y != 0 {
		t.Errorf("Offset.Y = %v, want 0", frame.Offset.Y)
	}
	if stats.Frames < 3 {
		t.Errorf("Frames = %d, want throw updates after the drag", stats.Frames)
	}
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	script := &dio.Script{Steps: []dio.Step{{Kind: dio.StepScroll, DX: 1}}}
	_, _, err := Replay(ctx, Options{Script: script})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Replay() = %v, want context.Canceled", err)
	}
}

func TestRender(t *testing.T) {
	frame, _, err := Replay(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(frame, Options{Formats: []string{"json", "svg"}})
	if err != nil {
		t.Fatal(err)
	}
	back, err := sink.ParseJSON(artifacts["json"])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(back.Tiles) != len(frame.Tiles) {
		t.Errorf("json artifact has %d tiles, want %d", len(back.Tiles), len(frame.Tiles))
	}
	if !bytes.HasPrefix(artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact should start with <svg")
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, log.New(io.Discard))
	defer r.Close()

	opts := Options{
		Sample:  motion.Sample{Offset: motion.Offset{X: -40, Y: 10}},
		Formats: []string{"json", "svg"},
	}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if first.FrameHash == "" {
		t.Error("FrameHash should be set")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}

	// A different end state gets its own artifacts.
	opts.Refresh = false
	opts.Sample.Offset.X = 0
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit || fourth.FrameHash == first.FrameHash {
		t.Error("different sample should not reuse cached artifacts")
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner(nil, nil, nil) = %+v, want defaults", r)
	}
}
