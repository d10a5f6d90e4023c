package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/driftgrid/pkg/effect"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/observability"
)

// DefaultViewport is used when no viewport option is given.
var DefaultViewport = effect.FixedViewport{Width: 1280, Height: 800}

// Engine computes frames from pan samples. It is not safe for concurrent
// use; drive it through a single pan.Tracker, which serialises calls.
type Engine struct {
	cfg      grid.Config
	arena    *grid.Arena
	model    effect.Model
	viewport effect.Viewport
	sink     Sink
	logger   *log.Logger

	wrapX, wrapY func(float64) float64
	buf          []TileTransform
	seq          uint64
	last         motion.Sample
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel replaces the default effect model.
func WithModel(m effect.Model) Option {
	return func(e *Engine) { e.model = m }
}

// WithViewport sets the viewport queried on every frame.
func WithViewport(v effect.Viewport) Option {
	return func(e *Engine) {
		if v != nil {
			e.viewport = v
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithArena shares a prebuilt arena between engines. Its config must equal
// the config passed to [New].
func WithArena(a *grid.Arena) Option {
	return func(e *Engine) { e.arena = a }
}

// New validates cfg and the effect model and returns an engine delivering to
// sink. Invalid geometry is refused with [derrors.ErrCodeInvalidConfig].
func New(cfg grid.Config, sink Sink, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:      cfg,
		model:    effect.Default(),
		viewport: DefaultViewport,
		sink:     sink,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := e.model.Validate(); err != nil {
		return nil, err
	}
	if e.sink == nil {
		return nil, derrors.New(derrors.ErrCodeInvalidInput, "engine requires a sink")
	}
	if e.arena == nil {
		a, err := grid.NewArena(cfg)
		if err != nil {
			return nil, err
		}
		e.arena = a
	} else if e.arena.Config() != cfg {
		return nil, derrors.New(derrors.ErrCodeInvalidConfig, "arena built for %s, engine configured for %s", e.arena.Config(), cfg)
	}

	e.wrapX, e.wrapY = cfg.Wrappers()
	e.buf = make([]TileTransform, e.arena.Len())
	return e, nil
}

// Start runs the initial layout pass with zero offset and zero velocity.
func (e *Engine) Start() error {
	e.logger.Debug("engine start", "grid", e.cfg.String(), "tiles", e.arena.Len())
	return e.Apply(motion.Zero())
}

// Apply implements pan.Listener. It recomputes every tile for s and hands the
// frame to the sink.
func (e *Engine) Apply(s motion.Sample) error {
	start := time.Now()
	vw, vh := e.viewport.Size()
	size := e.cfg.TileSize

	for i, t := range e.arena.Tiles() {
		x := e.wrapX(t.BaseX + s.Offset.X)
		y := e.wrapY(t.BaseY + s.Offset.Y)
		fx := e.model.Compute(x, y, size, s.Velocity, vw, vh)
		e.buf[i] = TileTransform{
			Index:   t.Index,
			X:       x,
			Y:       y,
			Opacity: fx.Opacity,
			SkewX:   fx.SkewX,
			SkewY:   fx.SkewY,
			ScaleX:  fx.ScaleX,
			ScaleY:  fx.ScaleY,
		}
	}

	e.seq++
	e.last = s
	frame := Frame{
		Seq:       e.seq,
		Offset:    s.Offset,
		Velocity:  s.Velocity,
		ViewportW: vw,
		ViewportH: vh,
		TileSize:  size,
		Tiles:     e.buf,
	}
	observability.Engine().OnFrame(e.seq, len(e.buf), time.Since(start))

	if err := e.sink.Render(frame); err != nil {
		observability.Engine().OnSinkError(e.seq, err)
		return derrors.Wrap(derrors.ErrCodeInternal, err, "render frame %d", e.seq)
	}
	return nil
}

// Refresh recomputes the last sample. Use it after the viewport changes
// without any new input.
func (e *Engine) Refresh() error {
	return e.Apply(e.last)
}

// Config returns the grid geometry.
func (e *Engine) Config() grid.Config { return e.cfg }

// Arena returns the tile arena.
func (e *Engine) Arena() *grid.Arena { return e.arena }

// Model returns the effect model.
func (e *Engine) Model() effect.Model { return e.model }

// Viewport returns the current viewport size.
func (e *Engine) Viewport() (width, height float64) { return e.viewport.Size() }
