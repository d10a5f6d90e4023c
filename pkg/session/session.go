// Package session manages independent pan sessions.
//
// A [Session] bundles everything one client needs to pan its own grid: a
// tracker, a transform engine, an inertial input proxy, a resizable viewport
// and the latest frame. Sessions share nothing mutable, so many clients can
// pan concurrently without seeing each other.
//
// # Architecture
//
// The [Store] keeps sessions in memory with an idle timeout. Pan state is
// never persisted: a session that expires, or a restarted server, starts
// again from the zero offset.
//
//	store := session.NewStore(30*time.Minute, 1000)
//	sess, err := session.New(params)
//	if err != nil {
//	    return err
//	}
//	if err := store.Add(ctx, sess); err != nil {
//	    return err // store full
//	}
//
// Input arrives as [dio.Step] values, either from the HTTP API or from a
// recorded script:
//
//	rejectedAt, err := sess.ApplyAll(ctx, steps)
//	frame, _ := sess.Frame()
//
// [dio.Step]: github.com/matzehuels/driftgrid/pkg/io.Step
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/driftgrid/pkg/effect"
	"github.com/matzehuels/driftgrid/pkg/engine"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/input"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/pan"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its idle timeout.
	ErrExpired = errors.New("expired")

	// ErrFull is returned when the store is at capacity.
	ErrFull = errors.New("session limit reached")
)

// Default durations.
const (
	// DefaultTTL is the default idle timeout.
	DefaultTTL = 30 * time.Minute

	// SettleStep is the simulated frame interval for settle steps.
	SettleStep = 16 * time.Millisecond

	// MaxSettleSteps bounds a single settle so a throw that never slows
	// below the minimum speed cannot stall the caller.
	MaxSettleSteps = 10_000
)

// epoch anchors pointer timestamps. Only differences between timestamps
// matter, so every session uses the same origin.
var epoch = time.Unix(0, 0)

// Params describes the grid every session of a deployment shares.
type Params struct {
	Grid     grid.Config
	Effect   effect.Model
	Viewport effect.FixedViewport // initial size
	Inertia  input.Inertia

	// Arena, when set, is shared by all sessions instead of building one
	// per session. Its config must equal Grid.
	Arena  *grid.Arena
	Logger *log.Logger
}

// Session is one client's pan state.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex // serialises input, resizes and refreshes
	tracker  *pan.Tracker
	engine   *engine.Engine
	proxy    *input.Proxy
	viewport *LiveViewport
	frames   *sink.Latest
	lastSeen time.Time
	logger   *log.Logger
}

// New builds a session with a fresh uuid and runs the initial pass, so
// [Session.Frame] is available immediately.
func New(p Params) (*Session, error) {
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	if err := p.Inertia.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		viewport:  NewLiveViewport(p.Viewport.Width, p.Viewport.Height),
		frames:    &sink.Latest{},
		logger:    p.Logger.With("session", id),
	}
	s.lastSeen = s.CreatedAt

	w, h := p.Viewport.Size()
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "viewport.width", w); err != nil {
		return nil, err
	}
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "viewport.height", h); err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithModel(p.Effect),
		engine.WithViewport(s.viewport),
		engine.WithLogger(s.logger),
	}
	if p.Arena != nil {
		opts = append(opts, engine.WithArena(p.Arena))
	}
	eng, err := engine.New(p.Grid, s.frames, opts...)
	if err != nil {
		return nil, err
	}
	s.engine = eng
	s.tracker = pan.NewTracker(eng, pan.WithLogger(s.logger))
	s.proxy = input.NewProxy(s.tracker, p.Inertia)
	s.tracker.SetProxy(s.proxy)

	if err := eng.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

// Frame returns a copy of the latest frame.
func (s *Session) Frame() (engine.Frame, bool) {
	return s.frames.Frame()
}

// Offset returns the accepted pan offset.
func (s *Session) Offset() motion.Offset {
	return s.tracker.Offset()
}

// Viewport returns the current viewport size.
func (s *Session) Viewport() (width, height float64) {
	return s.viewport.Size()
}

// Apply feeds one step to the session. Tracker kinds go to the tracker;
// pointer kinds drive the inertial proxy. A rejected event returns an error
// carrying [derrors.ErrCodeInvalidEvent] and leaves the offset unchanged.
func (s *Session) Apply(step dio.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(step)
}

// ApplyAll applies steps in order and stops at the first error, returning
// its index. Steps before it stay applied. The index is -1 when every step
// was accepted.
func (s *Session) ApplyAll(ctx context.Context, steps []dio.Step) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := s.apply(step); err != nil {
			return i, err
		}
	}
	return -1, nil
}

// Sample applies an absolute sample directly to the engine, bypassing the
// tracker. It is used to render a known state. Non-finite samples are
// rejected with INVALID_EVENT.
func (s *Session) Sample(m motion.Sample) error {
	if err := ValidateSample(m); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Apply(m)
}

// Reset returns the pan offset to (0, 0) and stops any throw.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proxy.Press(0, 0, epoch)
	s.proxy.Release(epoch)
	return s.tracker.Reset()
}

// Throwing reports whether a released drag is still coasting. Callers
// driving the session from a clock keep sending tick steps while it is true.
func (s *Session) Throwing() bool {
	return s.proxy.Throwing()
}

// Resize changes the viewport and recomputes the current frame.
func (s *Session) Resize(width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.viewport.Set(width, height); err != nil {
		return err
	}
	s.logger.Debug("viewport resized", "width", width, "height", height)
	return s.engine.Refresh()
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ttl > 0 && now.Sub(s.lastSeen) > ttl
}

// apply must be called with mu held.
func (s *Session) apply(step dio.Step) error {
	at := epoch.Add(step.At())
	switch step.Kind {
	case dio.StepPress:
		if err := validatePoint(step.X, step.Y); err != nil {
			return err
		}
		s.proxy.Press(step.X, step.Y, at)
		return nil
	case dio.StepMove:
		return s.proxy.Move(step.X, step.Y, at)
	case dio.StepRelease:
		s.proxy.Release(at)
		return nil
	case dio.StepTick:
		return s.proxy.Step(step.At())
	case dio.StepSettle:
		for n := 0; s.proxy.Throwing() && n < MaxSettleSteps; n++ {
			if err := s.proxy.Step(SettleStep); err != nil {
				return err
			}
		}
		return nil
	}

	ev, ok := step.Event()
	if !ok {
		return derrors.New(derrors.ErrCodeInvalidEvent, "unknown event kind %q", step.Kind)
	}
	return s.tracker.Dispatch(ev)
}

// ValidateSample rejects a sample with a non-finite offset or velocity.
func ValidateSample(m motion.Sample) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"offset.x", m.Offset.X},
		{"offset.y", m.Offset.Y},
		{"velocity.x", m.Velocity.X},
		{"velocity.y", m.Velocity.Y},
	}
	for _, f := range fields {
		if err := derrors.ValidateFinite(derrors.ErrCodeInvalidEvent, f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func validatePoint(x, y float64) error {
	if err := derrors.ValidateFinite(derrors.ErrCodeInvalidEvent, "x", x); err != nil {
		return err
	}
	return derrors.ValidateFinite(derrors.ErrCodeInvalidEvent, "y", y)
}
