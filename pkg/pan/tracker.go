// Package pan owns the pan offset of the grid.
//
// A [Tracker] merges three input modalities into one unbounded offset:
// drag moves and inertial throw updates carry an absolute position, scroll
// deltas carry only a delta that is subtracted from the current offset. Every
// accepted event produces exactly one [motion.Sample] which is handed to the
// [Listener] before the call returns.
//
// Scroll events move the offset out-of-band of the drag source, so the
// tracker resynchronises the registered [Proxy] before forwarding the sample.
// A throw that starts afterwards then continues from the scrolled position.
package pan

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/observability"
)

// Listener consumes samples. The transform engine is the usual listener.
type Listener interface {
	Apply(motion.Sample) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(motion.Sample) error

// Apply implements Listener.
func (f ListenerFunc) Apply(s motion.Sample) error { return f(s) }

// Proxy is the drag/inertia source's own notion of position. The tracker
// calls Resync after a scroll so both agree on where the content is.
type Proxy interface {
	Resync(x, y float64)
}

// Tracker is the single owner of the pan offset.
//
// All methods are safe for concurrent use; events are applied one at a time
// in the order the lock is acquired. The listener and proxy are invoked while
// the lock is held and must not call back into the same Tracker.
type Tracker struct {
	mu       sync.Mutex
	offset   motion.Offset
	listener Listener
	proxy    Proxy
	logger   *log.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithProxy registers the drag/inertia source to resynchronise on scroll.
func WithProxy(p Proxy) Option {
	return func(t *Tracker) { t.proxy = p }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTracker returns a tracker at offset (0, 0) forwarding to l.
func NewTracker(l Listener, opts ...Option) *Tracker {
	t := &Tracker{
		listener: l,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetProxy registers p after construction. Sources that need the tracker to
// exist before they can be built use this instead of [WithProxy].
func (t *Tracker) SetProxy(p Proxy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.proxy = p
}

// Offset returns the current pan offset.
func (t *Tracker) Offset() motion.Offset {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

// Drag applies a drag move: the offset becomes the event position and the
// velocity is the event delta.
func (t *Tracker) Drag(e DragMove) error {
	return t.absolute(KindDrag, e.X, e.Y, e.DeltaX, e.DeltaY)
}

// Throw applies one inertial throw update. Semantics match [Tracker.Drag].
func (t *Tracker) Throw(e ThrowUpdate) error {
	return t.absolute(KindThrow, e.X, e.Y, e.DeltaX, e.DeltaY)
}

// Scroll subtracts the delta from the current offset and reports the negated
// delta as velocity, so content moves opposite to the scroll gesture.
func (t *Tracker) Scroll(e ScrollDelta) error {
	if err := validateFields(
		namedValue{"delta_x", e.DeltaX},
		namedValue{"delta_y", e.DeltaY},
	); err != nil {
		return t.reject(KindScroll, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.offset.Add(-e.DeltaX, -e.DeltaY)
	if err := validateFields(namedValue{"offset_x", next.X}, namedValue{"offset_y", next.Y}); err != nil {
		return t.reject(KindScroll, err)
	}
	t.offset = next
	if t.proxy != nil {
		t.proxy.Resync(next.X, next.Y)
	}
	v := motion.Velocity{X: e.DeltaX, Y: e.DeltaY}.Neg()
	return t.emit(KindScroll, motion.Sample{Offset: next, Velocity: v})
}

// Dispatch routes a tagged event to the matching entry point.
func (t *Tracker) Dispatch(e Event) error {
	switch e.Kind {
	case KindDrag:
		return t.Drag(DragMove{X: e.X, Y: e.Y, DeltaX: e.DeltaX, DeltaY: e.DeltaY})
	case KindThrow:
		return t.Throw(ThrowUpdate{X: e.X, Y: e.Y, DeltaX: e.DeltaX, DeltaY: e.DeltaY})
	case KindScroll:
		return t.Scroll(ScrollDelta{DeltaX: e.DeltaX, DeltaY: e.DeltaY})
	}
	return t.reject(e.Kind, derrors.New(derrors.ErrCodeInvalidEvent, "unknown event kind %d", int(e.Kind)))
}

// Reset returns the offset to (0, 0) and emits the zero sample. Engines use
// it for the initial layout pass.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = motion.Offset{}
	if t.proxy != nil {
		t.proxy.Resync(0, 0)
	}
	return t.emit(KindDrag, motion.Zero())
}

func (t *Tracker) absolute(kind Kind, x, y, dx, dy float64) error {
	if err := validateFields(
		namedValue{"x", x},
		namedValue{"y", y},
		namedValue{"delta_x", dx},
		namedValue{"delta_y", dy},
	); err != nil {
		return t.reject(kind, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.offset = motion.Offset{X: x, Y: y}
	return t.emit(kind, motion.Sample{Offset: t.offset, Velocity: motion.Velocity{X: dx, Y: dy}})
}

// emit must be called with mu held.
func (t *Tracker) emit(kind Kind, s motion.Sample) error {
	observability.Tracker().OnEvent(kind.String(), s)
	if t.listener == nil {
		return nil
	}
	if err := t.listener.Apply(s); err != nil {
		return derrors.Wrap(derrors.ErrCodeInternal, err, "apply %s sample", kind)
	}
	return nil
}

func (t *Tracker) reject(kind Kind, err error) error {
	t.logger.Debug("event rejected", "kind", kind, "err", err)
	observability.Tracker().OnRejected(kind.String(), err)
	return err
}
