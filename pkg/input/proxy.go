package input

import (
	"math"
	"sync"
	"time"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/pan"
)

// Target receives the events a proxy produces. *pan.Tracker implements it.
type Target interface {
	Drag(pan.DragMove) error
	Throw(pan.ThrowUpdate) error
}

type pointerSample struct {
	at   time.Time
	x, y float64
}

// Proxy is a drag source with inertial release. It implements [pan.Proxy].
//
// Events are delivered to the target after the proxy's own lock is released,
// so the tracker may call Resync while handling them.
type Proxy struct {
	mu      sync.Mutex
	target  Target
	inertia Inertia

	pos      motion.Offset
	pressed  bool
	lastX    float64
	lastY    float64
	samples  []pointerSample
	throwing bool
	vel      motion.Velocity // pixels per second while throwing
}

// NewProxy returns a proxy at (0, 0) that emits to target.
func NewProxy(target Target, in Inertia) *Proxy {
	return &Proxy{target: target, inertia: in}
}

// Press starts a drag at pointer position (x, y). An in-flight throw stops.
func (p *Proxy) Press(x, y float64, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pressed = true
	p.throwing = false
	p.vel = motion.Velocity{}
	p.lastX, p.lastY = x, y
	p.samples = append(p.samples[:0], pointerSample{at: at, x: p.pos.X, y: p.pos.Y})
}

// Move translates the proxy by the pointer delta and emits a drag move.
// Moves while not pressed are ignored. A move whose pointer, delta or
// resulting position is not finite is rejected and leaves the proxy as it was.
func (p *Proxy) Move(x, y float64, at time.Time) error {
	p.mu.Lock()
	if !p.pressed {
		p.mu.Unlock()
		return nil
	}
	dx, dy := x-p.lastX, y-p.lastY
	pos := p.pos.Add(dx, dy)
	if !finite(x, y, dx, dy, pos.X, pos.Y) {
		p.mu.Unlock()
		return derrors.New(derrors.ErrCodeInvalidEvent, "move to (%v, %v) leaves the finite range", x, y)
	}
	p.lastX, p.lastY = x, y
	p.pos = pos
	p.record(at)
	ev := pan.DragMove{X: p.pos.X, Y: p.pos.Y, DeltaX: dx, DeltaY: dy}
	p.mu.Unlock()

	return p.target.Drag(ev)
}

// Release ends the drag. If the pointer moved fast enough during the sample
// window before at, a throw starts.
func (p *Proxy) Release(at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pressed {
		return
	}
	p.pressed = false
	p.vel = p.releaseVelocity(at)
	if !finite(p.vel.X, p.vel.Y, p.vel.Speed()) {
		p.vel = motion.Velocity{}
	}
	p.throwing = p.vel.Speed() >= p.inertia.MinSpeed && !p.vel.IsZero()
	p.samples = p.samples[:0]
}

// Step advances an in-flight throw by dt and emits one throw update. The
// throw ends once speed drops below MinSpeed; the final update is still
// emitted. Step is a no-op when no throw is running. A step that would
// leave the finite range ends the throw without moving the proxy.
func (p *Proxy) Step(dt time.Duration) error {
	p.mu.Lock()
	if !p.throwing || dt <= 0 {
		p.mu.Unlock()
		return nil
	}
	k := p.inertia.decay(dt)
	vel := motion.Velocity{X: p.vel.X * k, Y: p.vel.Y * k}
	dx, dy := vel.X*dt.Seconds(), vel.Y*dt.Seconds()
	pos := p.pos.Add(dx, dy)
	if !finite(dx, dy, pos.X, pos.Y) {
		p.throwing = false
		p.vel = motion.Velocity{}
		p.mu.Unlock()
		return derrors.New(derrors.ErrCodeInvalidEvent, "throw leaves the finite range")
	}
	p.vel = vel
	p.pos = pos
	if p.vel.Speed() < p.inertia.MinSpeed {
		p.throwing = false
		p.vel = motion.Velocity{}
	}
	ev := pan.ThrowUpdate{X: p.pos.X, Y: p.pos.Y, DeltaX: dx, DeltaY: dy}
	p.mu.Unlock()

	return p.target.Throw(ev)
}

// Resync implements pan.Proxy. The next drag or throw continues from (x, y).
func (p *Proxy) Resync(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = motion.Offset{X: x, Y: y}
	if p.pressed {
		p.samples = append(p.samples[:0], pointerSample{at: p.lastAt(), x: x, y: y})
	}
}

// Throwing reports whether a throw is in flight.
func (p *Proxy) Throwing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.throwing
}

// Position returns the proxy's absolute position.
func (p *Proxy) Position() motion.Offset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// record must be called with mu held.
func (p *Proxy) record(at time.Time) {
	p.samples = append(p.samples, pointerSample{at: at, x: p.pos.X, y: p.pos.Y})
	cutoff := at.Add(-p.inertia.SampleWindow)
	i := 0
	for i < len(p.samples)-1 && p.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		p.samples = append(p.samples[:0], p.samples[i:]...)
	}
}

func (p *Proxy) lastAt() time.Time {
	if len(p.samples) == 0 {
		return time.Time{}
	}
	return p.samples[len(p.samples)-1].at
}

// releaseVelocity must be called with mu held. A pointer that rested longer
// than the sample window before release yields zero.
func (p *Proxy) releaseVelocity(at time.Time) motion.Velocity {
	if len(p.samples) < 2 {
		return motion.Velocity{}
	}
	last := p.samples[len(p.samples)-1]
	if at.Sub(last.at) > p.inertia.SampleWindow {
		return motion.Velocity{}
	}
	first := p.samples[0]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return motion.Velocity{}
	}
	return motion.Velocity{X: (last.x - first.x) / dt, Y: (last.y - first.y) / dt}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
