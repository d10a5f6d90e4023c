package sink

import (
	"sync"

	"github.com/matzehuels/driftgrid/pkg/engine"
)

// Latest keeps only the most recent frame. It is safe for concurrent use:
// the engine writes while other goroutines read snapshots.
type Latest struct {
	mu    sync.RWMutex
	frame engine.Frame
	ok    bool
}

// Render implements engine.Sink. The frame is copied into a buffer owned by
// Latest, so the engine may reuse its own.
func (l *Latest) Render(f engine.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tiles := append(l.frame.Tiles[:0], f.Tiles...)
	l.frame = f
	l.frame.Tiles = tiles
	l.ok = true
	return nil
}

// Frame returns a copy of the latest frame, or false before the first one.
func (l *Latest) Frame() (engine.Frame, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.ok {
		return engine.Frame{}, false
	}
	return l.frame.Clone(), true
}

// Seq returns the sequence number of the latest frame.
func (l *Latest) Seq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame.Seq
}

var _ engine.Sink = (*Latest)(nil)
