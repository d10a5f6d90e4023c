package session

import (
	"sync"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

// LiveViewport is a viewport the client can resize while the engine reads it.
type LiveViewport struct {
	mu     sync.RWMutex
	width  float64
	height float64
}

// NewLiveViewport returns a viewport of the given size. The size is not
// validated; use Set for client input.
func NewLiveViewport(width, height float64) *LiveViewport {
	return &LiveViewport{width: width, height: height}
}

// Size implements effect.Viewport.
func (v *LiveViewport) Size() (width, height float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// Set changes the size. Both dimensions must be positive and finite.
func (v *LiveViewport) Set(width, height float64) error {
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "width", width); err != nil {
		return err
	}
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "height", height); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = width, height
	return nil
}
