package io

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/pan"
)

// Step kinds. Drag, throw and scroll go straight to the tracker; the pointer
// kinds drive the inertial input proxy.
const (
	StepDrag    = "drag"
	StepThrow   = "throw"
	StepScroll  = "scroll"
	StepPress   = "press"
	StepMove    = "move"
	StepRelease = "release"
	StepTick    = "tick"
	StepSettle  = "settle"
)

var stepKinds = []string{StepDrag, StepThrow, StepScroll, StepPress, StepMove, StepRelease, StepTick, StepSettle}

// Script is a recorded input session.
type Script struct {
	Viewport *Viewport `json:"viewport,omitempty"`
	Steps    []Step    `json:"events"`
}

// Viewport overrides the configured viewport for a replay.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Step is one scripted input.
type Step struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	DX   float64 `json:"dx,omitempty"`
	DY   float64 `json:"dy,omitempty"`

	// MS is the pointer timestamp in milliseconds since the script started
	// for press, move and release, and the elapsed time for tick.
	MS float64 `json:"ms,omitempty"`
}

// IsPointer reports whether the step drives the input proxy.
func (s Step) IsPointer() bool {
	switch s.Kind {
	case StepPress, StepMove, StepRelease, StepTick, StepSettle:
		return true
	}
	return false
}

// Event converts a tracker step to a [pan.Event]. It returns false for
// pointer steps.
func (s Step) Event() (pan.Event, bool) {
	if s.IsPointer() {
		return pan.Event{}, false
	}
	kind, err := pan.ParseKind(s.Kind)
	if err != nil {
		return pan.Event{}, false
	}
	return pan.Event{Kind: kind, X: s.X, Y: s.Y, DeltaX: s.DX, DeltaY: s.DY}, true
}

// At returns MS as a duration.
func (s Step) At() time.Duration {
	return time.Duration(s.MS * float64(time.Millisecond))
}

// FromEvent is the inverse of [Step.Event].
func FromEvent(e pan.Event) Step {
	return Step{Kind: e.Kind.String(), X: e.X, Y: e.Y, DX: e.DeltaX, DY: e.DeltaY}
}

// Validate checks step kinds, pointer timing and the viewport. Event values
// are not checked here: non-finite values reach the tracker, which rejects
// them the same way it rejects live input.
func (s Script) Validate() error {
	if v := s.Viewport; v != nil {
		if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "viewport.width", v.Width); err != nil {
			return err
		}
		if err := derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "viewport.height", v.Height); err != nil {
			return err
		}
	}

	var last float64
	for i, st := range s.Steps {
		if !slices.Contains(stepKinds, st.Kind) {
			return derrors.New(derrors.ErrCodeInvalidInput, "event %d: unknown kind %q", i, st.Kind)
		}
		if !st.IsPointer() || st.Kind == StepSettle {
			continue
		}
		if math.IsNaN(st.MS) || math.IsInf(st.MS, 0) || st.MS < 0 {
			return derrors.New(derrors.ErrCodeInvalidInput, "event %d: ms must be a finite non-negative number", i)
		}
		if st.Kind == StepTick {
			continue
		}
		if st.MS < last {
			return derrors.New(derrors.ErrCodeInvalidInput, "event %d: pointer time %vms goes backwards from %vms", i, st.MS, last)
		}
		last = st.MS
	}
	return nil
}

// ReadScript decodes and validates a script from r.
//
//	{
//	  "viewport": {"width": 800, "height": 600},
//	  "events": [
//	    {"kind": "scroll", "dx": 0, "dy": 120},
//	    {"kind": "press", "x": 400, "y": 300, "ms": 0},
//	    {"kind": "move", "x": 300, "y": 300, "ms": 40},
//	    {"kind": "release", "ms": 50},
//	    {"kind": "settle"}
//	  ]
//	}
//
// ReadScript does not close r.
func ReadScript(r io.Reader) (*Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "decode script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ImportScript reads a script file at path.
func ImportScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadScript(f)
}

// WriteScript encodes s as indented JSON.
func WriteScript(s *Script, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportScript writes s to a file at path.
// This is a convenience wrapper around [WriteScript] for file-based output.
func ExportScript(s *Script, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteScript(s, f)
}
