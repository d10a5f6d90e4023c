package pan

import (
	"strings"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

// Kind identifies the input modality that produced an event.
type Kind int

const (
	KindDrag Kind = iota + 1
	KindThrow
	KindScroll
)

// String returns the lowercase name used in scripts and the HTTP API.
func (k Kind) String() string {
	switch k {
	case KindDrag:
		return "drag"
	case KindThrow:
		return "throw"
	case KindScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of [Kind.String]. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drag":
		return KindDrag, nil
	case "throw":
		return KindThrow, nil
	case "scroll", "wheel":
		return KindScroll, nil
	}
	return 0, derrors.New(derrors.ErrCodeInvalidEvent, "unknown event kind %q", s)
}

// DragMove is an absolute proxy position during an active drag plus the delta
// since the previous sample.
type DragMove struct {
	X, Y           float64
	DeltaX, DeltaY float64
}

// ThrowUpdate has the shape of DragMove but is produced by inertial decay
// after release.
type ThrowUpdate struct {
	X, Y           float64
	DeltaX, DeltaY float64
}

// ScrollDelta is a wheel or touch scroll. It carries no absolute position.
type ScrollDelta struct {
	DeltaX, DeltaY float64
}

// Event is the tagged form of the three input shapes, used where events are
// decoded from data. X and Y are ignored for scroll events.
type Event struct {
	Kind   Kind
	X, Y   float64
	DeltaX float64
	DeltaY float64
}

func validateFields(fields ...namedValue) error {
	for _, f := range fields {
		if err := derrors.ValidateFinite(derrors.ErrCodeInvalidEvent, f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

type namedValue struct {
	name string
	v    float64
}
