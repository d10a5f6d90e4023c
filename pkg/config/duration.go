package config

import (
	"time"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

// Duration is a time.Duration that reads and writes as a Go duration string
// ("100ms", "30m") in TOML and JSON.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "parse duration %q", string(b))
	}
	*d = Duration(v)
	return nil
}
