package grid

import (
	"fmt"
	"math"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

// Default layout values.
const (
	DefaultTileSize = 200.0
	DefaultGap      = 50.0
	DefaultColumns  = 15
	DefaultRows     = 10
)

// Config is the immutable grid geometry. All lengths are in pixels.
type Config struct {
	TileSize float64 `toml:"tile_size" json:"tile_size"`
	Gap      float64 `toml:"gap" json:"gap"`
	Columns  int     `toml:"columns" json:"columns"`
	Rows     int     `toml:"rows" json:"rows"`
}

// DefaultConfig returns a 15×10 grid of 200px tiles separated by 50px gaps.
func DefaultConfig() Config {
	return Config{
		TileSize: DefaultTileSize,
		Gap:      DefaultGap,
		Columns:  DefaultColumns,
		Rows:     DefaultRows,
	}
}

// Validate rejects geometry that cannot produce a finite, non-empty pattern.
// The returned error carries [derrors.ErrCodeInvalidConfig].
func (c Config) Validate() error {
	if err := derrors.ValidatePositive(derrors.ErrCodeInvalidConfig, "tile_size", c.TileSize); err != nil {
		return err
	}
	if err := derrors.ValidateFinite(derrors.ErrCodeInvalidConfig, "gap", c.Gap); err != nil {
		return err
	}
	if c.Gap < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "gap must not be negative, got %v", c.Gap)
	}
	if c.Columns <= 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "columns must be positive, got %d", c.Columns)
	}
	if c.Rows <= 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "rows must be positive, got %d", c.Rows)
	}
	if w := c.Width(); math.IsInf(w, 0) {
		return derrors.New(derrors.ErrCodeInvalidConfig, "grid width overflows")
	}
	if h := c.Height(); math.IsInf(h, 0) {
		return derrors.New(derrors.ErrCodeInvalidConfig, "grid height overflows")
	}
	return nil
}

// CellStride is the distance between the origins of adjacent tiles.
func (c Config) CellStride() float64 {
	return c.TileSize + c.Gap
}

// Width is the horizontal period of the pattern.
func (c Config) Width() float64 {
	return float64(c.Columns) * c.CellStride()
}

// Height is the vertical period of the pattern.
func (c Config) Height() float64 {
	return float64(c.Rows) * c.CellStride()
}

// Count is the number of tiles in one period.
func (c Config) Count() int {
	return c.Columns * c.Rows
}

// String implements fmt.Stringer.
func (c Config) String() string {
	return fmt.Sprintf("%dx%d tiles of %gpx (gap %gpx)", c.Columns, c.Rows, c.TileSize, c.Gap)
}
