package grid

import "strconv"

// Tile colour parameters. Hue varies per tile; saturation and lightness are
// shared by every tile.
const (
	HueStep    = 13.0
	Saturation = 0.70
	Lightness  = 0.50
)

// Tile is the fixed descriptor of one grid cell.
type Tile struct {
	Index int     `json:"index"`
	BaseX float64 `json:"base_x"`
	BaseY float64 `json:"base_y"`
	Hue   float64 `json:"hue"`
	Label string  `json:"label"`
}

// Hue returns the display hue in degrees for tile index. Labels are
// one-based, and the hue follows the label: ((index+1)·13) mod 360.
func Hue(index int) float64 {
	h := ((index + 1) * int(HueStep)) % 360
	if h < 0 {
		h += 360
	}
	return float64(h)
}

// Label returns the display label for tile index: its one-based position.
func Label(index int) string {
	return strconv.Itoa(index + 1)
}

// Arena holds every tile descriptor of a grid. It is built once and never
// modified, so it is safe for concurrent reads.
type Arena struct {
	cfg   Config
	tiles []Tile
}

// NewArena validates cfg and computes all tile descriptors.
func NewArena(cfg Config) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Count()
	tiles := make([]Tile, n)
	for i := range tiles {
		x, y := cfg.BasePosition(i)
		tiles[i] = Tile{
			Index: i,
			BaseX: x,
			BaseY: y,
			Hue:   Hue(i),
			Label: Label(i),
		}
	}
	return &Arena{cfg: cfg, tiles: tiles}, nil
}

// Config returns the geometry the arena was built from.
func (a *Arena) Config() Config { return a.cfg }

// Len returns the number of tiles.
func (a *Arena) Len() int { return len(a.tiles) }

// Tile returns the descriptor at index.
func (a *Arena) Tile(index int) Tile { return a.tiles[index] }

// Tiles returns the backing slice. Callers must not modify it.
func (a *Arena) Tiles() []Tile { return a.tiles }
