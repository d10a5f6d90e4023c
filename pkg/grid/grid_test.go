package grid

import (
	"math"
	"testing"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := c.CellStride(); got != 250 {
		t.Errorf("CellStride() = %v, want 250", got)
	}
	if got := c.Width(); got != 3750 {
		t.Errorf("Width() = %v, want 3750", got)
	}
	if got := c.Height(); got != 2500 {
		t.Errorf("Height() = %v, want 2500", got)
	}
	if got := c.Count(); got != 150 {
		t.Errorf("Count() = %v, want 150", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero tile", Config{TileSize: 0, Gap: 10, Columns: 2, Rows: 2}},
		{"negative tile", Config{TileSize: -5, Gap: 10, Columns: 2, Rows: 2}},
		{"NaN tile", Config{TileSize: math.NaN(), Gap: 10, Columns: 2, Rows: 2}},
		{"negative gap", Config{TileSize: 10, Gap: -1, Columns: 2, Rows: 2}},
		{"infinite gap", Config{TileSize: 10, Gap: math.Inf(1), Columns: 2, Rows: 2}},
		{"zero columns", Config{TileSize: 10, Gap: 1, Columns: 0, Rows: 2}},
		{"zero rows", Config{TileSize: 10, Gap: 1, Columns: 2, Rows: 0}},
		{"overflow", Config{TileSize: math.MaxFloat64, Gap: 0, Columns: 4, Rows: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !derrors.Is(err, derrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() code = %v, want %v", derrors.GetCode(err), derrors.ErrCodeInvalidConfig)
			}
		})
	}

	zeroGap := Config{TileSize: 10, Gap: 0, Columns: 1, Rows: 1}
	if err := zeroGap.Validate(); err != nil {
		t.Errorf("Validate() with zero gap error = %v", err)
	}
}

func TestBasePosition(t *testing.T) {
	c := DefaultConfig()
	tests := []struct {
		index    int
		wantX    float64
		wantY    float64
		wantCol  int
		wantRow  int
		wantBack int
	}{
		{0, 0, 0, 0, 0, 0},
		{1, 250, 0, 1, 0, 1},
		{14, 3500, 0, 14, 0, 14},
		{15, 0, 250, 0, 1, 15},
		{149, 3500, 2250, 14, 9, 149},
	}

	for _, tt := range tests {
		x, y := c.BasePosition(tt.index)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("BasePosition(%d) = (%v, %v), want (%v, %v)", tt.index, x, y, tt.wantX, tt.wantY)
		}
		col, row := c.Cell(tt.index)
		if col != tt.wantCol || row != tt.wantRow {
			t.Errorf("Cell(%d) = (%d, %d), want (%d, %d)", tt.index, col, row, tt.wantCol, tt.wantRow)
		}
		if got := c.Index(col, row); got != tt.wantBack {
			t.Errorf("Index(%d, %d) = %d, want %d", col, row, got, tt.wantBack)
		}
	}
}

func TestIndexWrapsAcrossSeam(t *testing.T) {
	c := DefaultConfig()
	if got := c.Index(-1, 0); got != 14 {
		t.Errorf("Index(-1, 0) = %d, want 14", got)
	}
	if got := c.Index(0, 10); got != 0 {
		t.Errorf("Index(0, 10) = %d, want 0", got)
	}
	if got := c.Index(15, -1); got != 135 {
		t.Errorf("Index(15, -1) = %d, want 135", got)
	}
}

func TestHue(t *testing.T) {
	tests := []struct {
		index int
		want  float64
	}{
		{0, 13},
		{1, 26},
		{26, 351},
		{27, 4},
		{149, 150},
	}
	for _, tt := range tests {
		if got := Hue(tt.index); got != tt.want {
			t.Errorf("Hue(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestNewArena(t *testing.T) {
	a, err := NewArena(DefaultConfig())
	if err != nil {
		t.Fatalf("NewArena() error = %v", err)
	}
	if a.Len() != 150 {
		t.Fatalf("Len() = %d, want 150", a.Len())
	}
	for i, tile := range a.Tiles() {
		if tile.Index != i {
			t.Errorf("tile %d has Index %d", i, tile.Index)
		}
		x, y := a.Config().BasePosition(i)
		if tile.BaseX != x || tile.BaseY != y {
			t.Errorf("tile %d base = (%v, %v), want (%v, %v)", i, tile.BaseX, tile.BaseY, x, y)
		}
	}
	if got := a.Tile(41).Label; got != "42" {
		t.Errorf("Tile(41).Label = %q, want %q", got, "42")
	}

	if _, err := NewArena(Config{}); !derrors.Is(err, derrors.ErrCodeInvalidConfig) {
		t.Errorf("NewArena(zero) error = %v, want INVALID_CONFIG", err)
	}
}
