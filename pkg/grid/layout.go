package grid

// BasePosition returns the top-left corner of tile index before any pan is
// applied. Tiles are row-major. The caller guarantees 0 <= index < Count().
func (c Config) BasePosition(index int) (x, y float64) {
	col := index % c.Columns
	row := index / c.Columns
	stride := c.CellStride()
	return float64(col) * stride, float64(row) * stride
}

// Cell returns the column and row of tile index.
func (c Config) Cell(index int) (col, row int) {
	return index % c.Columns, index / c.Columns
}

// Index is the inverse of [Config.Cell]. Column and row are taken modulo the
// grid dimensions, so neighbours across the seam resolve to real tiles.
func (c Config) Index(col, row int) int {
	col = ((col % c.Columns) + c.Columns) % c.Columns
	row = ((row % c.Rows) + c.Rows) % c.Rows
	return row*c.Columns + col
}
