// Package grid describes the fixed tile layout of an unbounded, seamlessly
// tiling surface.
//
// # Overview
//
// A [Config] fixes the tile size, the gap between tiles and the number of
// columns and rows. Tiles are laid out row-major: tile i sits in column
// i mod Columns and row i / Columns, at a base position of
// (column, row) × [Config.CellStride]. The full pattern spans
// [Config.Width] × [Config.Height] and repeats in both directions.
//
// # Wrapping
//
// [Wrap] returns a function that folds any coordinate into the centred
// half-open interval [-p/2, p/2). Applying it per axis to base position plus
// pan offset keeps every tile inside one period of the pattern, so panning by
// exactly one full width or height reproduces the same picture.
//
//	wrapX, wrapY := cfg.Wrappers()
//	x := wrapX(baseX + offset.X)
//	y := wrapY(baseY + offset.Y)
//
// # Arena
//
// [NewArena] computes every tile descriptor once: base position, hue and
// label. The arena never changes after construction, so render code can index
// it freely from any goroutine.
package grid
