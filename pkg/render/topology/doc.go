// Package topology renders the neighbour structure of a wrapping grid.
//
// # Overview
//
// Panning past any edge of the grid brings the opposite edge into view, so
// the tiles form a torus: every tile has a right and a lower neighbour, and
// the last column and row link back to the first. This package draws that
// structure with Graphviz.
//
// # Usage
//
//	dot := topology.ToDOT(cfg, topology.Options{Wrap: true})
//	svg, err := topology.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := topology.RenderPDF(dot)
//	png, err := topology.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Wrap: include the links that cross an edge, drawn dashed
//   - Detailed: add each tile's base position and hue to its label
//
// Nodes are filled with the tile colour and laid out row by row, so the
// diagram reads like the grid at zero offset.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package topology
