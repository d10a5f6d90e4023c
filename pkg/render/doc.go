// Package render turns engine frames and grid diagrams into files.
//
// # Overview
//
// The rendering code is split by what is being drawn:
//
//   - Frame output formats (in [sink] subpackage)
//   - The wrap-around topology of the grid (in [topology] subpackage)
//   - Generic format conversion (SVG to PDF/PNG), in this package
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(svg)
//
// Frames are rasterised directly by [sink.RenderPNG] and do not need
// rsvg-convert.
//
// # Topology
//
// The [topology] subpackage renders the tile torus with Graphviz: every tile
// links to its right and lower neighbour, and links that wrap around an edge
// are dashed.
//
//	dot := topology.ToDOT(cfg, topology.Options{})
//	svg, err := topology.RenderSVG(dot)
//
// [sink]: github.com/matzehuels/driftgrid/pkg/render/sink
// [sink.RenderPNG]: github.com/matzehuels/driftgrid/pkg/render/sink.RenderPNG
// [topology]: github.com/matzehuels/driftgrid/pkg/render/topology
package render
