// Package sink turns engine frames into output.
//
// # Overview
//
// A frame from [engine.Engine] lists every tile with its wrapped position,
// opacity, skew and scale. This package draws those frames:
//
//   - [Latest]: an [engine.Sink] that keeps the newest frame for readers on
//     other goroutines
//   - [RenderJSON]: frame data with labels and colours
//   - [RenderSVG]: vector output, one transformed group per tile
//   - [RenderPNG]: raster output drawn with gogpu/gg
//   - [RenderPDF]: SVG converted by rsvg-convert
//   - [RenderTerminal]: half-block true-colour cells for the explore view
//
// Every renderer draws tiles in index order on a dark background, as
// rounded squares filled with the tile's HSL colour and labelled with its
// one-based index. Each tile is transformed about its centre: translate,
// skewX, skewY, then scale.
//
// [Render] dispatches on a format name for callers that take it from a flag
// or a query parameter:
//
//	format, err := sink.ParseFormat(r.URL.Query().Get("format"))
//	data, err := sink.Render(frame, format, sink.Options{Labels: true})
//
// [engine.Engine]: github.com/matzehuels/driftgrid/pkg/engine.Engine
// [engine.Sink]: github.com/matzehuels/driftgrid/pkg/engine.Sink
package sink
