package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/render"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
)

// Options configures topology rendering.
type Options struct {
	// Wrap includes the neighbour links that cross a grid edge.
	Wrap bool

	// Detailed adds base position and hue to node labels.
	// When false, only the tile label is shown.
	Detailed bool
}

// Edge is one neighbour link.
type Edge struct {
	From, To int
	Wrapped  bool
}

// Edges lists the right and lower neighbour of every tile in index order.
// A grid one tile wide or tall links tiles to themselves across the edge.
func Edges(cfg grid.Config) []Edge {
	edges := make([]Edge, 0, 2*cfg.Count())
	for i := range cfg.Count() {
		col, row := cfg.Cell(i)
		edges = append(edges,
			Edge{From: i, To: cfg.Index(col+1, row), Wrapped: col == cfg.Columns-1},
			Edge{From: i, To: cfg.Index(col, row+1), Wrapped: row == cfg.Rows-1},
		)
	}
	return edges
}

// ToDOT converts the grid's neighbour structure to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Links that cross an edge are dashed and do not constrain the layout, so the
// tiles keep their grid arrangement.
func ToDOT(cfg grid.Config, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for row := range cfg.Rows {
		buf.WriteString("  { rank=same;")
		for col := range cfg.Columns {
			fmt.Fprintf(&buf, " %q;", nodeID(cfg.Index(col, row)))
		}
		buf.WriteString(" }\n")
	}
	buf.WriteString("\n")

	for i := range cfg.Count() {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(fmtAttrs(cfg, i, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range Edges(cfg) {
		switch {
		case !e.Wrapped:
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e.From), nodeID(e.To))
		case opts.Wrap:
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey, constraint=false];\n", nodeID(e.From), nodeID(e.To))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string {
	return "t" + strconv.Itoa(i)
}

func fmtLabel(cfg grid.Config, i int, detailed bool) string {
	label := grid.Label(i)
	if !detailed {
		return label
	}
	x, y := cfg.BasePosition(i)
	return fmt.Sprintf("%s\nbase: %g,%g\nhue: %g", label, x, y, grid.Hue(i))
}

func fmtAttrs(cfg grid.Config, i int, detailed bool) []string {
	return []string{
		fmt.Sprintf("label=%q", fmtLabel(cfg, i, detailed)),
		fmt.Sprintf("fillcolor=%q", sink.TileColor(i).Hex()),
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
