package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/driftgrid/pkg/engine"
	"github.com/matzehuels/driftgrid/pkg/grid"
)

// upperHalf draws the top pixel of a cell in the foreground colour and the
// bottom pixel in the background colour, doubling vertical resolution.
const upperHalf = "▀"

type placedTile struct {
	index   int
	cx, cy  float64
	inverse gg.Matrix
	opacity float64
	color   colorful.Color
}

// RenderTerminal rasterises the frame into cols×rows character cells using
// half-block glyphs coloured with ANSI true colour. Rounded corners are not
// drawn at this resolution. Labels are printed at tile centres.
func RenderTerminal(f engine.Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 || f.ViewportW <= 0 || f.ViewportH <= 0 {
		return ""
	}

	tiles := placeTiles(f)
	bg := background()
	half := f.TileSize / 2

	sx := f.ViewportW / float64(cols)
	sy := f.ViewportH / float64(rows*2)

	sample := func(px, py float64) colorful.Color {
		out := bg
		// Later tiles are drawn on top.
		for _, t := range tiles {
			p := t.inverse.TransformPoint(gg.Pt(px, py))
			if p.X < -half || p.X > half || p.Y < -half || p.Y > half {
				continue
			}
			out = out.BlendRgb(t.color, t.opacity)
		}
		return out
	}

	labels := labelCells(tiles, sx, sy*2, cols, rows)

	var b strings.Builder
	for row := range rows {
		for col := range cols {
			px := (float64(col) + 0.5) * sx
			top := sample(px, (float64(row*2)+0.5)*sy)
			bottom := sample(px, (float64(row*2)+1.5)*sy)

			if r, ok := labels[row*cols+col]; ok {
				b.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color("#ffffff")).
					Background(lipgloss.Color(top.BlendRgb(bottom, 0.5).Clamped().Hex())).
					Bold(true).
					Render(string(r)))
				continue
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Clamped().Hex())).
				Background(lipgloss.Color(bottom.Clamped().Hex())).
				Render(upperHalf))
		}
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func placeTiles(f engine.Frame) []placedTile {
	tiles := make([]placedTile, 0, len(f.Tiles))
	for _, t := range f.Tiles {
		if !visible(t, f.TileSize, f.ViewportW, f.ViewportH) {
			continue
		}
		if t.ScaleX == 0 || t.ScaleY == 0 {
			continue
		}
		tiles = append(tiles, placedTile{
			index:   t.Index,
			cx:      t.X + f.TileSize/2,
			cy:      t.Y + f.TileSize/2,
			inverse: tileMatrix(t, f.TileSize).Invert(),
			opacity: t.Opacity,
			color:   TileColor(t.Index),
		})
	}
	return tiles
}

// labelCells maps cell index to the label rune printed there. Labels are
// centred on the tile and dropped when they would leave the screen.
func labelCells(tiles []placedTile, cw, ch float64, cols, rows int) map[int]rune {
	cells := make(map[int]rune)
	for _, t := range tiles {
		if t.opacity < 0.5 || t.cx < 0 || t.cy < 0 {
			continue
		}
		label := grid.Label(t.index)
		row := int(t.cy / ch)
		col := int(t.cx/cw) - len(label)/2
		if row < 0 || row >= rows || col < 0 || col+len(label) > cols {
			continue
		}
		for i, r := range label {
			cells[row*cols+col+i] = r
		}
	}
	return cells
}
