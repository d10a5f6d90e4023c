package sink

import (
	"encoding/json"

	"github.com/matzehuels/driftgrid/pkg/engine"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/motion"
)

type jsonOutput struct {
	Seq       uint64          `json:"seq"`
	Offset    motion.Offset   `json:"offset"`
	Velocity  motion.Velocity `json:"velocity"`
	ViewportW float64         `json:"viewport_width"`
	ViewportH float64         `json:"viewport_height"`
	TileSize  float64         `json:"tile_size"`
	Tiles     []jsonTile      `json:"tiles"`
}

type jsonTile struct {
	engine.TileTransform
	Label string `json:"label"`
	Color string `json:"color"`
}

// RenderJSON exports the frame with each tile's label and fill colour. The
// output decodes back into an [engine.Frame] with [ParseJSON].
func RenderJSON(f engine.Frame) ([]byte, error) {
	out := jsonOutput{
		Seq:       f.Seq,
		Offset:    f.Offset,
		Velocity:  f.Velocity,
		ViewportW: f.ViewportW,
		ViewportH: f.ViewportH,
		TileSize:  f.TileSize,
		Tiles:     make([]jsonTile, len(f.Tiles)),
	}
	for i, t := range f.Tiles {
		out.Tiles[i] = jsonTile{
			TileTransform: t,
			Label:         grid.Label(t.Index),
			Color:         TileColor(t.Index).Hex(),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON reads a frame written by [RenderJSON] or by encoding an
// [engine.Frame] directly. Presentation fields are ignored.
func ParseJSON(data []byte) (engine.Frame, error) {
	var f engine.Frame
	err := json.Unmarshal(data, &f)
	return f, err
}
