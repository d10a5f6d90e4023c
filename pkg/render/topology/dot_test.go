package topology

import (
	"strings"
	"testing"

	"github.com/matzehuels/driftgrid/pkg/grid"
)

func smallGrid() grid.Config {
	return grid.Config{TileSize: 10, Gap: 5, Columns: 3, Rows: 2}
}

func TestEdges(t *testing.T) {
	cfg := smallGrid()
	edges := Edges(cfg)

	if len(edges) != 2*cfg.Count() {
		t.Fatalf("len(Edges) = %d, want %d", len(edges), 2*cfg.Count())
	}

	wrapped := 0
	for _, e := range edges {
		if e.Wrapped {
			wrapped++
		}
	}
	// One wrapped right link per row, one wrapped lower link per column.
	if want := cfg.Rows + cfg.Columns; wrapped != want {
		t.Errorf("wrapped edges = %d, want %d", wrapped, want)
	}

	tests := []struct {
		edge Edge
		want Edge
	}{
		{edges[0], Edge{From: 0, To: 1}},
		{edges[1], Edge{From: 0, To: 3}},
		{edges[4], Edge{From: 2, To: 0, Wrapped: true}},
		{edges[11], Edge{From: 5, To: 2, Wrapped: true}},
	}
	for _, tt := range tests {
		if tt.edge != tt.want {
			t.Errorf("edge = %+v, want %+v", tt.edge, tt.want)
		}
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(smallGrid(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"t0" [label="1"`) {
		t.Error("ToDOT() output missing node t0")
	}
	if !strings.Contains(dot, `"t0" -> "t1";`) {
		t.Error("ToDOT() output missing right link")
	}
	if strings.Contains(dot, "dashed") {
		t.Error("ToDOT() without Wrap should omit wrapped links")
	}
	if got := strings.Count(dot, "rank=same"); got != 2 {
		t.Errorf("rank groups = %d, want 2", got)
	}
}

func TestToDOT_Wrap(t *testing.T) {
	dot := ToDOT(smallGrid(), Options{Wrap: true})

	if !strings.Contains(dot, `"t2" -> "t0" [style=dashed`) {
		t.Error("ToDOT() with Wrap missing dashed seam link")
	}
	if got := strings.Count(dot, "style=dashed"); got != 5 {
		t.Errorf("dashed links = %d, want 5", got)
	}
}

func TestFmtLabel_Detailed(t *testing.T) {
	label := fmtLabel(smallGrid(), 4, true)

	if !strings.HasPrefix(label, "5\n") {
		t.Errorf("fmtLabel() detailed = %q, want label 5 first", label)
	}
	if !strings.Contains(label, "base: 15,15") {
		t.Errorf("fmtLabel() detailed = %q, missing base position", label)
	}
	if !strings.Contains(label, "hue: 65") {
		t.Errorf("fmtLabel() detailed = %q, missing hue", label)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}
