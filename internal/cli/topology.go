package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/driftgrid/pkg/render/topology"
)

// topologyCommand creates the command that draws the tile adjacency.
func (c *CLI) topologyCommand() *cobra.Command {
	var (
		output   string
		format   string
		noWrap   bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Draw how tiles neighbour each other across the wrap",
		Long: `Draw the neighbour graph of the configured grid.

Every tile links to its right and lower neighbour. The last column links back
to the first and the last row to the top, drawn dashed: the wrapped grid is a
torus. Output is Graphviz DOT, SVG, PNG or PDF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := topology.Options{Wrap: !noWrap, Detailed: detailed}
			return c.runTopology(cmd.Context(), cmd.OutOrStdout(), opts, format, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default topology.<format>); "-" writes to stdout`)
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, png, pdf")
	cmd.Flags().BoolVar(&noWrap, "no-wrap", false, "omit wrap-around edges")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label tiles with their column, row and base position")

	return cmd
}

func (c *CLI) runTopology(ctx context.Context, stdout io.Writer, opts topology.Options, format, output string) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	dot := topology.ToDOT(cfg.Grid, opts)
	logger.Debugf("Generated DOT for %s: %d edges", cfg.Grid, len(topology.Edges(cfg.Grid)))

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = topology.RenderSVG(dot)
	case "png":
		data, err = topology.RenderPNG(dot, 2.0)
	case "pdf":
		data, err = topology.RenderPDF(dot)
	default:
		return fmt.Errorf("unknown format: %s (must be dot, svg, png or pdf)", format)
	}
	if err != nil {
		return fmt.Errorf("render topology: %w", err)
	}

	if output == "" {
		output = "topology." + format
	}
	paths, err := outputPaths([]string{format}, output, "")
	if err != nil {
		return err
	}
	if err := writeArtifacts(stdout, map[string][]byte{format: data}, []string{format}, paths); err != nil {
		return err
	}
	if output != "-" {
		printSuccess("Drew %d tiles", cfg.Grid.Count())
		printFile(output)
	}
	return nil
}
