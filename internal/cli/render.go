package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/pipeline"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
)

// defaultOutputBase names output files when neither -o nor a script is given.
const defaultOutputBase = "frame"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string        // output file (single format) or base path (multiple)
	formats  string        // comma-separated output formats
	sample   motion.Sample // applied when no script is given
	width    float64       // viewport width override
	height   float64       // viewport height override
	scale    float64       // PNG scale factor
	noLabels bool          // omit tile labels
	noCache  bool          // disable the artifact cache
	refresh  bool          // re-render even when cached
	server   string        // replay against a running server instead
}

// renderCommand creates the render command for snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [script.json]",
		Short: "Render a snapshot of the grid",
		Long: `Render a snapshot of the grid to JSON, SVG, PNG or PDF.

With a script, the recorded input events are replayed from the zero offset
and the final frame is rendered. Events the tracker rejects are skipped and
reported. Use "-" to read the script from stdin.

Without a script, a single offset and velocity from the flags is rendered.

Rendered artifacts are cached; an identical final state reuses the cached
output. PDF output requires rsvg-convert.

With --server the replay runs in a fresh session on a running driftgrid
server, which renders the artifacts; the session is deleted afterwards.`,
		Example: `  driftgrid render --offset-x 3750 -f png
  driftgrid render session.json -f svg,png -o out/pan
  cat session.json | driftgrid render - -f json -o -
  driftgrid render session.json --server http://localhost:8080 -f png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format) or base path (multiple); "-" writes to stdout`)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.sample.Offset.X, "offset-x", 0, "pan offset x (without a script)")
	cmd.Flags().Float64Var(&opts.sample.Offset.Y, "offset-y", 0, "pan offset y (without a script)")
	cmd.Flags().Float64Var(&opts.sample.Velocity.X, "velocity-x", 0, "pan velocity x in pixels per event (without a script)")
	cmd.Flags().Float64Var(&opts.sample.Velocity.Y, "velocity-y", 0, "pan velocity y in pixels per event (without a script)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit tile labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached snapshot exists")
	cmd.Flags().StringVar(&opts.server, "server", "", "replay on a running driftgrid server at this URL")

	return cmd
}

// runRender replays input, renders the requested formats and writes them.
func (c *CLI) runRender(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, ro renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	formats, err := pipeline.ValidateFormats(parseFormats(ro.formats))
	if err != nil {
		return err
	}
	paths, err := outputPaths(formats, ro.output, input)
	if err != nil {
		return err
	}

	opts := baseOptions(cfg)
	opts.Formats = formats
	opts.Scale = ro.scale
	opts.NoLabels = ro.noLabels
	opts.Refresh = ro.refresh
	opts.Logger = logger
	if ro.width > 0 {
		opts.Viewport.Width = ro.width
	}
	if ro.height > 0 {
		opts.Viewport.Height = ro.height
	}

	if input != "" {
		script, err := readScript(stdin, input)
		if err != nil {
			return err
		}
		opts.Script = script
		logger.Infof("Loaded %d events from %s", len(script.Steps), input)
	} else {
		opts.Sample = ro.sample
	}

	if ro.server != "" {
		return runRemoteRender(ctx, stdout, serverURL(ro.server), opts, paths)
	}

	runner, err := c.newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering frame...")
	spinner.Start()
	prog := newProgress(logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(formats, ", ")))

	if err := writeArtifacts(stdout, result.Artifacts, formats, paths); err != nil {
		return err
	}
	if paths[formats[0]] == "-" {
		return nil
	}

	printSuccess("Rendered frame %d", result.Frame.Seq)
	printReplayStats(result.Stats, result.Frame.Offset, result.CacheInfo.RenderHit)
	for _, f := range formats {
		printFile(paths[f])
	}
	if result.Stats.Rejected > 0 {
		printWarning("%d events were rejected; run with -v for details", result.Stats.Rejected)
	}
	return nil
}

// readScript loads a script from path, or from stdin when path is "-".
func readScript(stdin io.Reader, path string) (*dio.Script, error) {
	if path == "-" {
		return dio.ReadScript(stdin)
	}
	return dio.ImportScript(path)
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .png, ...), that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return defaultOutputBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(sink.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its destination. A single format with an
// explicit output goes exactly there; otherwise files are named base.format.
// "-" selects stdout and is only valid for a single format.
func outputPaths(formats []string, output, input string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if output == "-" {
		if len(formats) != 1 {
			return nil, derrors.New(derrors.ErrCodeInvalidInput, "stdout output needs exactly one format, got %d", len(formats))
		}
		paths[formats[0]] = "-"
		return paths, nil
	}

	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
	} else {
		base := basePath(output, input)
		for _, f := range formats {
			paths[f] = base + "." + f
		}
	}
	for _, p := range paths {
		if err := derrors.ValidateOutputPath(p); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// writeArtifacts writes every format to its path, creating parent
// directories as needed.
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, paths map[string]string) error {
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return fmt.Errorf("renderer produced no %s output", f)
		}
		path := paths[f]
		if path == "-" {
			if _, err := stdout.Write(data); err != nil {
				return err
			}
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
