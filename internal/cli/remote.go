package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/driftgrid/pkg/client"
	"github.com/matzehuels/driftgrid/pkg/engine"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/pipeline"
)

// runRemoteRender replays opts in a fresh server session and downloads the
// rendered artifacts.
func runRemoteRender(ctx context.Context, stdout io.Writer, url string, opts pipeline.Options, paths map[string]string) error {
	logger := loggerFromContext(ctx)
	c := client.New(url)

	vp := &dio.Viewport{Width: opts.Viewport.Width, Height: opts.Viewport.Height}
	if opts.Script != nil && opts.Script.Viewport != nil {
		vp = opts.Script.Viewport
	}
	sess, err := c.CreateSession(ctx, vp)
	if err != nil {
		return fmt.Errorf("create session on %s: %w", url, err)
	}
	logger.Debug("session created", "id", sess.ID, "server", url)
	defer func() {
		if err := c.DeleteSession(context.WithoutCancel(ctx), sess.ID); err != nil {
			logger.Warn("delete session", "id", sess.ID, "err", err)
		}
	}()

	spinner := newSpinnerWithContext(ctx, "Replaying on "+url+"...")
	spinner.Start()

	frame, stats, err := replayRemote(ctx, c, sess, remoteSteps(opts), logger.Warn)
	if err != nil {
		spinner.StopWithError("Replay failed")
		return err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := c.Artifact(ctx, sess.ID, f, opts.Scale)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("fetch %s: %w", f, err)
		}
		artifacts[f] = data
	}
	spinner.Stop()

	if err := writeArtifacts(stdout, artifacts, opts.Formats, paths); err != nil {
		return err
	}
	if paths[opts.Formats[0]] == "-" {
		return nil
	}

	printSuccess("Rendered frame %d on %s", frame.Seq, url)
	printReplayStats(stats, frame.Offset, false)
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	if stats.Rejected > 0 {
		printWarning("%d events were rejected; run with -v for details", stats.Rejected)
	}
	return nil
}

// remoteSteps returns the script steps, or a single drag placing the sample
// when there is no script.
func remoteSteps(opts pipeline.Options) []dio.Step {
	if opts.Script != nil {
		return opts.Script.Steps
	}
	s := opts.Sample
	if s == motion.Zero() {
		return nil
	}
	return []dio.Step{{Kind: dio.StepDrag, X: s.Offset.X, Y: s.Offset.Y, DX: s.Velocity.X, DY: s.Velocity.Y}}
}

// replayRemote posts steps and resumes after each rejected one, matching
// local replay which skips rejected events.
func replayRemote(ctx context.Context, c *client.Client, sess *client.Session, steps []dio.Step, warn func(any, ...any)) (engine.Frame, pipeline.Stats, error) {
	var stats pipeline.Stats
	frame := sess.Frame
	base := 0
	for len(steps) > 0 {
		f, err := c.Events(ctx, sess.ID, steps)
		var rej *client.RejectedError
		if errors.As(err, &rej) {
			frame = rej.Frame
			stats.Events += rej.Index
			stats.Rejected++
			warn("event rejected", "index", base+rej.Index, "kind", steps[rej.Index].Kind, "err", rej.Err)
			base += rej.Index + 1
			steps = steps[rej.Index+1:]
			continue
		}
		if err != nil {
			return engine.Frame{}, stats, fmt.Errorf("events: %w", err)
		}
		frame = f
		stats.Events += len(steps)
		break
	}
	stats.Frames = frame.Seq
	return frame, stats, nil
}

// serverURL normalizes a bare host:port into an http URL.
func serverURL(s string) string {
	if strings.Contains(s, "://") {
		return s
	}
	return "http://" + s
}
