package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/driftgrid/pkg/engine"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/observability"
	"github.com/matzehuels/driftgrid/pkg/session"
)

// Replay builds a fresh grid, runs the initial pass and applies the script
// or sample from opts. It returns the final frame.
//
// Events the tracker rejects are counted and skipped, leaving the offset
// where it was, exactly as live input would.
func Replay(ctx context.Context, opts Options) (engine.Frame, Stats, error) {
	var stats Stats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return engine.Frame{}, stats, fmt.Errorf("invalid options: %w", err)
	}

	events := 0
	if opts.Script != nil {
		events = len(opts.Script.Steps)
	}
	start := time.Now()
	observability.Pipeline().OnReplayStart(ctx, events)

	frame, err := replay(ctx, opts, &stats)
	stats.ReplayTime = time.Since(start)
	observability.Pipeline().OnReplayComplete(ctx, events, stats.ReplayTime, err)
	return frame, stats, err
}

func replay(ctx context.Context, opts Options, stats *Stats) (engine.Frame, error) {
	sess, err := session.New(opts.SessionParams())
	if err != nil {
		return engine.Frame{}, err
	}

	if opts.Script == nil {
		if opts.Sample != motion.Zero() {
			if err := sess.Sample(opts.Sample); err != nil {
				return engine.Frame{}, err
			}
		}
	} else {
		for i, step := range opts.Script.Steps {
			if err := ctx.Err(); err != nil {
				return engine.Frame{}, err
			}
			err := sess.Apply(step)
			if derrors.Is(err, derrors.ErrCodeInvalidEvent) {
				stats.Rejected++
				opts.Logger.Warn("event rejected", "index", i, "kind", step.Kind, "err", err)
				continue
			}
			if err != nil {
				return engine.Frame{}, fmt.Errorf("event %d (%s): %w", i, step.Kind, err)
			}
			stats.Events++
		}
	}

	frame, _ := sess.Frame()
	stats.Frames = frame.Seq
	opts.Logger.Debug("replayed", "events", stats.Events, "rejected", stats.Rejected, "frames", stats.Frames, "offset", frame.Offset)
	return frame, nil
}
