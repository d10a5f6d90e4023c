package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Replayed 42 events (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Log Hooks
// =============================================================================

// logHooks routes every observability event to a logger at debug level.
// Rejections and sink errors are warnings.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks for every hook category.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetTrackerHooks(h)
	observability.SetEngineHooks(h)
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h logHooks) OnEvent(kind string, s motion.Sample) {
	h.logger.Debug("event", "kind", kind, "offset", s.Offset, "velocity", s.Velocity)
}

func (h logHooks) OnRejected(kind string, err error) {
	h.logger.Warn("event rejected", "kind", kind, "err", err)
}

func (h logHooks) OnFrame(seq uint64, tiles int, d time.Duration) {
	h.logger.Debug("frame", "seq", seq, "tiles", tiles, "duration", d)
}

func (h logHooks) OnSinkError(seq uint64, err error) {
	h.logger.Warn("sink error", "seq", seq, "err", err)
}

func (h logHooks) OnReplayStart(_ context.Context, events int) {
	h.logger.Debug("replay start", "events", events)
}

func (h logHooks) OnReplayComplete(_ context.Context, events int, d time.Duration, err error) {
	h.logger.Debug("replay complete", "events", events, "duration", d, "err", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "route", route, "status", status, "duration", d)
}

func (h logHooks) OnSessionCreated(_ context.Context, id string) {
	h.logger.Debug("session created", "id", id)
}

func (h logHooks) OnSessionClosed(_ context.Context, id string, expired bool) {
	h.logger.Debug("session closed", "id", id, "expired", expired)
}
