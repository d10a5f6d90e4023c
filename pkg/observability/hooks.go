// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about input handling, frame production, snapshot
// rendering, cache operations, and the HTTP API.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages can
// emit events without importing a metrics or tracing framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... compute frame ...
//	observability.Engine().OnFrame(seq, len(tiles), time.Since(start))
//
// Frame and tracker hooks run on the hot path, once per input event. Keep
// implementations cheap.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/driftgrid/pkg/motion"
)

// =============================================================================
// Tracker Hooks
// =============================================================================

// TrackerHooks receives events from the pan offset tracker.
type TrackerHooks interface {
	// OnEvent records an accepted input event and the sample it produced.
	OnEvent(kind string, s motion.Sample)

	// OnRejected records an input event refused at the tracker boundary.
	OnRejected(kind string, err error)
}

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the transform engine.
type EngineHooks interface {
	// OnFrame records a completed pass over all tiles.
	OnFrame(seq uint64, tiles int, duration time.Duration)

	// OnSinkError records a render sink refusing a frame.
	OnSinkError(seq uint64, err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the snapshot pipeline.
type PipelineHooks interface {
	// Replay events
	OnReplayStart(ctx context.Context, events int)
	OnReplayComplete(ctx context.Context, events int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records a served HTTP request.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnSessionCreated records a new session.
	OnSessionCreated(ctx context.Context, id string)

	// OnSessionClosed records a session removed by the client or by expiry.
	OnSessionClosed(ctx context.Context, id string, expired bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTrackerHooks is a no-op implementation of TrackerHooks.
type NoopTrackerHooks struct{}

func (NoopTrackerHooks) OnEvent(string, motion.Sample) {}
func (NoopTrackerHooks) OnRejected(string, error)      {}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnFrame(uint64, int, time.Duration) {}
func (NoopEngineHooks) OnSinkError(uint64, error)          {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnReplayStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnReplayComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopServerHooks) OnSessionCreated(context.Context, string)                      {}
func (NoopServerHooks) OnSessionClosed(context.Context, string, bool)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	trackerHooks  TrackerHooks  = NoopTrackerHooks{}
	engineHooks   EngineHooks   = NoopEngineHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serverHooks   ServerHooks   = NoopServerHooks{}
	hooksMu       sync.RWMutex
)

// SetTrackerHooks registers custom tracker hooks.
// This should be called once at application startup before any input is handled.
func SetTrackerHooks(h TrackerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		trackerHooks = h
	}
}

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any frame is produced.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks.
// This should be called once at application startup before serving requests.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Tracker returns the registered tracker hooks.
func Tracker() TrackerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return trackerHooks
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	trackerHooks = NoopTrackerHooks{}
	engineHooks = NoopEngineHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
