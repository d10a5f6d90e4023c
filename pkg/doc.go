// Package pkg provides the core libraries for Driftgrid, an endlessly tiling
// card grid that pans under drag, throw and scroll input.
//
// # Overview
//
// A fixed set of tiles is laid out once. Every accepted input event moves a
// pan offset; each tile's base position plus the offset is wrapped into a
// range centred on the origin, so the finite grid repeats forever in both
// directions. The pan velocity skews and stretches the tiles, and tiles fade
// out toward the viewport edges.
//
// # Architecture
//
// The data flow for one input event:
//
//	pointer / wheel input
//	         ↓
//	    [input] proxy (drag tracking, inertial throw)
//	         ↓
//	    [pan] tracker (offset + velocity sample)
//	         ↓
//	    [engine] (wrap every tile, apply [effect] model)
//	         ↓
//	    [render/sink] (JSON, SVG, PNG, PDF, terminal)
//
// [session] bundles one tracker, proxy and engine per client. [pipeline]
// replays recorded [io] scripts through a session and caches the rendered
// artifacts in [cache]. [server] exposes sessions over HTTP and [client]
// talks to it.
//
// # Quick Start
//
// Pan a grid and render the result:
//
//	cfg := grid.DefaultConfig()
//	latest := &sink.Latest{}
//	eng, _ := engine.New(cfg, latest, engine.WithViewport(effect.FixedViewport{Width: 1280, Height: 800}))
//	_ = eng.Start()
//
//	tracker := pan.NewTracker(eng)
//	_ = tracker.Scroll(pan.ScrollDelta{DeltaY: 120})
//
//	frame, _ := latest.Frame()
//	svg := sink.RenderSVG(frame)
//
// # Main Packages
//
// ## Geometry and Motion
//
// [grid] - Grid configuration, base tile positions and the centred wrap
// function. The [grid.Arena] holds the tiles and is shared read-only.
//
// [motion] - Offset, velocity and the sample pairing them.
//
// [effect] - Velocity skew and scale, and the edge fade. Pure functions of
// position, velocity and viewport size.
//
// ## Input
//
// [pan] - The offset tracker. Drag and throw set the offset, scroll moves it
// against the wheel delta. Rejects non-finite input.
//
// [input] - Pointer proxy feeding the tracker, with release velocity sampling
// and exponential throw decay.
//
// ## Rendering
//
// [engine] - Recomputes every tile transform per sample into a reused frame
// buffer and hands it to a sink.
//
// [render/sink] - Frame output formats. [render/topology] draws the tile
// torus with Graphviz.
//
// ## Serving
//
// [session], [server], [client] - Independent pan sessions with idle expiry,
// their HTTP API and a typed client.
//
// ## Infrastructure
//
// [config] - TOML settings with environment overrides.
//
// [cache] - File, Redis and MongoDB artifact caches.
//
// [observability] - Hook interfaces for tracker, engine, pipeline, cache and
// server events.
//
// [errors] - Coded errors shared by every layer.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/engine/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/grid
// [grid.Arena]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/grid#Arena
// [motion]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/motion
// [effect]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/effect
// [pan]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/pan
// [input]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/input
// [engine]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/engine
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/render/sink
// [render/topology]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/render/topology
// [session]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/session
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/server
// [client]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/client
// [config]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/driftgrid/pkg/errors
package pkg
