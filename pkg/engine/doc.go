// Package engine turns pan samples into per-tile transforms.
//
// # Overview
//
// An [Engine] owns the tile arena, the effect model and a reusable output
// buffer. On every [motion.Sample] it runs one unconditional pass over all
// tiles:
//
//  1. base position from the grid layout
//  2. plus the pan offset
//  3. wrapped per axis into one period of the pattern
//  4. opacity, skew and scale from the effect model
//
// The result is delivered to a [Sink] as a single [Frame]. There is no dirty
// tracking: every frame carries exactly Columns×Rows transforms.
//
// # Wiring
//
// The engine implements [pan.Listener], so the usual setup is:
//
//	eng, err := engine.New(grid.DefaultConfig(), mySink)
//	if err != nil {
//	    return err
//	}
//	tracker := pan.NewTracker(eng)
//	if err := eng.Start(); err != nil {
//	    return err
//	}
//	tracker.Drag(pan.DragMove{X: 120, DeltaX: 4})
//
// # Buffer Ownership
//
// Frame.Tiles aliases the engine's buffer and is overwritten on the next
// pass. Sinks that keep a frame past Render must call [Frame.Clone].
//
// [pan.Listener]: github.com/matzehuels/driftgrid/pkg/pan.Listener
package engine
