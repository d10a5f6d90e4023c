// Package io reads and writes recorded input scripts.
//
// # Overview
//
// A script is a JSON list of input events that can be replayed against a
// fresh grid to reproduce a pan session. Scripts drive the render command and
// the snapshot pipeline, and make interaction bugs reproducible.
//
// # JSON Format
//
//	{
//	  "viewport": {"width": 1280, "height": 800},
//	  "events": [
//	    {"kind": "drag", "x": -40, "y": 0, "dx": -40, "dy": 0},
//	    {"kind": "scroll", "dx": 0, "dy": 120},
//	    {"kind": "press", "x": 640, "y": 400, "ms": 0},
//	    {"kind": "move", "x": 560, "y": 400, "ms": 30},
//	    {"kind": "release", "ms": 40},
//	    {"kind": "tick", "ms": 16},
//	    {"kind": "settle"}
//	  ]
//	}
//
// The viewport is optional and overrides the configured one.
//
// # Event Kinds
//
// Tracker events are applied directly:
//   - drag, throw: absolute offset x, y plus delta dx, dy
//   - scroll: delta dx, dy; the grid moves opposite to the delta
//
// Pointer events go through the inertial input proxy:
//   - press, move, release: pointer position x, y at time ms
//   - tick: advance a running throw by ms milliseconds
//   - settle: advance a running throw until it comes to rest
//
// # Import and Export
//
// Use [ImportScript] to read a file, or [ReadScript] to read from any
// io.Reader. Both reject unknown fields and kinds, and pointer timestamps
// that go backwards. Event values themselves are left to the tracker, which
// rejects non-finite input at replay time.
//
//	s, err := io.ImportScript("session.json")
//
// Use [ExportScript] or [WriteScript] to save a script; [FromEvent] converts
// live tracker events when recording.
package io
