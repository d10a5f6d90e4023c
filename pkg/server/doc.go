// Package server exposes pan sessions over HTTP.
//
// Every client creates its own session and drives it with input events; the
// server answers with the resulting frame. Sessions are independent and live
// in memory until deleted or idle past the configured TTL.
//
// # Routes
//
//	POST   /sessions                  create a session, returns {id, frame}
//	GET    /sessions/{id}/frame       current frame; ?format=json|svg|png|pdf, ?scale=
//	POST   /sessions/{id}/events      apply [{kind, x, y, dx, dy, ms}], returns the frame
//	PUT    /sessions/{id}/viewport    resize with {width, height}, returns the frame
//	DELETE /sessions/{id}             end a session
//	GET    /healthz                   liveness and session count
//
// Events are applied in order. The first rejected event stops the batch with
// 422 Unprocessable Entity; events before it stay applied and the response
// carries the index of the rejected event and the frame as it stands.
//
// Rendered SVG, PNG and PDF frames go through the [pipeline.Runner], so two
// clients looking at the same state share cached artifacts.
package server
