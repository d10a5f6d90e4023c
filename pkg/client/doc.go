// Package client talks to a driftgrid HTTP server.
//
// A [Client] wraps the session routes of package server: create a session,
// feed it input steps, resize its viewport, fetch frames as JSON or rendered
// artifacts, and delete it. Server errors come back as [derrors.Error] values
// carrying the code from the response body, so callers can branch with
// [derrors.Is] exactly as they would in process.
//
// Idempotent requests are retried with backoff on network failures and 5xx
// responses. Event batches and session creation are not retried.
//
//	c := client.New("http://localhost:8080")
//	sess, err := c.CreateSession(ctx, nil)
//	frame, err := c.Events(ctx, sess.ID, steps)
package client
