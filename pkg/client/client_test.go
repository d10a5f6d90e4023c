package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/driftgrid/pkg/cache"
	"github.com/matzehuels/driftgrid/pkg/effect"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/pipeline"
	"github.com/matzehuels/driftgrid/pkg/server"
)

func newTestClient(t *testing.T, cfg server.Config) *Client {
	t.Helper()
	opts := pipeline.Options{
		Grid:     grid.Config{TileSize: 100, Gap: 20, Columns: 4, Rows: 3},
		Viewport: effect.FixedViewport{Width: 200, Height: 200},
	}
	s, err := server.New(cfg, opts, pipeline.NewRunner(cache.NewNullCache(), nil, nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL + "/")
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, server.Config{})

	sess, err := c.CreateSession(ctx, &dio.Viewport{Width: 300, Height: 150})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID == "" || sess.Frame.Seq != 1 || sess.Frame.ViewportW != 300 {
		t.Errorf("session = %+v, want id, seq 1 and width 300", sess)
	}

	frame, err := c.Events(ctx, sess.ID, []dio.Step{{Kind: dio.StepScroll, DX: 10, DY: -4}})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if want := (motion.Offset{X: -10, Y: 4}); frame.Offset != want {
		t.Errorf("Offset = %v, want %v", frame.Offset, want)
	}

	frame, err = c.Resize(ctx, sess.ID, 400, 400)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if frame.ViewportW != 400 || frame.Seq != 3 {
		t.Errorf("frame width %v seq %d, want 400 and 3", frame.ViewportW, frame.Seq)
	}

	got, err := c.Frame(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if got.Seq != frame.Seq {
		t.Errorf("Frame seq = %d, want %d", got.Seq, frame.Seq)
	}

	h, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "ok" || h.Sessions != 1 {
		t.Errorf("Health = %+v, want ok with 1 session", h)
	}

	if err := c.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := c.Frame(ctx, sess.ID); !derrors.Is(err, derrors.ErrCodeSessionNotFound) {
		t.Errorf("Frame after delete error = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestEventsRejected(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, server.Config{})
	sess, err := c.CreateSession(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	steps := []dio.Step{
		{Kind: dio.StepDrag, X: 5, Y: 6},
		{Kind: "pinch"},
		{Kind: dio.StepDrag, X: 50},
	}
	frame, err := c.Events(ctx, sess.ID, steps)

	var rej *RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("Events error = %v, want *RejectedError", err)
	}
	if rej.Index != 1 {
		t.Errorf("Index = %d, want 1", rej.Index)
	}
	if !derrors.Is(err, derrors.ErrCodeInvalidEvent) {
		t.Errorf("error code = %q, want INVALID_EVENT", derrors.GetCode(err))
	}
	if want := (motion.Offset{X: 5, Y: 6}); frame.Offset != want {
		t.Errorf("Offset = %v, want %v", frame.Offset, want)
	}
}

func TestArtifact(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, server.Config{})
	sess, err := c.CreateSession(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	svg, err := c.Artifact(ctx, sess.ID, "svg", 0)
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg artifact starts with %q", svg[:min(len(svg), 10)])
	}

	if _, err := c.Artifact(ctx, sess.ID, "gif", 0); !derrors.Is(err, derrors.ErrCodeInvalidFormat) {
		t.Errorf("gif artifact error = %v, want INVALID_FORMAT", err)
	}
}

func TestCreateSessionFull(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, server.Config{MaxSessions: 1})
	if _, err := c.CreateSession(ctx, nil); err != nil {
		t.Fatal(err)
	}
	_, err := c.CreateSession(ctx, nil)
	if !derrors.Is(err, derrors.ErrCodeUnavailable) {
		t.Errorf("second CreateSession error = %v, want UNAVAILABLE", err)
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		body      string
		wantCode  derrors.Code
		retryable bool
	}{
		{"coded 404", 404, `{"error": {"code": "SESSION_NOT_FOUND", "message": "gone"}}`, derrors.ErrCodeSessionNotFound, false},
		{"coded 503", 503, `{"error": {"code": "UNAVAILABLE", "message": "full"}}`, derrors.ErrCodeUnavailable, true},
		{"unsupported", 501, `{"error": {"code": "UNSUPPORTED", "message": "no"}}`, derrors.ErrCodeUnsupported, false},
		{"plain 502", 502, `bad gateway`, "", true},
		{"plain 400", 400, `nope`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(tt.code, []byte(tt.body))
			if got := derrors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
			if got := cache.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
			if tt.wantCode == "" && !errors.Is(err, ErrNetwork) {
				t.Errorf("error %v should wrap ErrNetwork", err)
			}
		})
	}
}

func TestHeaders(t *testing.T) {
	var seen atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`{"status": "ok", "sessions": 0}`))
	}))
	defer ts.Close()

	c := New(ts.URL, WithHeader("Authorization", "Bearer t"), WithHTTPClient(ts.Client()))
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if got := seen.Load(); got != "Bearer t" {
		t.Errorf("Authorization = %v, want Bearer t", got)
	}
}
