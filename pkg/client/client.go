package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/driftgrid/pkg/cache"
	"github.com/matzehuels/driftgrid/pkg/engine"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/httputil"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
)

const httpTimeout = 30 * time.Second

// ErrNetwork is returned when the server cannot be reached or answers with
// something other than the API's JSON.
var ErrNetwork = errors.New("network error")

// Client provides typed access to the session API.
type Client struct {
	http    *http.Client
	base    string
	headers map[string]string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		base:    strings.TrimSuffix(baseURL, "/"),
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is a newly created server session.
type Session struct {
	ID    string
	Frame engine.Frame
}

// Health reports the server status and its live session count.
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// RejectedError reports the first step of a batch the server refused.
// Steps before Index were applied and Frame reflects them.
type RejectedError struct {
	Index int
	Frame engine.Frame
	Err   error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("step %d rejected: %v", e.Index, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

type sessionBody struct {
	ID    string          `json:"id"`
	Frame json.RawMessage `json:"frame"`
}

type rejectedBody struct {
	Error httputil.ErrorDetail `json:"error"`
	Index int                  `json:"index"`
	Frame json.RawMessage      `json:"frame"`
}

// Health checks the server.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := cache.RetryWithBackoff(ctx, func() error {
		data, err := c.do(ctx, http.MethodGet, "/healthz", nil)
		if err != nil {
			return err
		}
		return decode(data, &h)
	})
	return h, err
}

// CreateSession starts a session. A nil viewport uses the server's default.
func (c *Client) CreateSession(ctx context.Context, vp *dio.Viewport) (*Session, error) {
	body := map[string]any{}
	if vp != nil {
		body["viewport"] = vp
	}
	data, err := c.do(ctx, http.MethodPost, "/sessions", body)
	if err != nil {
		return nil, err
	}
	var sb sessionBody
	if err := decode(data, &sb); err != nil {
		return nil, err
	}
	frame, err := parseFrame(sb.Frame)
	if err != nil {
		return nil, err
	}
	return &Session{ID: sb.ID, Frame: frame}, nil
}

// Frame fetches the latest frame of a session.
func (c *Client) Frame(ctx context.Context, id string) (engine.Frame, error) {
	data, err := c.Artifact(ctx, id, sink.FormatJSON, 0)
	if err != nil {
		return engine.Frame{}, err
	}
	return parseFrame(data)
}

// Artifact fetches the latest frame rendered as format. A zero scale uses
// the server default.
func (c *Client) Artifact(ctx context.Context, id, format string, scale float64) ([]byte, error) {
	q := url.Values{"format": {format}}
	if scale > 0 {
		q.Set("scale", strconv.FormatFloat(scale, 'g', -1, 64))
	}
	path := sessionPath(id, "frame") + "?" + q.Encode()

	var out []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		data, err := c.do(ctx, http.MethodGet, path, nil)
		out = data
		return err
	})
	return out, err
}

// Events applies steps in order and returns the resulting frame. When the
// server rejects a step the error is a [*RejectedError].
func (c *Client) Events(ctx context.Context, id string, steps []dio.Step) (engine.Frame, error) {
	if steps == nil {
		steps = []dio.Step{}
	}
	data, err := c.do(ctx, http.MethodPost, sessionPath(id, "events"), steps)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			return rej.Frame, err
		}
		return engine.Frame{}, err
	}
	return parseFrame(data)
}

// Resize changes the session viewport and returns the re-rendered frame.
func (c *Client) Resize(ctx context.Context, id string, width, height float64) (engine.Frame, error) {
	var frame engine.Frame
	err := cache.RetryWithBackoff(ctx, func() error {
		data, err := c.do(ctx, http.MethodPut, sessionPath(id, "viewport"), dio.Viewport{Width: width, Height: height})
		if err != nil {
			return err
		}
		frame, err = parseFrame(data)
		return err
	})
	return frame, err
}

// DeleteSession closes a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return cache.RetryWithBackoff(ctx, func() error {
		_, err := c.do(ctx, http.MethodDelete, sessionPath(id, ""), nil)
		return err
	})
}

func sessionPath(id, sub string) string {
	p := "/sessions/" + url.PathEscape(id)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "encode request")
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if resp.StatusCode < 300 {
		return data, nil
	}
	return nil, statusError(resp.StatusCode, data)
}

// statusError converts an error response into a coded error. 5xx answers
// other than 501 are retryable.
func statusError(code int, data []byte) error {
	var err error
	if code == http.StatusUnprocessableEntity {
		var rb rejectedBody
		if json.Unmarshal(data, &rb) == nil && rb.Error.Code != "" {
			frame, _ := parseFrame(rb.Frame)
			return &RejectedError{
				Index: rb.Index,
				Frame: frame,
				Err:   derrors.New(rb.Error.Code, "%s", rb.Error.Message),
			}
		}
	}

	var eb httputil.ErrorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error.Code != "" {
		err = derrors.New(eb.Error.Code, "%s", eb.Error.Message)
	} else {
		err = fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
	if code >= 500 && code != http.StatusNotImplemented {
		return cache.Retryable(err)
	}
	return err
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}

func parseFrame(data []byte) (engine.Frame, error) {
	frame, err := sink.ParseJSON(data)
	if err != nil {
		return engine.Frame{}, fmt.Errorf("%w: decode frame: %v", ErrNetwork, err)
	}
	return frame, nil
}
