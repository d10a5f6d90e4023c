package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/httputil"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
	"github.com/matzehuels/driftgrid/pkg/session"
)

type createRequest struct {
	Viewport *dio.Viewport `json:"viewport,omitempty"`
}

type sessionResponse struct {
	ID    string          `json:"id"`
	Frame json.RawMessage `json:"frame"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// rejectedResponse reports the first rejected event of a batch.
type rejectedResponse struct {
	Error httputil.ErrorDetail `json:"error"`
	Index int                  `json:"index"`
	Frame json.RawMessage      `json:"frame"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logWrite(httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: s.store.Len()}))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.DecodeJSON(w, r, &req, true); err != nil {
		s.fail(w, err)
		return
	}

	params := s.params
	if req.Viewport != nil {
		params.Viewport.Width, params.Viewport.Height = req.Viewport.Width, req.Viewport.Height
	}
	sess, err := session.New(params)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Add(r.Context(), sess); err != nil {
		if errors.Is(err, session.ErrFull) {
			w.Header().Set("Retry-After", "60")
			err = derrors.New(derrors.ErrCodeUnavailable, "%v", err)
		}
		s.fail(w, err)
		return
	}

	frame, err := frameJSON(sess)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.logWrite(httputil.WriteJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Frame: frame}))
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	q := r.URL.Query()
	format := sink.FormatJSON
	if v := q.Get("format"); v != "" {
		if format, err = sink.ParseFormat(v); err != nil {
			s.fail(w, err)
			return
		}
	}

	opts := s.base
	opts.Formats = []string{format}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err == nil {
			err = derrors.ValidatePositive(derrors.ErrCodeInvalidInput, "scale", scale)
		} else {
			err = derrors.Wrap(derrors.ErrCodeInvalidInput, err, "scale")
		}
		if err != nil {
			s.fail(w, err)
			return
		}
		opts.Scale = scale
	}

	frame, _ := sess.Frame()
	w.Header().Set("X-Frame-Seq", strconv.FormatUint(frame.Seq, 10))
	if format == sink.FormatJSON {
		data, err := sink.RenderJSON(frame)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.logWrite(httputil.WriteRaw(w, http.StatusOK, sink.ContentType(format), data))
		return
	}

	artifacts, err := s.runner.Render(r.Context(), frame, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logWrite(httputil.WriteRaw(w, http.StatusOK, sink.ContentType(format), artifacts[format]))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var steps []dio.Step
	if err := httputil.DecodeJSON(w, r, &steps, false); err != nil {
		s.fail(w, err)
		return
	}

	idx, applyErr := sess.ApplyAll(r.Context(), steps)
	frame, err := frameJSON(sess)
	if err != nil {
		s.fail(w, err)
		return
	}
	switch {
	case applyErr == nil:
		s.logWrite(httputil.WriteRaw(w, http.StatusOK, "application/json", frame))
	case derrors.Is(applyErr, derrors.ErrCodeInvalidEvent):
		s.logger.Debug("event rejected", "session", sess.ID, "index", idx, "err", applyErr)
		s.logWrite(httputil.WriteJSON(w, http.StatusUnprocessableEntity, rejectedResponse{
			Error: httputil.NewErrorBody(applyErr).Error,
			Index: idx,
			Frame: frame,
		}))
	default:
		s.fail(w, applyErr)
	}
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var vp dio.Viewport
	if err := httputil.DecodeJSON(w, r, &vp, false); err != nil {
		s.fail(w, err)
		return
	}
	if err := sess.Resize(vp.Width, vp.Height); err != nil {
		s.fail(w, err)
		return
	}
	frame, err := frameJSON(sess)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logWrite(httputil.WriteRaw(w, http.StatusOK, "application/json", frame))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(r.Context(), id) {
		s.fail(w, derrors.New(derrors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the {id} URL parameter.
func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
		return nil, derrors.New(derrors.ErrCodeSessionNotFound, "session %s %v", id, err)
	}
	return sess, err
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if httputil.StatusFor(err) == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.logWrite(httputil.WriteError(w, err))
}

// logWrite logs a failed response write; the client has usually gone away.
func (s *Server) logWrite(err error) {
	if err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func frameJSON(sess *session.Session) (json.RawMessage, error) {
	f, ok := sess.Frame()
	if !ok {
		return nil, derrors.New(derrors.ErrCodeInternal, "session %s has no frame", sess.ID)
	}
	data, err := sink.RenderJSON(f)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
