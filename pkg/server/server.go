package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/observability"
	"github.com/matzehuels/driftgrid/pkg/pipeline"
	"github.com/matzehuels/driftgrid/pkg/session"
)

// Defaults for zero-valued Config fields.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCleanupInterval = time.Minute
)

// Config holds the listener and session settings.
type Config struct {
	Addr            string
	SessionTTL      time.Duration
	MaxSessions     int
	ShutdownTimeout time.Duration
	CleanupInterval time.Duration
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = session.DefaultTTL
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.CleanupInterval == 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
}

// Server is the HTTP API. Create it with New.
type Server struct {
	cfg    Config
	base   pipeline.Options
	params session.Params
	store  *session.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New validates base and returns a server whose sessions use its grid,
// effect model, initial viewport and inertia. base's Scale and NoLabels
// apply to rendered frames. A nil runner renders without a cache.
func New(cfg Config, base pipeline.Options, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if base.Logger == nil {
		base.Logger = logger
	}
	if err := base.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if cfg.MaxSessions < 0 {
		return nil, derrors.New(derrors.ErrCodeInvalidConfig, "max_sessions must not be negative, got %d", cfg.MaxSessions)
	}

	arena, err := grid.NewArena(base.Grid)
	if err != nil {
		return nil, err
	}
	params := base.SessionParams()
	params.Arena = arena

	s := &Server{
		cfg:    cfg,
		base:   base,
		params: params,
		store:  session.NewStore(cfg.SessionTTL, cfg.MaxSessions),
		runner: runner,
		logger: logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/frame", s.handleFrame)
			r.Post("/events", s.handleEvents)
			r.Put("/viewport", s.handleViewport)
			r.Delete("/", s.handleDelete)
		})
	})
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Store returns the session store.
func (s *Server) Store() *session.Store { return s.store }

// ListenAndServe serves until ctx is done, then shuts down gracefully within
// the configured timeout. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.store.Run(ctx, s.cfg.CleanupInterval)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr, "session_ttl", s.cfg.SessionTTL)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "sessions", s.store.Len())
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// observe reports every request to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.Server().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
