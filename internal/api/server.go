// Package api serves the placement pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/layouts                      place a chain, store and return the layout
//	GET    /v1/layouts                      list stored layouts, newest first
//	GET    /v1/layouts/{id}                 stored layout as JSON
//	DELETE /v1/layouts/{id}
//	GET    /v1/layouts/{id}/structure.nbt   structure file
//	GET    /v1/layouts/{id}/svg             Graphviz rendering
//	GET    /v1/layouts/{id}/png
//
// Placement boxes larger than Options.MaxVolume cells are rejected with
// INVALID_ARGUMENT before any search runs.
//
// Errors are JSON objects {"code": ..., "error": ...}. INVALID_* codes map to
// 400, NOT_FOUND to 404, NOT_ENOUGH_SPACE to 422 and everything else to 500.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cmdtower/pkg/config"
	"github.com/matzehuels/cmdtower/pkg/pipeline"
	"github.com/matzehuels/cmdtower/pkg/store"
)

// Options configures a Server.
type Options struct {
	// Defaults are applied to every request before request fields.
	Defaults pipeline.Options

	// MaxBodyBytes bounds request bodies. Zero selects 4 MiB.
	MaxBodyBytes int64

	// MaxVolume bounds the cells of a requested placement box; it overrides
	// Defaults.MaxVolume. Zero selects config.DefaultMaxVolume.
	MaxVolume int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New returns a server placing with runner and persisting to st.
func New(runner *pipeline.Runner, st store.Store, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 4 << 20
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.MaxVolume <= 0 {
		opts.MaxVolume = config.DefaultMaxVolume
	}
	opts.Defaults.MaxVolume = opts.MaxVolume
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		runner: runner,
		store:  st,
		opts:   opts,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreateLayout)
		r.Get("/", s.handleListLayouts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Delete("/", s.handleDeleteLayout)
			r.Get("/structure.nbt", s.handleExport(pipeline.FormatNBT))
			r.Get("/svg", s.handleExport(pipeline.FormatSVG))
			r.Get("/png", s.handleExport(pipeline.FormatPNG))
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
