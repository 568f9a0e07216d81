// Package server exposes a family store over HTTP: rendered diagrams,
// record CRUD, and import/export. All mutation endpoints rebuild the
// store's indices before the next render, so a reload after any edit
// reflects the new structure.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/pipeline"
	"github.com/kintree/kintree/pkg/render/tree/layout"
)

// RenderDefaults are server-side render settings applied to requests
// that do not override them via query parameters. Nil pointer fields
// keep the built-in behavior.
type RenderDefaults struct {
	Style       string
	Scale       float64
	Metrics     layout.Metrics
	Interactive *bool
	Popups      *bool
}

// Server serves one family record store.
type Server struct {
	mu       sync.RWMutex
	tree     *family.Tree
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults RenderDefaults
}

// Option configures a Server.
type Option func(*Server)

// WithRenderDefaults sets the render settings used when a request
// does not specify its own.
func WithRenderDefaults(d RenderDefaults) Option {
	return func(s *Server) { s.defaults = d }
}

// New creates a server around the given store and pipeline runner.
func New(t *family.Tree, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		tree:   t,
		runner: runner,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/tree.svg", s.handleRender(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/tree.png", s.handleRender(pipeline.FormatPNG, "image/png"))
	r.Get("/tree.json", s.handleRender(pipeline.FormatJSON, "application/json"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/people", s.handleListPeople)
		r.Post("/people", s.handleAddPerson)
		r.Put("/people/{id}", s.handleEditPerson)
		r.Delete("/people/{id}", s.handleDeletePerson)
		r.Post("/people/{id}/partner/{other}", s.handleSetPartner)
		r.Delete("/people/{id}/partner", s.handleClearPartner)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs one line per request with the structured logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// snapshot returns a consistent copy of the records for rendering.
func (s *Server) snapshot() *family.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return family.New(s.tree.Records())
}
