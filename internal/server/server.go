// Package server implements the crossfeed HTTP API.
//
// The API exposes the exchange pipeline over REST: graphs are built from
// posted exchange tables, persisted in a store, and rendered on demand
// with per-request focus and seed parameters.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/microbeflow/crossfeed/pkg/observability"
	"github.com/microbeflow/crossfeed/pkg/pipeline"
	"github.com/microbeflow/crossfeed/pkg/store"
)

// Server wires the pipeline runner and the graph store into an HTTP
// handler.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil store falls back to an in-memory store,
// and a nil logger to the default logger.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/graphs", s.handleCreateGraph)
		r.Get("/graphs", s.handleListGraphs)
		r.Get("/graphs/{id}", s.handleGetGraph)
		r.Delete("/graphs/{id}", s.handleDeleteGraph)
		r.Get("/graphs/{id}/render", s.handleRenderGraph)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until the context is canceled, then shuts down
// gracefully with a short drain window.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests emits one log line and one observability event per
// request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
