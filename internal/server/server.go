// Package server implements the Golden Path HTTP API server.
package server

import (
	"context"
	"expvar"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goldenpath-systems/goldenpath/internal/server/handlers"
)

// Server is the Golden Path HTTP API server.
type Server struct {
	handlers *handlers.Handlers
	router   chi.Router
	addr     string
	logger   *slog.Logger
	srv      *http.Server
}

// New creates a new HTTP server.
func New(addr string, h *handlers.Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		handlers: h,
		addr:     addr,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s.router = r
	s.registerRoutes(r)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.logger.Info("golden path server listening", "addr", s.addr)
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Get("/health", s.handlers.Health)
		r.Get("/requirements", s.handlers.ListRequirements)
		r.Get("/breakers", s.handlers.ListBreakers)
		r.Get("/dependencies", s.handlers.Dependencies)

		r.With(MaxBodyMiddleware(1<<20)).Post("/validate", s.handlers.Validate)
	})

	// Counter inspection for operators.
	r.Method(http.MethodGet, "/debug/vars", expvar.Handler())
}
