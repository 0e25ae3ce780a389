// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/core/batch"
	"github.com/taibuivan/courtdesk/internal/core/decisiontype"
	"github.com/taibuivan/courtdesk/internal/core/legalcase"
	"github.com/taibuivan/courtdesk/internal/core/notification"
	"github.com/taibuivan/courtdesk/internal/core/relationship"
	"github.com/taibuivan/courtdesk/internal/platform/config"
	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/middleware"
	"github.com/taibuivan/courtdesk/internal/session"
	"github.com/taibuivan/courtdesk/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it answers 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles sign-in, sign-out and the current profile.
	Auth *auth.Handler

	LegalCase    *legalcase.Handler
	Batch        *batch.Handler
	Relationship *relationship.Handler
	DecisionType *decisiontype.Handler
	Notification *notification.Handler

	// Audit is nil when no database is configured.
	Audit *audit.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. Every route except auth and the probes requires
// a session.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, browsers *session.BrowserSessions, h Handlers) *Server {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(limiter.Handler)
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(guarded chi.Router) {
			guarded.Use(middleware.RequireSession(browsers, cfg.LoginPath))

			guarded.Route("/legal-cases", h.LegalCase.RegisterRoutes)
			guarded.Route("/batches", h.Batch.RegisterRoutes)
			guarded.Route("/legal-relationships", h.Relationship.RegisterRoutes)
			guarded.Route("/decision-types", h.DecisionType.RegisterRoutes)
			guarded.Route("/notifications", h.Notification.RegisterRoutes)

			if h.Audit != nil {
				guarded.Route("/audit", h.Audit.RegisterRoutes)
			}
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
