// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Courtdesk console server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis (browser sessions).
//  4. Connect to PostgreSQL and run migrations when auditing is enabled.
//  5. Wire the case-management API client and session binding.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/courtdesk/internal/api"
	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/core/batch"
	"github.com/taibuivan/courtdesk/internal/core/decisiontype"
	"github.com/taibuivan/courtdesk/internal/core/legalcase"
	"github.com/taibuivan/courtdesk/internal/core/notification"
	"github.com/taibuivan/courtdesk/internal/core/relationship"
	"github.com/taibuivan/courtdesk/internal/platform/config"
	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/migration"
	pgstore "github.com/taibuivan/courtdesk/internal/platform/postgres"
	redisstore "github.com/taibuivan/courtdesk/internal/platform/redis"
	"github.com/taibuivan/courtdesk/internal/session"
	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("upstream", cfg.UpstreamURL),
		slog.Bool("audit", cfg.AuditEnabled()),
	)

	if cfg.IsProduction() && !cfg.CookieSecure {
		log.Warn("insecure_session_cookie", slog.String("hint", "set COOKIE_SECURE=true behind TLS"))
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Audit trail ────────────────────────────────────────────────────
	var (
		pool         *pgxpool.Pool
		recorder     audit.Recorder = audit.NopRecorder{}
		auditHandler *audit.Handler
	)
	if cfg.AuditEnabled() {
		pool, err = pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		auditService := audit.NewService(audit.NewPostgresRepository(pool), log)
		recorder = auditService
		auditHandler = audit.NewHandler(auditService)
	}

	// ── 5. Upstream & Sessions ────────────────────────────────────────────
	client := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, log)
	browsers := session.NewBrowserSessions(
		upstream.NewAuthClient(client),
		func(sessionID string) session.Storage {
			return session.NewRedisStorage(rdb, sessionID, cfg.SessionTTL)
		},
		log,
		session.CookieOptions{Name: cfg.SessionCookieName, TTL: cfg.SessionTTL, Secure: cfg.CookieSecure},
	)

	// ── 6. Health handlers ────────────────────────────────────────────────
	dependencies := api.HealthDependencies{
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		CheckUpstream: client.Ping,
	}
	if pool != nil {
		dependencies.CheckDatabase = func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}
	}
	liveness, readiness := api.NewHealthHandlers(dependencies, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(auth.NewService(recorder, log), browsers, cfg.LoginPath),
		LegalCase:    legalcase.NewHandler(legalcase.NewService(legalcase.NewUpstreamRepository(client), recorder, log)),
		Batch:        batch.NewHandler(batch.NewService(batch.NewUpstreamRepository(client), recorder, log)),
		Relationship: relationship.NewHandler(relationship.NewService(relationship.NewUpstreamRepository(client), recorder, log)),
		DecisionType: decisiontype.NewHandler(decisiontype.NewService(decisiontype.NewUpstreamRepository(client), recorder, log)),
		Notification: notification.NewHandler(notification.NewService(notification.NewUpstreamRepository(client), recorder, log)),
		Audit:        auditHandler,
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, browsers, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
