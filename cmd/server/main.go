// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package main is the entry point for the Chantier API server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load from defaults, config.yaml and environment (Koanf v2)
//  2. Logging: zerolog, JSON in production and console in development
//  3. Database: DuckDB with the projects/tasks/comments schema
//  4. Auth: JWT manager, BadgerDB token revocation store, login throttle
//  5. Authorization: Casbin route gate for the admin surface
//  6. Supervisor tree: maintenance layer plus the HTTP server
//
// Shutdown is graceful on SIGINT and SIGTERM: the server stops accepting
// connections, drains in-flight requests up to server.timeout, then closes
// the revocation store and the database.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chantierhq/chantier/internal/api"
	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/authz"
	"github.com/chantierhq/chantier/internal/config"
	"github.com/chantierhq/chantier/internal/database"
	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Chantier")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	revocation, err := auth.NewRevocationStore(cfg.Security.RevocationStorePath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open token revocation store")
	}
	defer func() {
		if err := revocation.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	throttle := auth.NewLoginThrottle(&cfg.Security)

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize route policy enforcer")
	}

	handler := api.NewHandler(db, cfg, jwtManager, revocation, throttle)
	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		auth.NewMiddleware(jwtManager, revocation),
		enforcer,
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.Timeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	maintenanceLogger := logging.Logger()
	tree.AddMaintenanceService(supervisor.NewMaintenanceService(
		revocation,
		throttle,
		10*time.Minute,
		cfg.Security.LockoutDuration*4,
		&maintenanceLogger,
	))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Chantier stopped gracefully")
}
