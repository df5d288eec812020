// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

// Package main is the entry point for the Deokhugam ranking engine.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, and env vars (Koanf v2)
//  2. Database: DuckDB with the catalog, activity, and snapshot schema
//  3. Ranking pipeline: period windows, weighted scoring, snapshot commits
//  4. Batch scheduler: fires the pipeline once per day after the configured hour
//  5. HTTP server: leaderboard and catalog read API plus the manual batch trigger
//
// The scheduler and HTTP server run under a suture supervisor tree so a
// crashing batch loop never takes the read endpoints down with it.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// new connections, drains in-flight requests, stops the scheduler, and closes
// the database with a final checkpoint.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/api"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/config"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/logging"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/ranking"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/supervisor"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("timezone", cfg.Batch.Timezone).
		Bool("batch_enabled", cfg.Batch.Enabled).
		Msg("Starting Deokhugam ranking engine")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.Logger()
	pipeline := ranking.NewPipeline(db, cfg.BatchLocation(), &logger)

	scheduler := ranking.NewScheduler(pipeline, &logger, ranking.SchedulerConfig{
		CheckInterval:    cfg.Batch.CheckInterval,
		Hour:             cfg.Batch.Hour,
		Location:         cfg.BatchLocation(),
		ExecutionTimeout: cfg.Batch.ExecutionTimeout,
		Enabled:          cfg.Batch.Enabled,
	})

	handlers := api.NewHandlers(db, pipeline, cfg)
	router := api.NewRouter(cfg, handlers)
	server := router.NewServer()

	// Bridge zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddBatchService(services.NewSchedulerService(scheduler))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

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

	// Drain until the supervisor closes the channel
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
