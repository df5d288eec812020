// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables
// and config files.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Database: DuckDB configuration (path, memory, threads)
//     - Server: HTTP server configuration (port, host, timeout)
//
//  2. Ranking:
//     - Batch: Periodic popularity ranking batch job settings
//     - API: Pagination limits for leaderboard queries
//
//  3. Security & Observability:
//     - Security: Rate limiting and CORS
//     - Logging: Log levels and output formats
//
// Example - Load configuration from environment:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Database.Path, cfg.Batch.Hour, etc. are now populated
//
// Thread Safety:
// Config is immutable after LoadWithKoanf() and safe for concurrent read access.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Batch    BatchConfig    `koanf:"batch"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedSampleData         bool   `koanf:"seed_sample_data"`         // Seed demo users/books/reviews for local development
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip index creation (for fast test setup)
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // Environment mode: "development", "staging", "production"
}

// BatchConfig holds the periodic popularity ranking batch job settings.
//
// The scheduler ticks every CheckInterval and fires the ranking pipeline once
// per day when the local time in Timezone passes Hour. Runs that already
// completed for the day are skipped by the run guard, so a conservative
// CheckInterval only delays the first attempt, never duplicates work.
//
// Environment Variables:
//   - BATCH_ENABLED: Enable the ranking scheduler (default: true)
//   - BATCH_CHECK_INTERVAL: How often to check whether a run is due (default: 1m)
//   - BATCH_HOUR: Local hour of day after which the daily run fires (default: 0)
//   - BATCH_TIMEZONE: IANA timezone for period windows and scheduling (default: Asia/Seoul)
//   - BATCH_EXEC_TIMEOUT: Max wall time for a full pipeline run (default: 10m)
type BatchConfig struct {
	Enabled          bool          `koanf:"enabled"`
	CheckInterval    time.Duration `koanf:"check_interval"`
	Hour             int           `koanf:"hour"`
	Timezone         string        `koanf:"timezone"`
	ExecutionTimeout time.Duration `koanf:"execution_timeout"`
}

// APIConfig holds API pagination and response settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	// Console is human-readable for development.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Adds slight performance overhead.
	// Default: false
	Caller bool `koanf:"caller"`
}
