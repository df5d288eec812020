// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateBatch(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase validates the DuckDB configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0 (0 = use all CPUs)")
	}
	return nil
}

// validateServer validates the HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("HTTP_TIMEOUT must be at least 1s, got %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging, or production, got %q", c.Server.Environment)
	}
	return nil
}

// validateBatch validates the ranking batch scheduler configuration
func (c *Config) validateBatch() error {
	if !c.Batch.Enabled {
		return nil // Scheduler is optional, manual trigger endpoint still works
	}

	if c.Batch.CheckInterval < time.Second {
		return fmt.Errorf("BATCH_CHECK_INTERVAL must be at least 1s, got %s", c.Batch.CheckInterval)
	}
	if c.Batch.Hour < 0 || c.Batch.Hour > 23 {
		return fmt.Errorf("BATCH_HOUR must be between 0 and 23, got %d", c.Batch.Hour)
	}
	if c.Batch.ExecutionTimeout < time.Second {
		return fmt.Errorf("BATCH_EXEC_TIMEOUT must be at least 1s, got %s", c.Batch.ExecutionTimeout)
	}
	if _, err := time.LoadLocation(c.Batch.Timezone); err != nil {
		return fmt.Errorf("BATCH_TIMEZONE %q is not a valid IANA timezone: %w", c.Batch.Timezone, err)
	}
	return nil
}

// validateAPI validates pagination limits
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

// validateSecurity validates rate limiting configuration
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

// validateLogging validates the logging configuration
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is invalid (expected trace, debug, info, warn, error, fatal, panic, disabled)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT %q is invalid (expected json or console)", c.Logging.Format)
	}
	return nil
}

// BatchLocation returns the configured timezone location for period windows.
// Validate() guarantees the timezone parses, so errors here fall back to UTC.
func (c *Config) BatchLocation() *time.Location {
	loc, err := time.LoadLocation(c.Batch.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
