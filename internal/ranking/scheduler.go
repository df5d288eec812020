// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// SchedulerConfig holds configuration for the daily batch scheduler.
type SchedulerConfig struct {
	// CheckInterval is how often to check whether the daily run is due
	CheckInterval time.Duration

	// Hour is the local hour (0-23) after which the daily run fires
	Hour int

	// Location is the batch timezone for run dates and the firing hour
	Location *time.Location

	// ExecutionTimeout bounds one full pipeline execution
	ExecutionTimeout time.Duration

	// Enabled controls whether the scheduler is active
	Enabled bool
}

// DefaultSchedulerConfig returns the default scheduler configuration.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CheckInterval:    time.Minute,
		Hour:             0,
		Location:         time.UTC,
		ExecutionTimeout: 10 * time.Minute,
		Enabled:          true,
	}
}

// Scheduler fires the ranking pipeline once per calendar day after the
// configured hour. The pipeline's duplicate-run guard is the authoritative
// once-per-day check; the scheduler's lastRunDate only avoids redundant
// store round trips between ticks.
type Scheduler struct {
	pipeline *Pipeline
	logger   zerolog.Logger
	config   SchedulerConfig

	mu          sync.Mutex
	running     bool
	lastRunDate string
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewScheduler creates a batch scheduler around a pipeline.
func NewScheduler(pipeline *Pipeline, logger *zerolog.Logger, config SchedulerConfig) *Scheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.ExecutionTimeout <= 0 {
		config.ExecutionTimeout = 10 * time.Minute
	}
	if config.Hour < 0 || config.Hour > 23 {
		config.Hour = 0
	}

	return &Scheduler{
		pipeline: pipeline,
		logger:   logger.With().Str("component", "ranking-scheduler").Logger(),
		config:   config,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info().Msg("Ranking scheduler disabled")
		go func() {
			defer close(s.doneCh)
			<-s.stopCh
		}()
		return nil
	}

	s.logger.Info().
		Dur("check_interval", s.config.CheckInterval).
		Int("hour", s.config.Hour).
		Str("timezone", s.config.Location.String()).
		Msg("Starting ranking scheduler")

	go s.run(ctx)
	return nil
}

// Stop stops the scheduler loop and waits for it to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping ranking scheduler...")
	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("Ranking scheduler stopped")
	return nil
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	// Check immediately on start so a restart after the firing hour still
	// produces the day's snapshots
	s.checkAndExecute(ctx)

	for {
		select {
		case <-ticker.C:
			s.checkAndExecute(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// checkAndExecute fires the pipeline if the daily run is due.
func (s *Scheduler) checkAndExecute(ctx context.Context) {
	now := time.Now().In(s.config.Location)
	if now.Hour() < s.config.Hour {
		return
	}

	today := now.Format("2006-01-02")
	s.mu.Lock()
	alreadyRan := s.lastRunDate == today
	s.mu.Unlock()
	if alreadyRan {
		return
	}

	execCtx, cancel := context.WithTimeout(ctx, s.config.ExecutionTimeout)
	defer cancel()

	start := time.Now()
	results := s.pipeline.RunAll(execCtx, now)

	completed, skipped, failed := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case models.RunStatusCompleted:
			completed++
		case models.RunStatusFailed:
			failed++
		default:
			skipped++
		}
	}

	s.logger.Info().
		Int("completed", completed).
		Int("skipped", skipped).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Daily ranking batch finished")

	// Only mark the day done when nothing failed, so the next tick retries
	if failed == 0 {
		s.mu.Lock()
		s.lastRunDate = today
		s.mu.Unlock()
	}
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
