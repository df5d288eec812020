// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package services

import (
	"context"
	"fmt"
)

// SchedulerManager matches the ranking scheduler's Start/Stop lifecycle.
// Satisfied by *ranking.Scheduler.
type SchedulerManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService wraps the ranking batch scheduler as a supervised
// service. Start spawns the scheduler's internal loop; the wrapper then
// blocks on the context and stops the scheduler when supervision ends.
type SchedulerService struct {
	manager SchedulerManager
	name    string
}

// NewSchedulerService creates a scheduler service wrapper.
func NewSchedulerService(manager SchedulerManager) *SchedulerService {
	return &SchedulerService{
		manager: manager,
		name:    "ranking-scheduler",
	}
}

// Serve implements suture.Service. A Start failure returns immediately so
// suture restarts the service under its backoff policy.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("ranking scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("ranking scheduler stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for suture's log messages.
func (s *SchedulerService) String() string {
	return s.name
}
