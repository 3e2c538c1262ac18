// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/recommend/precompute"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
)

// PrecomputeRunner is satisfied by *precompute.Pipeline.
type PrecomputeRunner interface {
	Run(ctx context.Context, trigger string) (*storage.Run, error)
}

// PrecomputeServiceConfig controls the schedule.
type PrecomputeServiceConfig struct {
	// RunOnStartup triggers a run as soon as the service starts.
	RunOnStartup bool

	// Interval between scheduled runs. Non-positive uses 24h.
	Interval time.Duration
}

// PrecomputeService triggers precompute runs on startup and on a schedule.
// A failed run is logged and retried at the next tick; it never stops the
// service.
type PrecomputeService struct {
	runner PrecomputeRunner
	config PrecomputeServiceConfig
	logger zerolog.Logger
}

// NewPrecomputeService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPrecomputeService(runner PrecomputeRunner, cfg PrecomputeServiceConfig, logger zerolog.Logger) *PrecomputeService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &PrecomputeService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "precompute").Logger(),
	}
}

// Serve implements suture.Service.
func (s *PrecomputeService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Precompute service starting")

	if s.config.RunOnStartup {
		s.run(ctx, "startup")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Precompute service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, "schedule")
		}
	}
}

func (s *PrecomputeService) run(ctx context.Context, trigger string) {
	_, err := s.runner.Run(ctx, trigger)
	switch {
	case err == nil:
	case errors.Is(err, precompute.ErrRunInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("Precompute run skipped, another run is in progress")
	case ctx.Err() != nil:
		s.logger.Info().Str("trigger", trigger).Msg("Precompute run interrupted by shutdown")
	default:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("Precompute run failed, will retry on schedule")
	}
}

// String implements fmt.Stringer for suture logs.
func (s *PrecomputeService) String() string {
	return "precompute-service"
}
