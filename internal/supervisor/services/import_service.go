// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"fmt"

	movielensimport "github.com/tomtom215/cinerec/internal/import"
	"github.com/tomtom215/cinerec/internal/logging"
)

// Importer is satisfied by *movielensimport.Importer.
type Importer interface {
	Import(ctx context.Context) (*movielensimport.ImportStats, error)
	IsRunning() bool
	Stop() error
}

// ImportService runs one MovieLens import when it starts, calls onDone
// after a successful import, then idles until shutdown. A failed import
// is returned so the supervisor restarts the service; the restarted
// import resumes from its checkpoint.
type ImportService struct {
	importer Importer
	onDone   func(ctx context.Context)
	done     bool
}

// NewImportService creates the service. onDone may be nil.
func NewImportService(importer Importer, onDone func(ctx context.Context)) *ImportService {
	return &ImportService{importer: importer, onDone: onDone}
}

// Serve implements suture.Service.
func (s *ImportService) Serve(ctx context.Context) error {
	if !s.done {
		stats, err := s.importer.Import(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logging.Info().Msg("Import canceled due to shutdown")
				return ctx.Err()
			}
			return fmt.Errorf("import failed: %w", err)
		}
		s.done = true
		logging.Info().
			Int64("movies", stats.MoviesImported).
			Int64("ratings", stats.RatingsImported).
			Msg("Startup import finished")

		if s.onDone != nil {
			s.onDone(ctx)
		}
	}

	<-ctx.Done()
	if s.importer.IsRunning() {
		if err := s.importer.Stop(); err != nil {
			logging.Warn().Err(err).Msg("Failed to stop import")
		}
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logs.
func (s *ImportService) String() string {
	return "movielens-import"
}
