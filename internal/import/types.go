// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package movielensimport

import (
	"time"
)

// Format is a MovieLens file layout.
type Format string

const (
	FormatCSV Format = "csv"
	FormatDAT Format = "dat"
)

// ImportStats holds statistics about an import operation.
type ImportStats struct {
	Format  Format `json:"format"`
	DataDir string `json:"data_dir"`

	MoviesImported int64 `json:"movies_imported"`
	MoviesSkipped  int64 `json:"movies_skipped"`

	// RatingsProcessed counts ratings lines read in this run, including
	// skipped ones. Lines before the resume point are not counted.
	RatingsProcessed int64 `json:"ratings_processed"`
	RatingsImported  int64 `json:"ratings_imported"`
	RatingsSkipped   int64 `json:"ratings_skipped"`

	// LastRatingLine is the last ratings data line (1-based, header
	// excluded) that was written.
	LastRatingLine int64 `json:"last_rating_line"`

	// ResumedFrom is the checkpoint line this run started after.
	ResumedFrom int64 `json:"resumed_from"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RatingsPerSecond returns the ratings import rate.
func (s *ImportStats) RatingsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.RatingsProcessed) / duration
}

// Checkpoint is the persisted resume point of a ratings import.
type Checkpoint struct {
	DataDir        string    `json:"data_dir"`
	Format         Format    `json:"format"`
	LastRatingLine int64     `json:"last_rating_line"`
	Completed      bool      `json:"completed"`
	UpdatedAt      time.Time `json:"updated_at"`
}
