// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"testing"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
)

func rating(user, movie int, value float64) models.Rating {
	return models.Rating{UserID: user, MovieID: movie, Value: value, RatedAt: time.Unix(1_700_000_000, 0)}
}

func TestAggregateMovieStats(t *testing.T) {
	t.Parallel()

	stats := AggregateMovieStats([]models.Rating{
		rating(1, 2, 3),
		rating(1, 1, 4),
		rating(2, 1, 5),
	})

	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2 (unrated movies omitted)", len(stats))
	}
	if stats[0].MovieID != 1 || stats[1].MovieID != 2 {
		t.Fatalf("stats not ordered by movie id: %+v", stats)
	}
	if stats[0].RatingCount != 2 || *stats[0].AverageRating != 4.5 {
		t.Errorf("movie 1 = count %d avg %v, want 2 / 4.5", stats[0].RatingCount, *stats[0].AverageRating)
	}
	if stats[1].RatingCount != 1 || *stats[1].AverageRating != 3 {
		t.Errorf("movie 2 = count %d avg %v, want 1 / 3", stats[1].RatingCount, *stats[1].AverageRating)
	}
}

func TestAggregateMovieStatsNeverZeroCount(t *testing.T) {
	t.Parallel()

	if got := AggregateMovieStats(nil); len(got) != 0 {
		t.Fatalf("empty input produced %d stats", len(got))
	}
	for _, s := range AggregateMovieStats([]models.Rating{rating(1, 1, 0.5)}) {
		if s.RatingCount == 0 || s.AverageRating == nil {
			t.Errorf("invalid stats record %+v", s)
		}
	}
}
