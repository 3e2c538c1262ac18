// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"sort"

	"github.com/tomtom215/cinerec/internal/models"
)

// AggregateMovieStats computes the arithmetic mean and count of ratings per
// movie. Movies without ratings produce no record. Output is ordered by
// movie ID.
//
//nolint:gocritic // rangeValCopy: Rating is small
func AggregateMovieStats(ratings []models.Rating) []models.MovieStats {
	type acc struct {
		sum   float64
		count int
	}
	byMovie := make(map[int]*acc)
	for _, r := range ratings {
		a := byMovie[r.MovieID]
		if a == nil {
			a = &acc{}
			byMovie[r.MovieID] = a
		}
		a.sum += r.Value
		a.count++
	}

	out := make([]models.MovieStats, 0, len(byMovie))
	for id, a := range byMovie {
		out = append(out, models.MovieStats{
			MovieID:       id,
			AverageRating: models.Float64Ptr(a.sum / float64(a.count)),
			RatingCount:   a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out
}
