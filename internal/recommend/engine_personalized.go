// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/cinerec/internal/logging"
)

// PersonalizedRecommendations ranks movies for userID.
//
// Seeds are the user's SeedCount most recent ratings. Each seed
// contributes its top PerSeedLimit hybrid results; movies the user already
// rated are dropped and repeats keep their best hybrid score. The final
// score is hybrid * (1 + match/100), where match sums the profile counts
// of the candidate's genres.
//
// Users without a usable profile get exactly PopularMovies(limit). When
// no candidate survives, popular movies the user has not rated are
// returned instead.
func (e *Engine) PersonalizedRecommendations(ctx context.Context, userID, limit int) []Recommendation {
	defer e.track("personalized", time.Now())
	limit = e.cfg.clampLimit(limit)

	profile, reason := e.loadProfile(ctx, "personalized", userID)
	if profile == nil {
		e.fallback(ctx, "personalized", reason)
		return head(e.popularRanking(ctx), limit)
	}

	ratings, err := e.store.GetUserRatings(ctx, userID)
	if err != nil {
		e.storeFailed(ctx, "personalized", err)
		e.fallback(ctx, "personalized", "store_error")
		return head(e.popularRanking(ctx), limit)
	}

	rated := make(map[int]struct{}, len(ratings))
	for _, r := range ratings {
		rated[r.MovieID] = struct{}{}
	}

	// Ratings arrive most recent first, ties by movie ID ascending.
	seeds := ratings
	if len(seeds) > e.cfg.SeedCount {
		seeds = seeds[:e.cfg.SeedCount]
	}

	best := make(map[int]int)
	var pool []Recommendation
	for _, seed := range seeds {
		for _, rec := range e.hybrid(ctx, seed.MovieID, e.cfg.PerSeedLimit, e.cfg.Weights) {
			if _, seen := rated[rec.MovieID]; seen {
				continue
			}
			if pos, ok := best[rec.MovieID]; ok {
				if score(rec.HybridScore) > score(pool[pos].HybridScore) {
					pool[pos] = rec
				}
				continue
			}
			best[rec.MovieID] = len(pool)
			pool = append(pool, rec)
		}
	}

	if len(pool) == 0 {
		e.fallback(ctx, "personalized", "empty_pool")
		return e.popularExcluding(ctx, rated, limit)
	}

	affinity := profile.AffinityMap()
	for i := range pool {
		match := 0
		for _, g := range pool[i].Genres {
			match += affinity[g]
		}
		final := score(pool[i].HybridScore) * (1 + float64(match)/100)
		pool[i].FinalScore = &final
	}
	sortByScore(pool, func(r *Recommendation) float64 { return score(r.FinalScore) })

	logger := logging.From(ctx, e.logger)
	logger.Debug().
		Int("user_id", userID).
		Int("seeds", len(seeds)).
		Int("candidates", len(pool)).
		Msg("Personalized recommendations ranked")

	return head(pool, limit)
}

// popularExcluding returns the popular ranking without the given movies.
func (e *Engine) popularExcluding(ctx context.Context, exclude map[int]struct{}, limit int) []Recommendation {
	ranked := e.popularRanking(ctx)
	out := make([]Recommendation, 0, limit)
	for i := range ranked {
		if len(out) == limit {
			break
		}
		if _, skip := exclude[ranked[i].MovieID]; skip {
			continue
		}
		out = append(out, ranked[i])
	}
	return out
}
