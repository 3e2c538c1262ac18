// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/models"
)

// CollaborativeRecommendations returns the stored collaborative neighbors
// of movieID, highest similarity first.
func (e *Engine) CollaborativeRecommendations(ctx context.Context, movieID, limit int) []Recommendation {
	defer e.track("collaborative", time.Now())
	return e.similar(ctx, "collaborative", movieID, models.SimilarityCollaborative, e.cfg.clampLimit(limit))
}

// ContentBasedRecommendations returns the stored genre neighbors of
// movieID, highest similarity first.
func (e *Engine) ContentBasedRecommendations(ctx context.Context, movieID, limit int) []Recommendation {
	defer e.track("content", time.Now())
	return e.similar(ctx, "content", movieID, models.SimilarityContent, e.cfg.clampLimit(limit))
}

// HybridRecommendations blends both neighbor lists of movieID. Invalid
// weights are replaced by the configured defaults.
func (e *Engine) HybridRecommendations(ctx context.Context, movieID, limit int, w Weights) []Recommendation {
	defer e.track("hybrid", time.Now())

	if !w.Valid() {
		logger := logging.From(ctx, e.logger)
		logger.Debug().
			Float64("collaborative", w.Collaborative).
			Float64("content", w.Content).
			Msg("Invalid hybrid weights, using defaults")
		w = e.cfg.Weights
	}
	return e.hybrid(ctx, movieID, e.cfg.clampLimit(limit), w)
}

// similarKey identifies a cached neighbor list. The operation is not part
// of the key so hybrid and single-method calls share entries.
type similarKey struct {
	MovieID int                     `json:"movie_id"`
	Method  models.SimilarityMethod `json:"method"`
	Limit   int                     `json:"limit"`
}

func (e *Engine) similar(ctx context.Context, op string, movieID int, method models.SimilarityMethod, limit int) []Recommendation {
	key := cache.GenerateKey("similar", similarKey{MovieID: movieID, Method: method, Limit: limit})
	if recs, ok := e.cached(key); ok {
		return head(recs, len(recs))
	}

	neighbors, err := e.store.GetSimilarMovies(ctx, movieID, method, limit)
	if err != nil {
		e.storeFailed(ctx, op, err)
		return []Recommendation{}
	}

	label := MethodCollaborative
	if method == models.SimilarityContent {
		label = MethodContent
	}

	recs := make([]Recommendation, 0, len(neighbors))
	for i := range neighbors {
		rec := newRecommendation(&neighbors[i].MovieWithStats, label)
		s := neighbors[i].Score
		rec.SimilarityScore = &s
		recs = append(recs, rec)
	}
	// The store already orders by score; re-sorting keeps the tie rule
	// independent of the backend.
	sortByScore(recs, func(r *Recommendation) float64 { return score(r.SimilarityScore) })
	e.remember(key, recs)
	return head(recs, len(recs))
}

// hybrid fetches 2*limit neighbors per method and scores each movie as
// collab*wc + content*wt with a missing score counting as zero.
func (e *Engine) hybrid(ctx context.Context, movieID, limit int, w Weights) []Recommendation {
	fetch := limit * 2
	collab := e.similar(ctx, "hybrid", movieID, models.SimilarityCollaborative, fetch)
	content := e.similar(ctx, "hybrid", movieID, models.SimilarityContent, fetch)

	index := make(map[int]int, len(collab)+len(content))
	pool := make([]Recommendation, 0, len(collab)+len(content))

	add := func(src []Recommendation, collaborative bool) {
		for i := range src {
			s := score(src[i].SimilarityScore)
			pos, ok := index[src[i].MovieID]
			if !ok {
				rec := src[i]
				rec.Method = MethodHybrid
				rec.SimilarityScore = nil
				c, t := 0.0, 0.0
				rec.CollaborativeScore = &c
				rec.ContentScore = &t
				pos = len(pool)
				index[rec.MovieID] = pos
				pool = append(pool, rec)
			}
			if collaborative {
				*pool[pos].CollaborativeScore = s
			} else {
				*pool[pos].ContentScore = s
			}
		}
	}
	add(collab, true)
	add(content, false)

	for i := range pool {
		h := *pool[i].CollaborativeScore*w.Collaborative + *pool[i].ContentScore*w.Content
		pool[i].HybridScore = &h
	}
	sortByScore(pool, func(r *Recommendation) float64 { return score(r.HybridScore) })
	return head(pool, limit)
}
