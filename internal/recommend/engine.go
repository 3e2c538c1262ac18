// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
)

// Engine answers recommendation queries from precomputed tables.
// It is safe for concurrent use.
type Engine struct {
	cfg    *Config
	store  Store
	logger zerolog.Logger

	// results holds the popularity ranking and neighbor lists; nil when
	// caching is off.
	results *cache.Cache[[]Recommendation]

	requestCount atomic.Int64
	fallbacks    atomic.Int64
	storeErrors  atomic.Int64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests    int64        `json:"requests"`
	Fallbacks   int64        `json:"fallbacks"`
	StoreErrors int64        `json:"store_errors"`
	Cache       *cache.Stats `json:"cache,omitempty"`
}

// NewEngine creates an engine reading from store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store Store, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.CacheTTL > 0 {
		e.results = cache.New[[]Recommendation](cfg.CacheTTL, cfg.CacheCapacity)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.cfg
}

// InvalidateCache drops cached results. The precompute pipeline calls it
// after every run so new statistics are served immediately.
func (e *Engine) InvalidateCache() {
	if e.results != nil {
		e.results.Clear()
	}
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Requests:    e.requestCount.Load(),
		Fallbacks:   e.fallbacks.Load(),
		StoreErrors: e.storeErrors.Load(),
	}
	if e.results != nil {
		cs := e.results.Stats()
		s.Cache = &cs
	}
	return s
}

// MovieDetails returns a movie with its statistics, or nil when the movie
// does not exist or cannot be read. Stats fields are nil for a movie that
// has never been rated.
func (e *Engine) MovieDetails(ctx context.Context, movieID int) *models.MovieWithStats {
	defer e.track("movie_details", time.Now())

	m, err := e.store.GetMovie(ctx, movieID)
	if err != nil {
		e.storeFailed(ctx, "movie_details", err)
		return nil
	}
	return m
}

// PopularMovies returns the movies with more than PopularMinRatings
// ratings ranked by avg_rating * ln(rating_count + 1).
func (e *Engine) PopularMovies(ctx context.Context, limit int) []Recommendation {
	defer e.track("popular", time.Now())
	return head(e.popularRanking(ctx), e.cfg.clampLimit(limit))
}

// SearchMovies finds movies whose title or genres contain query, ignoring
// case. An empty query returns an empty list.
func (e *Engine) SearchMovies(ctx context.Context, query string, limit int) []models.MovieWithStats {
	defer e.track("search", time.Now())

	results, err := e.store.SearchMovies(ctx, query, e.cfg.clampLimit(limit))
	if err != nil {
		e.storeFailed(ctx, "search", err)
		return []models.MovieWithStats{}
	}
	return results
}

// UserProfile returns the decoded profile for userID, or nil when the user
// has none or the stored profile cannot be decoded.
func (e *Engine) UserProfile(ctx context.Context, userID int) *models.UserProfile {
	defer e.track("user_profile", time.Now())

	p, _ := e.loadProfile(ctx, "user_profile", userID)
	return p
}

// popularRanking returns the complete popularity ranking, cached.
func (e *Engine) popularRanking(ctx context.Context) []Recommendation {
	key := cache.GenerateKey("popular", e.cfg.PopularMinRatings)
	if ranked, ok := e.cached(key); ok {
		return ranked
	}

	candidates, err := e.store.ListPopularCandidates(ctx, e.cfg.PopularMinRatings)
	if err != nil {
		e.storeFailed(ctx, "popular", err)
		return []Recommendation{}
	}

	ranked := make([]Recommendation, 0, len(candidates))
	for i := range candidates {
		m := &candidates[i]
		if m.AverageRating == nil || m.RatingCount == nil {
			continue
		}
		rec := newRecommendation(m, MethodPopular)
		p := *m.AverageRating * math.Log(float64(*m.RatingCount)+1)
		rec.PopularityScore = &p
		ranked = append(ranked, rec)
	}
	sortByScore(ranked, func(r *Recommendation) float64 { return score(r.PopularityScore) })

	e.remember(key, ranked)
	return ranked
}

// cached returns the entry for key. Callers must copy before modifying.
func (e *Engine) cached(key string) ([]Recommendation, bool) {
	if e.results == nil {
		return nil, false
	}
	recs, ok := e.results.Get(key)
	metrics.RecordEngineCache(ok)
	return recs, ok
}

func (e *Engine) remember(key string, recs []Recommendation) {
	if e.results != nil {
		e.results.Set(key, recs)
	}
}

// loadProfile reads and decodes a profile. The reason is empty on success.
func (e *Engine) loadProfile(ctx context.Context, op string, userID int) (*models.UserProfile, string) {
	record, err := e.store.GetUserProfile(ctx, userID)
	if err != nil {
		e.storeFailed(ctx, op, err)
		return nil, "store_error"
	}
	if record == nil {
		return nil, "no_profile"
	}
	profile, err := record.Decode()
	if err != nil {
		logger := logging.From(ctx, e.logger)
		logger.Warn().
			Err(err).
			Int("user_id", userID).
			Msg("Ignoring malformed user profile")
		return nil, "malformed_profile"
	}
	return profile, ""
}

func (e *Engine) track(op string, start time.Time) {
	e.requestCount.Add(1)
	metrics.RecordEngineCall(op, time.Since(start))
}

func (e *Engine) fallback(ctx context.Context, op, reason string) {
	e.fallbacks.Add(1)
	metrics.RecordEngineFallback(op, reason)
	logger := logging.From(ctx, e.logger)
	logger.Debug().
		Str("operation", op).
		Str("reason", reason).
		Msg("Serving fallback recommendations")
}

func (e *Engine) storeFailed(ctx context.Context, op string, err error) {
	e.storeErrors.Add(1)
	metrics.RecordEngineStoreError(op)

	logger := logging.From(ctx, e.logger)
	event := logger.Error()
	if errors.Is(err, context.Canceled) {
		event = logger.Debug()
	}
	event.Err(err).Str("operation", op).Msg("Recommendation store query failed")
}

// sortByScore orders by key descending, ties by movie ID ascending.
func sortByScore(recs []Recommendation, key func(*Recommendation) float64) {
	sort.SliceStable(recs, func(i, j int) bool {
		ki, kj := key(&recs[i]), key(&recs[j])
		if ki != kj {
			return ki > kj
		}
		return recs[i].MovieID < recs[j].MovieID
	})
}

// head returns a copy of the first n entries.
func head(recs []Recommendation, n int) []Recommendation {
	if n > len(recs) {
		n = len(recs)
	}
	out := make([]Recommendation, n)
	copy(out, recs[:n])
	return out
}
