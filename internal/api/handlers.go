// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
)

// Engine is the read side served by the API. *recommend.Engine implements it.
type Engine interface {
	MovieDetails(ctx context.Context, movieID int) *models.MovieWithStats
	PopularMovies(ctx context.Context, limit int) []recommend.Recommendation
	SearchMovies(ctx context.Context, query string, limit int) []models.MovieWithStats
	CollaborativeRecommendations(ctx context.Context, movieID, limit int) []recommend.Recommendation
	ContentBasedRecommendations(ctx context.Context, movieID, limit int) []recommend.Recommendation
	HybridRecommendations(ctx context.Context, movieID, limit int, w recommend.Weights) []recommend.Recommendation
	PersonalizedRecommendations(ctx context.Context, userID, limit int) []recommend.Recommendation
	UserProfile(ctx context.Context, userID int) *models.UserProfile
	Config() recommend.Config
	Stats() recommend.Stats
}

// Store is the database surface used directly by handlers.
// *database.DB implements it.
type Store interface {
	Ping(ctx context.Context) error
	Counts(ctx context.Context) (*database.DatasetCounts, error)
	ListGenres(ctx context.Context) ([]models.GenreCount, error)
	MovieExists(ctx context.Context, id int) (bool, error)
	UpsertRatings(ctx context.Context, ratings []models.Rating) (int, error)
	ListUserRatings(ctx context.Context, userID, limit, offset int) ([]models.UserRating, error)
}

// Precompute triggers and reports batch rebuilds.
// *precompute.Pipeline implements it.
type Precompute interface {
	Run(ctx context.Context, trigger string) (*storage.Run, error)
	Running() bool
	Last() *storage.Run
	Ledger() storage.Ledger
}

// Handler serves the CineRec API.
//
// Handler methods are split across files:
//   - handlers_health.go: health and liveness
//   - handlers_movies.go: movie detail, popular, search, genres
//   - handlers_recommend.go: movie and user recommendations, profiles
//   - handlers_ratings.go: rating ingestion and history
//   - handlers_admin.go: precompute trigger and run ledger
type Handler struct {
	engine     Engine
	store      Store
	precompute Precompute
	startTime  time.Time
	now        func() time.Time
}

// NewHandler creates a handler. precompute may be nil, in which case the
// admin endpoints answer 503.
func NewHandler(engine Engine, store Store, precompute Precompute) (*Handler, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	return &Handler{
		engine:     engine,
		store:      store,
		precompute: precompute,
		startTime:  time.Now(),
		now:        time.Now,
	}, nil
}
