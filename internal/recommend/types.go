// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"

	"github.com/tomtom215/cinerec/internal/models"
)

// Method identifies how a recommendation was produced.
type Method string

const (
	MethodCollaborative Method = "collaborative_filtering"
	MethodContent       Method = "content_based"
	MethodHybrid        Method = "hybrid"
	MethodPopular       Method = "popular"
)

// Recommendation is one ranked movie. Score fields are set only when the
// producing method defines them.
type Recommendation struct {
	MovieID int      `json:"movie_id"`
	Title   string   `json:"title"`
	Year    *int     `json:"year"`
	Genres  []string `json:"genres"`

	// SimilarityScore is the stored edge score for single-method results.
	SimilarityScore *float64 `json:"similarity_score,omitempty"`

	// CollaborativeScore and ContentScore are the per-method inputs of a
	// hybrid score. A method that did not return the movie contributes 0.
	CollaborativeScore *float64 `json:"collaborative_score,omitempty"`
	ContentScore       *float64 `json:"content_score,omitempty"`

	HybridScore     *float64 `json:"hybrid_score,omitempty"`
	FinalScore      *float64 `json:"final_score,omitempty"`
	PopularityScore *float64 `json:"popularity_score,omitempty"`

	AverageRating *float64 `json:"average_rating"`
	RatingCount   *int     `json:"rating_count"`

	Method Method `json:"method"`
}

// Store is the read side of the database used by the engine.
// *database.DB implements it.
type Store interface {
	GetMovie(ctx context.Context, id int) (*models.MovieWithStats, error)
	ListPopularCandidates(ctx context.Context, minCount int) ([]models.MovieWithStats, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]models.MovieWithStats, error)
	GetSimilarMovies(ctx context.Context, movieID int, method models.SimilarityMethod, limit int) ([]models.SimilarMovie, error)
	GetUserProfile(ctx context.Context, userID int) (*models.UserProfileRecord, error)
	GetUserRatings(ctx context.Context, userID int) ([]models.Rating, error)
}

func newRecommendation(m *models.MovieWithStats, method Method) Recommendation {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return Recommendation{
		MovieID:       m.ID,
		Title:         m.Title,
		Year:          m.Year,
		Genres:        genres,
		AverageRating: m.AverageRating,
		RatingCount:   m.RatingCount,
		Method:        method,
	}
}

// score dereferences an optional score, treating nil as zero.
func score(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
