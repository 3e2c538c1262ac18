// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"reflect"
	"testing"

	"github.com/tomtom215/cinerec/internal/models"
)

func TestBuildUserProfiles(t *testing.T) {
	t.Parallel()

	movies := []models.Movie{
		{ID: 1, Genres: []string{"Action", "Comedy"}},
		{ID: 2, Genres: []string{"Action"}},
		{ID: 3, Genres: []string{models.NoGenresListed}},
	}
	ratings := []models.Rating{
		rating(8, 99, 5),
		rating(7, 1, 4),
		rating(7, 2, 2),
		rating(7, 3, 3),
	}

	profiles := BuildUserProfiles(ratings, movies)
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}

	p := profiles[0]
	if p.UserID != 7 || p.RatingCount != 3 {
		t.Fatalf("first profile = %+v, want user 7 with 3 ratings", p)
	}
	if !approx(p.AvgRating, 3) {
		t.Errorf("AvgRating = %v, want 3", p.AvgRating)
	}
	if !approx(p.RatingVariance, 2.0/3.0) {
		t.Errorf("RatingVariance = %v, want population variance 2/3", p.RatingVariance)
	}
	wantGenres := []models.GenreAffinity{{Genre: "Action", Count: 2}, {Genre: "Comedy", Count: 1}}
	if !reflect.DeepEqual(p.FavoriteGenres, wantGenres) {
		t.Errorf("FavoriteGenres = %v, want %v", p.FavoriteGenres, wantGenres)
	}

	q := profiles[1]
	if q.UserID != 8 || q.RatingCount != 1 || q.RatingVariance != 0 || len(q.FavoriteGenres) != 0 {
		t.Errorf("second profile = %+v", q)
	}
}

func TestBuildUserProfilesAffinityIgnoresRatingValue(t *testing.T) {
	t.Parallel()

	movies := []models.Movie{{ID: 1, Genres: []string{"Horror"}}, {ID: 2, Genres: []string{"Horror"}}}
	profiles := BuildUserProfiles([]models.Rating{rating(1, 1, 0.5), rating(1, 2, 5)}, movies)
	if got := profiles[0].AffinityMap()["Horror"]; got != 2 {
		t.Errorf("Horror affinity = %d, want 2", got)
	}
}
