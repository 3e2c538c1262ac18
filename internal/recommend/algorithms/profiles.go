// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"sort"

	"github.com/tomtom215/cinerec/internal/models"
)

// BuildUserProfiles summarizes each user's ratings.
//
// For every rated movie, each of its genres gains 1 affinity regardless of
// the rating value. Variance is the population variance. Ratings of movies
// missing from the catalog still count toward the rating statistics.
// Output is ordered by user ID.
//
//nolint:gocritic // rangeValCopy: Rating is small
func BuildUserProfiles(ratings []models.Rating, movies []models.Movie) []models.UserProfile {
	genresByMovie := make(map[int][]string, len(movies))
	for i := range movies {
		var usable []string
		for _, g := range movies[i].Genres {
			if usableGenre(g) {
				usable = append(usable, g)
			}
		}
		genresByMovie[movies[i].ID] = usable
	}

	type acc struct {
		count  int
		mean   float64
		m2     float64
		genres map[string]int
	}
	byUser := make(map[int]*acc)

	for _, r := range ratings {
		a := byUser[r.UserID]
		if a == nil {
			a = &acc{genres: make(map[string]int)}
			byUser[r.UserID] = a
		}
		// Welford's online update.
		a.count++
		delta := r.Value - a.mean
		a.mean += delta / float64(a.count)
		a.m2 += delta * (r.Value - a.mean)

		for _, g := range genresByMovie[r.MovieID] {
			a.genres[g]++
		}
	}

	profiles := make([]models.UserProfile, 0, len(byUser))
	for userID, a := range byUser {
		fav := make([]models.GenreAffinity, 0, len(a.genres))
		for g, c := range a.genres {
			fav = append(fav, models.GenreAffinity{Genre: g, Count: c})
		}
		models.SortGenreAffinities(fav)

		profiles = append(profiles, models.UserProfile{
			UserID:         userID,
			FavoriteGenres: fav,
			AvgRating:      a.mean,
			RatingCount:    a.count,
			RatingVariance: a.m2 / float64(a.count),
		})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	return profiles
}
