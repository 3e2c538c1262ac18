// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"math"
	"strings"
	"time"
)

// GenreDelimiter separates genre tags in the stored genre string.
const GenreDelimiter = "|"

// NoGenresListed is the MovieLens sentinel for a movie without genres.
// It never becomes part of the genre vocabulary.
const NoGenresListed = "(no genres listed)"

// Rating bounds. Values move in half-point steps.
const (
	MinRatingValue = 0.5
	MaxRatingValue = 5.0
)

// Movie is a catalog entry.
type Movie struct {
	// ID is the MovieLens movie identifier.
	ID int `json:"movie_id"`

	// Title is the display title with any trailing "(year)" removed.
	Title string `json:"title"`

	// Year is the release year when known.
	Year *int `json:"year,omitempty"`

	// Genres is the ordered list of genre tags. May be empty.
	Genres []string `json:"genres"`

	// Overview is an optional free-text synopsis.
	Overview string `json:"overview,omitempty"`

	// PosterPath is an optional poster reference set by enrichment.
	PosterPath string `json:"poster_path,omitempty"`
}

// GenreString joins the genres with GenreDelimiter for storage.
func (m *Movie) GenreString() string {
	return JoinGenres(m.Genres)
}

// Rating is a single user rating. There is at most one per (UserID, MovieID).
type Rating struct {
	UserID  int       `json:"user_id"`
	MovieID int       `json:"movie_id"`
	Value   float64   `json:"rating"`
	RatedAt time.Time `json:"timestamp"`
}

// UserRating is one entry of a user's rating history with the rated
// movie's catalog fields.
type UserRating struct {
	Movie
	Rating  float64   `json:"rating"`
	RatedAt time.Time `json:"timestamp"`
}

// MovieStats is the aggregate of all ratings for one movie.
type MovieStats struct {
	MovieID int `json:"movie_id"`

	// AverageRating is nil when RatingCount is zero.
	AverageRating *float64 `json:"average_rating"`

	RatingCount int `json:"rating_count"`
}

// MovieWithStats is a movie joined with its current statistics.
// Both stats fields are nil when the movie has never been rated.
type MovieWithStats struct {
	Movie
	AverageRating *float64 `json:"average_rating"`
	RatingCount   *int     `json:"rating_count"`
}

// Count returns the rating count, treating missing stats as zero.
func (m *MovieWithStats) Count() int {
	if m.RatingCount == nil {
		return 0
	}
	return *m.RatingCount
}

// GenreCount is a genre with the number of movies carrying it.
type GenreCount struct {
	Genre      string `json:"genre"`
	MovieCount int    `json:"movie_count"`
}

// SplitGenres parses a delimited genre string into trimmed, non-empty tags,
// preserving order and dropping repeats.
func SplitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, GenreDelimiter)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// JoinGenres is the inverse of SplitGenres.
func JoinGenres(genres []string) string {
	return strings.Join(genres, GenreDelimiter)
}

// ValidRatingValue reports whether v is within bounds and on a half step.
func ValidRatingValue(v float64) bool {
	if v < MinRatingValue || v > MaxRatingValue {
		return false
	}
	doubled := v * 2
	return math.Abs(doubled-math.Round(doubled)) < 1e-9
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
