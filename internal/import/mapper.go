// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package movielensimport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
)

// errMalformed marks a row that is skipped rather than failing the import.
var errMalformed = errors.New("malformed record")

// yearSuffix matches a trailing "(1995)" release year.
var yearSuffix = regexp.MustCompile(`^(.*\S)\s*\((\d{4})\)\s*$`)

// ParseTitle splits a MovieLens title into the display title and the
// release year. Titles without a trailing year are returned trimmed with
// a nil year.
func ParseTitle(raw string) (string, *int) {
	raw = strings.TrimSpace(raw)
	m := yearSuffix.FindStringSubmatch(raw)
	if m == nil {
		return raw, nil
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return raw, nil
	}
	return strings.TrimSpace(m[1]), &year
}

// toMovie maps movieId, title, genres.
func toMovie(fields []string) (models.Movie, error) {
	if len(fields) != 3 {
		return models.Movie{}, fmt.Errorf("%w: expected 3 fields, got %d", errMalformed, len(fields))
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || id <= 0 {
		return models.Movie{}, fmt.Errorf("%w: invalid movie id %q", errMalformed, fields[0])
	}
	title, year := ParseTitle(fields[1])
	if title == "" {
		return models.Movie{}, fmt.Errorf("%w: movie %d has no title", errMalformed, id)
	}
	return models.Movie{
		ID:     id,
		Title:  title,
		Year:   year,
		Genres: models.SplitGenres(fields[2]),
	}, nil
}

// toRating maps userId, movieId, rating, timestamp (Unix seconds).
func toRating(fields []string) (models.Rating, error) {
	if len(fields) != 4 {
		return models.Rating{}, fmt.Errorf("%w: expected 4 fields, got %d", errMalformed, len(fields))
	}
	user, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || user <= 0 {
		return models.Rating{}, fmt.Errorf("%w: invalid user id %q", errMalformed, fields[0])
	}
	movie, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || movie <= 0 {
		return models.Rating{}, fmt.Errorf("%w: invalid movie id %q", errMalformed, fields[1])
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil || !models.ValidRatingValue(value) {
		return models.Rating{}, fmt.Errorf("%w: invalid rating %q", errMalformed, fields[2])
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil || ts < 0 {
		return models.Rating{}, fmt.Errorf("%w: invalid timestamp %q", errMalformed, fields[3])
	}
	return models.Rating{
		UserID:  user,
		MovieID: movie,
		Value:   value,
		RatedAt: time.Unix(ts, 0).UTC(),
	}, nil
}
