// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// GenreAffinity is the number of rated movies carrying Genre.
type GenreAffinity struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// UserProfile summarizes one user's rating history.
type UserProfile struct {
	UserID int `json:"user_id"`

	// FavoriteGenres is ordered by Count descending, then Genre ascending.
	// Consumers should use AffinityMap for lookups.
	FavoriteGenres []GenreAffinity `json:"favorite_genres"`

	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`

	// RatingVariance is the population variance of the user's ratings.
	RatingVariance float64 `json:"rating_variance"`
}

// AffinityMap returns genre -> count.
func (p *UserProfile) AffinityMap() map[string]int {
	m := make(map[string]int, len(p.FavoriteGenres))
	for _, g := range p.FavoriteGenres {
		m[g.Genre] += g.Count
	}
	return m
}

// UserProfileRecord is a profile as persisted, with the genre affinities
// still in their encoded JSON form.
type UserProfileRecord struct {
	UserID         int
	FavoriteGenres string
	AvgRating      float64
	RatingCount    int
	RatingVariance float64
}

// Decode parses the stored affinities into a UserProfile.
func (r *UserProfileRecord) Decode() (*UserProfile, error) {
	genres, err := DecodeGenreAffinities(r.FavoriteGenres)
	if err != nil {
		return nil, err
	}
	return &UserProfile{
		UserID:         r.UserID,
		FavoriteGenres: genres,
		AvgRating:      r.AvgRating,
		RatingCount:    r.RatingCount,
		RatingVariance: r.RatingVariance,
	}, nil
}

// SortGenreAffinities orders by count descending then genre ascending.
func SortGenreAffinities(a []GenreAffinity) {
	sort.Slice(a, func(i, j int) bool {
		if a[i].Count != a[j].Count {
			return a[i].Count > a[j].Count
		}
		return a[i].Genre < a[j].Genre
	})
}

// EncodeGenreAffinities renders affinities as a JSON array.
func EncodeGenreAffinities(a []GenreAffinity) (string, error) {
	if a == nil {
		a = []GenreAffinity{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode genre affinities: %w", err)
	}
	return string(b), nil
}

// DecodeGenreAffinities parses stored affinities. It accepts the array form
// written by EncodeGenreAffinities and the older object form
// {"Drama": 3, ...}. Negative counts are rejected.
func DecodeGenreAffinities(s string) ([]GenreAffinity, error) {
	data := bytes.TrimSpace([]byte(s))
	if len(data) == 0 {
		return nil, fmt.Errorf("decode genre affinities: empty value")
	}

	var out []GenreAffinity
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode genre affinities: %w", err)
		}
	case '{':
		var m map[string]int
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode genre affinities: %w", err)
		}
		out = make([]GenreAffinity, 0, len(m))
		for g, c := range m {
			out = append(out, GenreAffinity{Genre: g, Count: c})
		}
	default:
		return nil, fmt.Errorf("decode genre affinities: unexpected leading byte %q", data[0])
	}

	for _, g := range out {
		if g.Genre == "" || g.Count < 0 {
			return nil, fmt.Errorf("decode genre affinities: invalid entry %+v", g)
		}
	}
	SortGenreAffinities(out)
	return out, nil
}
