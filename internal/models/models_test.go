// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitGenres(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"Adventure|Animation|Children", []string{"Adventure", "Animation", "Children"}},
		{" Drama | Romance ", []string{"Drama", "Romance"}},
		{"Comedy||Comedy", []string{"Comedy"}},
		{"", []string{}},
		{"   ", []string{}},
		{NoGenresListed, []string{NoGenresListed}},
	}
	for _, tt := range tests {
		if got := SplitGenres(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitGenres(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidRatingValue(t *testing.T) {
	t.Parallel()

	valid := []float64{0.5, 1, 2.5, 4.5, 5}
	invalid := []float64{0, 0.25, 3.3, 5.5, -1}
	for _, v := range valid {
		if !ValidRatingValue(v) {
			t.Errorf("ValidRatingValue(%v) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if ValidRatingValue(v) {
			t.Errorf("ValidRatingValue(%v) = true, want false", v)
		}
	}
}

func TestGenreAffinityRoundTripOrdering(t *testing.T) {
	t.Parallel()

	in := []GenreAffinity{{"Drama", 2}, {"Action", 5}, {"Comedy", 2}}
	s, err := EncodeGenreAffinities(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeGenreAffinities(s)
	if err != nil {
		t.Fatal(err)
	}
	want := []GenreAffinity{{"Action", 5}, {"Comedy", 2}, {"Drama", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded = %v, want %v", got, want)
	}
}

func TestDecodeGenreAffinitiesObjectForm(t *testing.T) {
	t.Parallel()

	got, err := DecodeGenreAffinities(`{"Sci-Fi": 4, "Thriller": 1}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Genre != "Sci-Fi" || got[0].Count != 4 {
		t.Errorf("decoded = %v", got)
	}
}

func TestDecodeGenreAffinitiesMalformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "not json", `[{"genre":"Drama","count":`, `[{"genre":"","count":1}]`, `{"Drama":-2}`, `42`} {
		if _, err := DecodeGenreAffinities(in); err == nil {
			t.Errorf("DecodeGenreAffinities(%q) expected error", in)
		}
	}
}

func TestUserProfileRecordDecode(t *testing.T) {
	t.Parallel()

	rec := UserProfileRecord{UserID: 7, FavoriteGenres: `[{"genre":"Drama","count":3}]`, AvgRating: 4, RatingCount: 3}
	p, err := rec.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if p.AffinityMap()["Drama"] != 3 || p.UserID != 7 {
		t.Errorf("profile = %+v", p)
	}

	rec.FavoriteGenres = "{broken"
	if _, err := rec.Decode(); err == nil || !strings.Contains(err.Error(), "genre affinities") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestGenreVectorIsZero(t *testing.T) {
	t.Parallel()

	if !(GenreVector{Vector: []int{0, 0}}).IsZero() {
		t.Error("zero vector reported non-zero")
	}
	if (GenreVector{Vector: []int{0, 1}}).IsZero() {
		t.Error("non-zero vector reported zero")
	}
}

func TestMovieWithStatsCount(t *testing.T) {
	t.Parallel()

	m := MovieWithStats{}
	if m.Count() != 0 {
		t.Errorf("Count() = %d for missing stats", m.Count())
	}
	m.RatingCount = IntPtr(12)
	if m.Count() != 12 {
		t.Errorf("Count() = %d, want 12", m.Count())
	}
}
