// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"sort"

	"github.com/tomtom215/cinerec/internal/models"
)

// GenreVectors is the output of VectorizeGenres. Vocabulary and Vectors
// are only meaningful together and must be persisted together.
type GenreVectors struct {
	// Vocabulary is the sorted set of genre tags seen in the corpus.
	Vocabulary []string

	// Vectors holds one entry per input movie, in movie ID order.
	// Movies without usable genres carry the zero vector.
	Vectors []models.GenreVector
}

// usableGenre filters the no-genres sentinel.
func usableGenre(g string) bool {
	return g != "" && g != models.NoGenresListed
}

// BuildVocabulary returns the sorted, de-duplicated genre tags of movies,
// excluding the no-genres sentinel.
func BuildVocabulary(movies []models.Movie) []string {
	seen := make(map[string]struct{})
	for i := range movies {
		for _, g := range movies[i].Genres {
			if usableGenre(g) {
				seen[g] = struct{}{}
			}
		}
	}
	vocab := make([]string, 0, len(seen))
	for g := range seen {
		vocab = append(vocab, g)
	}
	sort.Strings(vocab)
	return vocab
}

// VectorizeGenres encodes each movie's genres as a binary vector over the
// corpus vocabulary.
func VectorizeGenres(movies []models.Movie) GenreVectors {
	vocab := BuildVocabulary(movies)
	position := make(map[string]int, len(vocab))
	for i, g := range vocab {
		position[g] = i
	}

	sorted := make([]*models.Movie, len(movies))
	for i := range movies {
		sorted[i] = &movies[i]
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	vectors := make([]models.GenreVector, 0, len(sorted))
	for _, m := range sorted {
		vec := make([]int, len(vocab))
		for _, g := range m.Genres {
			if pos, ok := position[g]; ok {
				vec[pos] = 1
			}
		}
		vectors = append(vectors, models.GenreVector{MovieID: m.ID, Vector: vec})
	}
	return GenreVectors{Vocabulary: vocab, Vectors: vectors}
}
