// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

// SimilarityMethod tags the builder that produced a SimilarityEdge.
type SimilarityMethod string

const (
	// SimilarityCollaborative edges come from item-item cosine over ratings.
	SimilarityCollaborative SimilarityMethod = "collaborative"
	// SimilarityContent edges come from cosine over genre vectors.
	SimilarityContent SimilarityMethod = "content"
)

// Valid reports whether m is a known method.
func (m SimilarityMethod) Valid() bool {
	return m == SimilarityCollaborative || m == SimilarityContent
}

// SimilarityEdge is a directed, scored edge from SourceID to TargetID.
// The underlying measure is symmetric; storage is keyed by source.
type SimilarityEdge struct {
	SourceID int              `json:"movie_id1"`
	TargetID int              `json:"movie_id2"`
	Score    float64          `json:"similarity_score"`
	Method   SimilarityMethod `json:"method"`
}

// SimilarMovie is a similarity edge target joined with movie data.
type SimilarMovie struct {
	MovieWithStats
	Score float64 `json:"similarity_score"`
}

// GenreVector is the binary genre encoding of one movie. Positions refer
// to the vocabulary built in the same precompute run.
type GenreVector struct {
	MovieID int   `json:"movie_id"`
	Vector  []int `json:"genre_vector"`
}

// IsZero reports whether no genre bit is set.
func (v GenreVector) IsZero() bool {
	for _, b := range v.Vector {
		if b != 0 {
			return false
		}
	}
	return true
}
