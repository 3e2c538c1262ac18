// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"math"
	"runtime"
	"sort"
)

// neighbor is a candidate movie with its similarity to a source movie.
type neighbor struct {
	ID    int
	Score float64
}

// sortNeighbors orders by score descending, then ID ascending.
func sortNeighbors(n []neighbor) {
	sort.Slice(n, func(a, b int) bool {
		if n[a].Score != n[b].Score {
			return n[a].Score > n[b].Score
		}
		return n[a].ID < n[b].ID
	})
}

// cosineSimilarity returns dot(a,b)/(|a||b|), or 0 when either vector is
// zero or the lengths differ.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clampUnit(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// clampUnit removes floating point overshoot past 1.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}

// resolveWorkers maps 0 or negative to runtime.NumCPU().
func resolveWorkers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ContextCancelled reports whether ctx is done.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
