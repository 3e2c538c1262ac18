// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerec/internal/models"
)

// CollaborativeConfig controls the item-item collaborative builder.
type CollaborativeConfig struct {
	// TopK is the maximum number of edges kept per source movie.
	TopK int

	// MinScore is the exclusive lower bound for a kept edge.
	MinScore float64

	// NumWorkers bounds parallelism. 0 uses runtime.NumCPU().
	NumWorkers int
}

// DefaultCollaborativeConfig returns the production defaults.
func DefaultCollaborativeConfig() CollaborativeConfig {
	return CollaborativeConfig{
		TopK:     20,
		MinScore: 0.1,
	}
}

// CollaborativeSimilarity computes cosine similarity between the rating
// columns of the user x movie matrix.
//
// An unrated cell counts as 0, the same as a rating of 0. Cosine over
// these columns only accumulates on users who rated both movies, while
// the norms span every rating of each movie:
//
//	sim(i, j) = sum_u r(u,i)*r(u,j) / (||r(.,i)|| * ||r(.,j)||)
type CollaborativeSimilarity struct {
	config CollaborativeConfig
}

// NewCollaborativeSimilarity creates a collaborative builder.
func NewCollaborativeSimilarity(cfg CollaborativeConfig) *CollaborativeSimilarity {
	if cfg.TopK <= 0 {
		cfg.TopK = 20
	}
	cfg.NumWorkers = resolveWorkers(cfg.NumWorkers)
	return &CollaborativeSimilarity{config: cfg}
}

type cell struct {
	idx   int
	value float64
}

// ratingMatrix is a sparse user x movie matrix stored both ways.
type ratingMatrix struct {
	movieIDs   []int
	byMovie    [][]cell // movie idx -> (user idx, value)
	byUser     [][]cell // user idx -> (movie idx, value)
	movieNorms []float64
}

// newRatingMatrix builds the matrix. When a (user, movie) pair appears
// more than once, the most recent rating wins.
//
//nolint:gocritic // rangeValCopy: Rating is small
func newRatingMatrix(ratings []models.Rating) *ratingMatrix {
	type key struct{ user, movie int }
	latest := make(map[key]int, len(ratings))
	for i, r := range ratings {
		k := key{r.UserID, r.MovieID}
		if prev, ok := latest[k]; !ok || !ratings[i].RatedAt.Before(ratings[prev].RatedAt) {
			latest[k] = i
		}
	}

	movieSet := make(map[int]struct{})
	userSet := make(map[int]struct{})
	for k := range latest {
		movieSet[k.movie] = struct{}{}
		userSet[k.user] = struct{}{}
	}
	movieIDs := sortedKeys(movieSet)
	userIDs := sortedKeys(userSet)
	movieIdx := indexOf(movieIDs)
	userIdx := indexOf(userIDs)

	m := &ratingMatrix{
		movieIDs:   movieIDs,
		byMovie:    make([][]cell, len(movieIDs)),
		byUser:     make([][]cell, len(userIDs)),
		movieNorms: make([]float64, len(movieIDs)),
	}
	for k, i := range latest {
		mi, ui := movieIdx[k.movie], userIdx[k.user]
		v := ratings[i].Value
		m.byMovie[mi] = append(m.byMovie[mi], cell{idx: ui, value: v})
		m.byUser[ui] = append(m.byUser[ui], cell{idx: mi, value: v})
	}
	for i := range m.byMovie {
		sortCells(m.byMovie[i])
		var sq float64
		for _, c := range m.byMovie[i] {
			sq += c.value * c.value
		}
		m.movieNorms[i] = math.Sqrt(sq)
	}
	for i := range m.byUser {
		sortCells(m.byUser[i])
	}
	return m
}

// Build returns collaborative edges ordered by source ID, then score
// descending, then target ID.
func (c *CollaborativeSimilarity) Build(ctx context.Context, ratings []models.Rating) ([]models.SimilarityEdge, error) {
	m := newRatingMatrix(ratings)
	n := len(m.movieIDs)
	if n == 0 {
		return []models.SimilarityEdge{}, nil
	}

	results := make([][]neighbor, n)
	workers := c.config.NumWorkers
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			dot := make([]float64, n)
			seen := make([]bool, n)
			touched := make([]int, 0, 256)
			for i := start; i < end; i++ {
				if ContextCancelled(gctx) {
					return gctx.Err()
				}
				results[i] = c.neighborsOf(m, i, dot, seen, touched[:0])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var edges []models.SimilarityEdge
	for i, ns := range results {
		for _, nb := range ns {
			edges = append(edges, models.SimilarityEdge{
				SourceID: m.movieIDs[i],
				TargetID: m.movieIDs[nb.ID],
				Score:    nb.Score,
				Method:   models.SimilarityCollaborative,
			})
		}
	}
	if edges == nil {
		edges = []models.SimilarityEdge{}
	}
	return edges, nil
}

// neighborsOf accumulates dot products of movie i with every co-rated
// movie through the users who rated i. dot and seen are worker-owned
// scratch buffers and are reset before returning. Neighbor IDs are
// matrix indices; index order equals movie ID order.
func (c *CollaborativeSimilarity) neighborsOf(m *ratingMatrix, i int, dot []float64, seen []bool, touched []int) []neighbor {
	for _, u := range m.byMovie[i] {
		for _, other := range m.byUser[u.idx] {
			if other.idx == i {
				continue
			}
			if !seen[other.idx] {
				seen[other.idx] = true
				touched = append(touched, other.idx)
			}
			dot[other.idx] += u.value * other.value
		}
	}

	candidates := make([]neighbor, 0, len(touched))
	normI := m.movieNorms[i]
	for _, j := range touched {
		denom := normI * m.movieNorms[j]
		if denom > 0 {
			if score := clampUnit(dot[j] / denom); score > c.config.MinScore {
				candidates = append(candidates, neighbor{ID: j, Score: score})
			}
		}
		dot[j] = 0
		seen[j] = false
	}

	sortNeighbors(candidates)
	if len(candidates) > c.config.TopK {
		candidates = candidates[:c.config.TopK]
	}
	return candidates
}

func sortCells(c []cell) {
	sort.Slice(c, func(a, b int) bool { return c[a].idx < c[b].idx })
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func indexOf(ids []int) map[int]int {
	idx := make(map[int]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
