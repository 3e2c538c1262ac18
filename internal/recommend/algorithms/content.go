// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerec/internal/models"
)

// ContentSimilarityConfig controls the content similarity builder.
type ContentSimilarityConfig struct {
	// MinScore is the exclusive lower bound for a kept edge.
	MinScore float64

	// MaxPerMovie caps outgoing edges per source movie. 0 keeps every
	// edge above MinScore, which guarantees both directions of each pair
	// are present. A positive cap can drop the reverse of a kept edge when
	// the target has more than MaxPerMovie better-scoring neighbors.
	MaxPerMovie int

	// NumWorkers bounds parallelism. 0 uses runtime.NumCPU().
	NumWorkers int
}

// DefaultContentSimilarityConfig returns the production defaults.
func DefaultContentSimilarityConfig() ContentSimilarityConfig {
	return ContentSimilarityConfig{
		MinScore: 0.1,
	}
}

// ContentSimilarity computes cosine similarity between genre vectors.
//
// Movies sharing an identical genre vector are grouped under one
// signature, so the pairwise work is over distinct signatures rather than
// movies. A MovieLens-sized catalog has under a thousand signatures.
type ContentSimilarity struct {
	config ContentSimilarityConfig
}

// NewContentSimilarity creates a content similarity builder.
func NewContentSimilarity(cfg ContentSimilarityConfig) *ContentSimilarity {
	if cfg.MaxPerMovie < 0 {
		cfg.MaxPerMovie = 0
	}
	cfg.NumWorkers = resolveWorkers(cfg.NumWorkers)
	return &ContentSimilarity{config: cfg}
}

// signature is a distinct genre vector and the movies that carry it.
type signature struct {
	key     string
	bits    []float64
	members []int
}

// Build returns content edges ordered by source ID, then score descending,
// then target ID. Zero vectors are skipped.
func (c *ContentSimilarity) Build(ctx context.Context, vectors []models.GenreVector) ([]models.SimilarityEdge, error) {
	sigs := groupSignatures(vectors)
	if len(sigs) == 0 {
		return []models.SimilarityEdge{}, nil
	}

	results := make([][]models.SimilarityEdge, len(sigs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.NumWorkers)

	for s := range sigs {
		g.Go(func() error {
			if ContextCancelled(gctx) {
				return gctx.Err()
			}
			results[s] = c.edgesForSignature(&sigs[s], sigs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	edges := make([]models.SimilarityEdge, 0, total)
	for _, r := range results {
		edges = append(edges, r...)
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].SourceID < edges[j].SourceID
	})
	return edges, nil
}

// edgesForSignature scores src against every signature once, then emits
// each member's outgoing edges from the shared candidate list.
func (c *ContentSimilarity) edgesForSignature(src *signature, all []signature) []models.SimilarityEdge {
	var candidates []neighbor
	for t := range all {
		score := cosineSimilarity(src.bits, all[t].bits)
		if score <= c.config.MinScore {
			continue
		}
		for _, id := range all[t].members {
			candidates = append(candidates, neighbor{ID: id, Score: score})
		}
	}
	sortNeighbors(candidates)

	limit := len(candidates)
	if c.config.MaxPerMovie > 0 && c.config.MaxPerMovie < limit {
		limit = c.config.MaxPerMovie
	}

	edges := make([]models.SimilarityEdge, 0, len(src.members)*limit)
	for _, source := range src.members {
		kept := 0
		for _, cand := range candidates {
			if kept == limit {
				break
			}
			if cand.ID == source {
				continue
			}
			edges = append(edges, models.SimilarityEdge{
				SourceID: source,
				TargetID: cand.ID,
				Score:    cand.Score,
				Method:   models.SimilarityContent,
			})
			kept++
		}
	}
	return edges
}

// groupSignatures buckets non-zero vectors by their bit pattern. Buckets
// and their members are sorted for deterministic output.
func groupSignatures(vectors []models.GenreVector) []signature {
	index := make(map[string]int)
	var sigs []signature
	for _, v := range vectors {
		if v.IsZero() {
			continue
		}
		key := vectorKey(v.Vector)
		pos, ok := index[key]
		if !ok {
			bits := make([]float64, len(v.Vector))
			for i, b := range v.Vector {
				if b != 0 {
					bits[i] = 1
				}
			}
			pos = len(sigs)
			index[key] = pos
			sigs = append(sigs, signature{key: key, bits: bits})
		}
		sigs[pos].members = append(sigs[pos].members, v.MovieID)
	}

	sort.Slice(sigs, func(i, j int) bool { return sigs[i].key < sigs[j].key })
	for i := range sigs {
		sort.Ints(sigs[i].members)
	}
	return sigs
}

func vectorKey(vec []int) string {
	var b strings.Builder
	b.Grow(len(vec))
	for _, v := range vec {
		if v != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
