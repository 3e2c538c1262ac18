// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package precompute

import (
	"context"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

type job struct {
	name string
	fn   func(ctx context.Context) (int, error)
}

// jobs returns the jobs bound to one run's inputs. Each returns the number
// of rows it wrote.
func (p *Pipeline) jobs(movies []models.Movie, ratings []models.Rating) []job {
	return []job{
		{JobMovieStats, func(ctx context.Context) (int, error) {
			stats := algorithms.AggregateMovieStats(ratings)
			return len(stats), p.store.ReplaceMovieStats(ctx, stats)
		}},
		{JobGenreContent, func(ctx context.Context) (int, error) {
			return p.genreContent(ctx, movies)
		}},
		{JobCollaborative, func(ctx context.Context) (int, error) {
			builder := algorithms.NewCollaborativeSimilarity(algorithms.CollaborativeConfig{
				TopK:       p.cfg.CollaborativeTopK,
				MinScore:   p.cfg.CollaborativeMinScore,
				NumWorkers: p.cfg.Workers,
			})
			edges, err := builder.Build(ctx, ratings)
			if err != nil {
				return 0, err
			}
			return len(edges), p.store.ReplaceSimilarity(ctx, models.SimilarityCollaborative, edges)
		}},
		{JobUserProfiles, func(ctx context.Context) (int, error) {
			profiles := algorithms.BuildUserProfiles(ratings, movies)
			return len(profiles), p.store.ReplaceUserProfiles(ctx, profiles)
		}},
	}
}

// genreContent writes the vocabulary and vectors together, then the
// content edges derived from them. Rows counts the content edges.
func (p *Pipeline) genreContent(ctx context.Context, movies []models.Movie) (int, error) {
	gv := algorithms.VectorizeGenres(movies)
	if err := p.store.ReplaceGenreVectors(ctx, gv.Vocabulary, gv.Vectors); err != nil {
		return 0, err
	}

	builder := algorithms.NewContentSimilarity(algorithms.ContentSimilarityConfig{
		MinScore:    p.cfg.ContentMinScore,
		MaxPerMovie: p.cfg.ContentMaxPerMovie,
		NumWorkers:  p.cfg.Workers,
	})
	edges, err := builder.Build(ctx, gv.Vectors)
	if err != nil {
		return 0, err
	}
	return len(edges), p.store.ReplaceSimilarity(ctx, models.SimilarityContent, edges)
}
