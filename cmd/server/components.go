// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/database"
	movielensimport "github.com/tomtom215/cinerec/internal/import"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/recommend/precompute"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

// engineConfig maps the engine config section.
func engineConfig(cfg *config.EngineConfig) *recommend.Config {
	return &recommend.Config{
		DefaultLimit:      cfg.DefaultLimit,
		MaxLimit:          cfg.MaxLimit,
		PopularMinRatings: cfg.PopularMinRatings,
		Weights: recommend.Weights{
			Collaborative: cfg.CollabWeight,
			Content:       cfg.ContentWeight,
		},
		SeedCount:     cfg.SeedCount,
		PerSeedLimit:  cfg.PerSeedLimit,
		CacheTTL:      cfg.CacheTTL,
		CacheCapacity: cfg.CacheCapacity,
	}
}

func initEngine(cfg *config.Config, db *database.DB) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(db, engineConfig(&cfg.Engine), logging.Component("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	logging.Info().
		Int("popular_min_ratings", cfg.Engine.PopularMinRatings).
		Float64("collab_weight", cfg.Engine.CollabWeight).
		Float64("content_weight", cfg.Engine.ContentWeight).
		Dur("cache_ttl", cfg.Engine.CacheTTL).
		Int("cache_capacity", cfg.Engine.CacheCapacity).
		Msg("Recommendation engine initialized")
	return engine, nil
}

// precomputeComponents owns the pipeline and its ledger.
type precomputeComponents struct {
	pipeline *precompute.Pipeline
	ledger   *storage.BadgerLedger
}

func (c *precomputeComponents) Close() {
	if err := c.ledger.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing precompute ledger")
	}
}

// initPrecompute builds the pipeline and schedules it in the data layer.
// Every finished run drops the engine cache. It returns nil when
// precompute is disabled.
func initPrecompute(cfg *config.Config, db *database.DB, engine *recommend.Engine, tree *supervisor.SupervisorTree) (*precomputeComponents, error) {
	if !cfg.Precompute.Enabled {
		logging.Info().Msg("Precompute disabled (PRECOMPUTE_ENABLED=false)")
		return nil, nil
	}

	ledger, err := storage.OpenBadgerLedger(cfg.Ledger)
	if err != nil {
		return nil, err
	}

	logger := logging.Component("precompute")
	pipeline, err := precompute.NewPipeline(db, ledger, precompute.ConfigFrom(&cfg.Precompute), logger)
	if err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("create precompute pipeline: %w", err)
	}
	pipeline.OnComplete(func(*storage.Run) { engine.InvalidateCache() })

	tree.AddDataService(services.NewPrecomputeService(pipeline, services.PrecomputeServiceConfig{
		RunOnStartup: cfg.Precompute.RunOnStartup,
		Interval:     cfg.Precompute.Interval,
	}, logger))

	return &precomputeComponents{pipeline: pipeline, ledger: ledger}, nil
}

// importComponents owns the importer's checkpoint store.
type importComponents struct {
	importer *movielensimport.Importer
	progress *movielensimport.BadgerProgress
}

func (c *importComponents) Close() {
	if err := c.progress.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing import progress store")
	}
}

// initImport schedules a one-shot MovieLens import in the data layer. A
// successful import triggers a precompute run when precompute is enabled,
// so the derived tables reflect the new data without waiting for the
// schedule. It returns nil when import is disabled.
func initImport(cfg *config.Config, db *database.DB, engine *recommend.Engine, pre *precomputeComponents, tree *supervisor.SupervisorTree) (*importComponents, error) {
	if !cfg.Import.Enabled {
		logging.Info().Msg("MovieLens import disabled (IMPORT_ENABLED=false)")
		return nil, nil
	}

	progress, err := movielensimport.OpenBadgerProgress(cfg.Import.ProgressPath)
	if err != nil {
		return nil, err
	}
	importer := movielensimport.NewImporter(&cfg.Import, db, progress)

	onDone := func(ctx context.Context) {
		engine.InvalidateCache()
		if pre == nil {
			return
		}
		if _, err := pre.pipeline.Run(ctx, "import"); err != nil {
			if errors.Is(err, precompute.ErrRunInProgress) {
				logging.Info().Msg("Precompute already running, imported data will be picked up by the next run")
				return
			}
			logging.Warn().Err(err).Msg("Post-import precompute run failed")
		}
	}
	tree.AddDataService(services.NewImportService(importer, onDone))

	logging.Info().
		Str("data_dir", cfg.Import.DataDir).
		Bool("resume", cfg.Import.Resume).
		Msg("MovieLens import scheduled")
	return &importComponents{importer: importer, progress: progress}, nil
}
