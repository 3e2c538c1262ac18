// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package precompute

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
)

// ErrRunInProgress is returned when a run is triggered while another one
// is still executing.
var ErrRunInProgress = errors.New("precompute run already in progress")

// Job names, in execution order.
const (
	JobMovieStats    = "movie_stats"
	JobGenreContent  = "genre_vectors_content"
	JobCollaborative = "collaborative"
	JobUserProfiles  = "user_profiles"
)

// Source provides the raw inputs of a run.
type Source interface {
	AllMovies(ctx context.Context) ([]models.Movie, error)
	AllRatings(ctx context.Context) ([]models.Rating, error)
}

// Sink replaces derived tables. Every method is atomic.
type Sink interface {
	ReplaceMovieStats(ctx context.Context, stats []models.MovieStats) error
	ReplaceGenreVectors(ctx context.Context, vocabulary []string, vectors []models.GenreVector) error
	ReplaceSimilarity(ctx context.Context, method models.SimilarityMethod, edges []models.SimilarityEdge) error
	ReplaceUserProfiles(ctx context.Context, profiles []models.UserProfile) error
}

// Store is the full data dependency of a Pipeline. *database.DB
// satisfies it.
type Store interface {
	Source
	Sink
}

// Config controls the similarity builders and the run deadline.
type Config struct {
	CollaborativeTopK     int
	CollaborativeMinScore float64
	ContentMinScore       float64
	ContentMaxPerMovie    int
	Workers               int
	Timeout               time.Duration // 0 = no deadline
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	collab := algorithms.DefaultCollaborativeConfig()
	content := algorithms.DefaultContentSimilarityConfig()
	return Config{
		CollaborativeTopK:     collab.TopK,
		CollaborativeMinScore: collab.MinScore,
		ContentMinScore:       content.MinScore,
		ContentMaxPerMovie:    content.MaxPerMovie,
		Timeout:               time.Hour,
	}
}

// ConfigFrom maps the precompute config section.
func ConfigFrom(cfg *config.PrecomputeConfig) Config {
	return Config{
		CollaborativeTopK:     cfg.CollaborativeTopK,
		CollaborativeMinScore: cfg.CollaborativeMinScore,
		ContentMinScore:       cfg.ContentMinScore,
		ContentMaxPerMovie:    cfg.ContentMaxPerMovie,
		Workers:               cfg.Workers,
		Timeout:               cfg.Timeout,
	}
}

// Pipeline runs the precompute jobs. It is safe for concurrent use; runs
// never overlap.
type Pipeline struct {
	store  Store
	ledger storage.Ledger
	cfg    Config
	logger zerolog.Logger

	runMu   sync.Mutex
	running atomic.Bool
	last    atomic.Pointer[storage.Run]

	hooksMu sync.Mutex
	hooks   []func(*storage.Run)

	now func() time.Time
}

// NewPipeline creates a pipeline. A nil ledger keeps runs in memory.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(store Store, ledger storage.Ledger, cfg Config, logger zerolog.Logger) (*Pipeline, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.CollaborativeTopK <= 0 {
		return nil, fmt.Errorf("collaborative top-k must be positive, got %d", cfg.CollaborativeTopK)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0, got %v", cfg.Timeout)
	}
	if ledger == nil {
		ledger = storage.NewMemoryLedger(storage.DefaultKeepRuns)
	}
	return &Pipeline{
		store:  store,
		ledger: ledger,
		cfg:    cfg,
		logger: logger.With().Str("component", "precompute").Logger(),
		now:    time.Now,
	}, nil
}

// OnComplete registers fn to be called after every finished run,
// successful or not.
func (p *Pipeline) OnComplete(fn func(*storage.Run)) {
	p.hooksMu.Lock()
	defer p.hooksMu.Unlock()
	p.hooks = append(p.hooks, fn)
}

// Running reports whether a run is executing.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// Last returns the most recent finished run of this process, or nil.
func (p *Pipeline) Last() *storage.Run {
	return p.last.Load()
}

// Ledger returns the run ledger.
func (p *Pipeline) Ledger() storage.Ledger {
	return p.ledger
}

// Run executes every job once. trigger is recorded in the ledger
// ("startup", "schedule", "api"). The returned run is non-nil whenever
// the run started; the error joins every job failure.
func (p *Pipeline) Run(ctx context.Context, trigger string) (*storage.Run, error) {
	if !p.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.runMu.Unlock()
	p.running.Store(true)
	defer p.running.Store(false)

	run := &storage.Run{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: p.now().UTC(),
	}
	ctx = logging.WithRunID(ctx, run.ID)
	logger := logging.From(ctx, p.logger)

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	logger.Info().Str("trigger", trigger).Msg("Precompute run started")

	runErr := p.execute(ctx, run)

	run.FinishedAt = p.now().UTC()
	run.Status = storage.StatusSucceeded
	if runErr != nil {
		run.Status = storage.StatusFailed
	} else {
		metrics.RecordPrecomputeSuccess(run.FinishedAt)
	}

	// The run deadline may already have expired; the ledger write must not
	// inherit it.
	if err := p.ledger.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Error().Err(err).Msg("Failed to record precompute run")
	}
	p.last.Store(run)
	p.notify(run)

	event := logger.Info()
	if runErr != nil {
		event = logger.Error().Err(runErr)
	}
	event.
		Str("status", string(run.Status)).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("Precompute run finished")

	return run, runErr
}

// execute loads the inputs and runs every job, continuing past failures.
func (p *Pipeline) execute(ctx context.Context, run *storage.Run) error {
	loadStart := p.now()
	movies, err := p.store.AllMovies(ctx)
	if err == nil {
		var ratings []models.Rating
		ratings, err = p.store.AllRatings(ctx)
		if err == nil {
			return p.runJobs(ctx, run, movies, ratings)
		}
	}

	// Without inputs no job can run; record them all as failed.
	err = fmt.Errorf("load inputs: %w", err)
	for _, job := range p.jobs(nil, nil) {
		run.Jobs = append(run.Jobs, p.result(job.name, loadStart, 0, err))
		metrics.RecordPrecomputeJob(job.name, 0, 0, err)
	}
	return err
}

func (p *Pipeline) runJobs(ctx context.Context, run *storage.Run, movies []models.Movie, ratings []models.Rating) error {
	logger := logging.From(ctx, p.logger)
	logger.Debug().
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Msg("Precompute inputs loaded")

	var errs []error
	for _, job := range p.jobs(movies, ratings) {
		start := p.now()
		rows, err := job.fn(ctx)
		if err != nil {
			err = fmt.Errorf("job %s: %w", job.name, err)
			errs = append(errs, err)
			logger.Error().Err(err).Str("job", job.name).Msg("Precompute job failed")
		} else {
			logger.Info().Str("job", job.name).Int("rows", rows).Msg("Precompute job finished")
		}
		result := p.result(job.name, start, rows, err)
		run.Jobs = append(run.Jobs, result)
		metrics.RecordPrecomputeJob(job.name, time.Duration(result.DurationMS)*time.Millisecond, rows, err)
	}
	return errors.Join(errs...)
}

func (p *Pipeline) result(job string, start time.Time, rows int, err error) storage.JobResult {
	finish := p.now()
	r := storage.JobResult{
		Job:        job,
		Status:     storage.StatusSucceeded,
		StartedAt:  start.UTC(),
		FinishedAt: finish.UTC(),
		DurationMS: finish.Sub(start).Milliseconds(),
		Rows:       rows,
	}
	if err != nil {
		r.Status = storage.StatusFailed
		r.Rows = 0
		r.Error = err.Error()
	}
	return r
}

func (p *Pipeline) notify(run *storage.Run) {
	p.hooksMu.Lock()
	hooks := append([]func(*storage.Run){}, p.hooks...)
	p.hooksMu.Unlock()

	for _, fn := range hooks {
		fn(run)
	}
}
