// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package movielensimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
)

// DefaultBatchSize is used when the configured batch size is not positive.
const DefaultBatchSize = 5000

// ErrImportInProgress is returned when Import is called during an import.
var ErrImportInProgress = errors.New("import already in progress")

// Store receives imported rows. *database.DB satisfies it.
type Store interface {
	UpsertMovies(ctx context.Context, movies []models.Movie) (int, error)
	UpsertRatings(ctx context.Context, ratings []models.Rating) (int, error)
}

// Importer loads a MovieLens dataset into the store.
type Importer struct {
	cfg      *config.ImportConfig
	store    Store
	progress ProgressTracker

	mu       sync.RWMutex
	running  bool
	stats    *ImportStats
	stopChan chan struct{}
}

// NewImporter creates an importer. progress may be nil, which disables
// checkpointing.
func NewImporter(cfg *config.ImportConfig, store Store, progress ProgressTracker) *Importer {
	return &Importer{
		cfg:      cfg,
		store:    store,
		progress: progress,
		stopChan: make(chan struct{}),
	}
}

// Import loads movies, then ratings, from the configured data directory.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportInProgress
	}
	i.running = true
	i.stats = &ImportStats{
		DataDir:   i.dataDir(),
		StartTime: time.Now(),
	}
	stop := i.stopChan
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.stats.EndTime = time.Now()
		i.mu.Unlock()
	}()

	ds, err := DetectDataset(i.dataDir())
	if err != nil {
		return i.GetStats(), err
	}
	i.update(func(s *ImportStats) { s.Format = ds.Format })

	logging.Info().
		Str("data_dir", i.dataDir()).
		Str("format", string(ds.Format)).
		Msg("Starting MovieLens import")

	known, err := i.importMovies(ctx, ds)
	if err != nil {
		return i.GetStats(), err
	}

	startLine := i.resumePoint(ctx, ds)
	if err := i.importRatings(ctx, ds, known, startLine, stop); err != nil {
		return i.GetStats(), err
	}

	stats := i.GetStats()
	i.saveCheckpoint(ctx, ds, stats.LastRatingLine, true)

	metrics.RecordImport("movies", int(stats.MoviesImported), int(stats.MoviesSkipped))
	logging.Info().
		Int64("movies", stats.MoviesImported).
		Int64("ratings", stats.RatingsImported).
		Int64("ratings_skipped", stats.RatingsSkipped).
		Int64("resumed_from", stats.ResumedFrom).
		Dur("duration", stats.Duration()).
		Msg("MovieLens import completed")

	return stats, nil
}

// importMovies upserts the movies file and returns the set of movie IDs it
// contains.
func (i *Importer) importMovies(ctx context.Context, ds *Dataset) (map[int]struct{}, error) {
	reader, err := openRecords(ds.Movies, ds.Format)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	known := make(map[int]struct{})
	batch := make([]models.Movie, 0, i.batchSize())
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := i.store.UpsertMovies(ctx, batch)
		if err != nil {
			return fmt.Errorf("upsert movies: %w", err)
		}
		i.update(func(s *ImportStats) { s.MoviesImported += int64(n) })
		batch = batch[:0]
		return nil
	}

	for {
		fields, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var movie models.Movie
		if err == nil {
			movie, err = toMovie(fields)
		}
		if err != nil {
			if !errors.Is(err, errMalformed) {
				return nil, fmt.Errorf("read movies: %w", err)
			}
			logging.Debug().Err(err).Int64("line", reader.Line()).Msg("Skipping movie row")
			i.update(func(s *ImportStats) { s.MoviesSkipped++ })
			continue
		}

		known[movie.ID] = struct{}{}
		batch = append(batch, movie)
		if len(batch) >= i.batchSize() {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	logging.Info().Int("movies", len(known)).Msg("Movies imported")
	return known, nil
}

// importRatings upserts ratings after startLine, saving a checkpoint per
// batch.
func (i *Importer) importRatings(ctx context.Context, ds *Dataset, known map[int]struct{}, startLine int64, stop <-chan struct{}) error {
	reader, err := openRecords(ds.Ratings, ds.Format)
	if err != nil {
		return err
	}
	defer reader.Close()

	batch := make([]models.Rating, 0, i.batchSize())
	var skipped int64

	flush := func() error {
		n, err := i.store.UpsertRatings(ctx, batch)
		if err != nil {
			return fmt.Errorf("upsert ratings: %w", err)
		}
		line := reader.Line()
		i.update(func(s *ImportStats) {
			s.RatingsImported += int64(n)
			s.RatingsSkipped += skipped
			s.LastRatingLine = line
		})
		metrics.RecordImport("ratings", n, int(skipped))
		i.saveCheckpoint(ctx, ds, line, false)

		stats := i.GetStats()
		logging.Info().
			Int64("line", line).
			Int64("imported", stats.RatingsImported).
			Int64("skipped", stats.RatingsSkipped).
			Float64("ratings_per_second", stats.RatingsPerSecond()).
			Msg("Import progress")

		batch = batch[:0]
		skipped = 0
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return fmt.Errorf("import canceled")
		default:
		}

		fields, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if reader.Line() <= startLine {
			continue
		}
		i.update(func(s *ImportStats) { s.RatingsProcessed++ })

		var rating models.Rating
		if err == nil {
			rating, err = toRating(fields)
		}
		if err != nil {
			if !errors.Is(err, errMalformed) {
				return fmt.Errorf("read ratings: %w", err)
			}
			logging.Debug().Err(err).Int64("line", reader.Line()).Msg("Skipping rating row")
			skipped++
			continue
		}
		if _, ok := known[rating.MovieID]; !ok {
			skipped++
			continue
		}

		batch = append(batch, rating)
		if len(batch) >= i.batchSize() {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if len(batch) > 0 || skipped > 0 {
		return flush()
	}
	i.update(func(s *ImportStats) {
		if s.LastRatingLine < reader.Line() {
			s.LastRatingLine = reader.Line()
		}
	})
	return nil
}

// resumePoint returns the ratings line to continue after, or 0.
func (i *Importer) resumePoint(ctx context.Context, ds *Dataset) int64 {
	if i.progress == nil || !i.cfg.Resume {
		return 0
	}
	cp, err := i.progress.Load(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to load import checkpoint, starting from the beginning")
		return 0
	}
	if cp == nil || cp.Completed || cp.Format != ds.Format || filepath.Clean(cp.DataDir) != filepath.Clean(i.dataDir()) {
		return 0
	}

	logging.Info().Int64("line", cp.LastRatingLine).Msg("Resuming ratings import after checkpoint")
	i.update(func(s *ImportStats) {
		s.ResumedFrom = cp.LastRatingLine
		s.LastRatingLine = cp.LastRatingLine
	})
	return cp.LastRatingLine
}

func (i *Importer) saveCheckpoint(ctx context.Context, ds *Dataset, line int64, completed bool) {
	if i.progress == nil {
		return
	}
	cp := &Checkpoint{
		DataDir:        i.dataDir(),
		Format:         ds.Format,
		LastRatingLine: line,
		Completed:      completed,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := i.progress.Save(ctx, cp); err != nil {
		logging.Warn().Err(err).Msg("Failed to save import checkpoint")
	}
}

func (i *Importer) update(fn func(*ImportStats)) {
	i.mu.Lock()
	fn(i.stats)
	i.mu.Unlock()
}

func (i *Importer) dataDir() string {
	return i.cfg.DataDir
}

func (i *Importer) batchSize() int {
	if i.cfg.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return i.cfg.BatchSize
}

// Stop cancels a running import.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return fmt.Errorf("no import in progress")
	}
	close(i.stopChan)
	i.stopChan = make(chan struct{})
	return nil
}

// GetStats returns a copy of the current import statistics.
func (i *Importer) GetStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &ImportStats{}
	}
	stats := *i.stats
	return &stats
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
