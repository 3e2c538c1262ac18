// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/logging"
)

// DefaultKeepRuns is used when KeepRuns is not positive.
const DefaultKeepRuns = 100

const runKeyPrefix = "precompute:run:"

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("precompute run not found")

// Status is the outcome of a run or a job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// JobResult is the outcome of one job inside a run.
type JobResult struct {
	Job        string    `json:"job"`
	Status     Status    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	Rows       int       `json:"rows"`
	Error      string    `json:"error,omitempty"`
}

// Run is one precompute run. A run fails when any of its jobs fails.
type Run struct {
	ID         string      `json:"id"`
	Trigger    string      `json:"trigger"`
	Status     Status      `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Jobs       []JobResult `json:"jobs"`
}

// Ledger stores finished precompute runs.
type Ledger interface {
	// Record stores run, replacing any run with the same ID.
	Record(ctx context.Context, run *Run) error
	// GetRun returns the run with the given ID or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*Run, error)
	// LastRuns returns up to n runs, newest first.
	LastRuns(ctx context.Context, n int) ([]Run, error)
	Close() error
}

// runKey sorts by start time, then ID.
func runKey(run *Run) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", runKeyPrefix, run.StartedAt.UTC().UnixNano(), run.ID))
}

// BadgerLedger persists runs in BadgerDB.
type BadgerLedger struct {
	db       *badger.DB
	keepRuns int
	mu       sync.Mutex // serializes Record so pruning sees a stable count
}

// OpenBadgerLedger opens the ledger described by cfg. An empty path keeps
// the ledger in memory.
func OpenBadgerLedger(cfg config.LedgerConfig) (*BadgerLedger, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	keep := cfg.KeepRuns
	if keep <= 0 {
		keep = DefaultKeepRuns
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.Path == "").
		Int("keep_runs", keep).
		Msg("Precompute run ledger opened")

	return &BadgerLedger{db: db, keepRuns: keep}, nil
}

// Record implements Ledger.
func (l *BadgerLedger) Record(_ context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New("run id is required")
	}
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.db.Update(func(txn *badger.Txn) error {
		if old, err := findRunKey(txn, run.ID); err != nil {
			return err
		} else if old != nil {
			if err := txn.Delete(old); err != nil {
				return err
			}
		}
		return txn.Set(runKey(run), data)
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return l.prune()
}

// GetRun implements Ledger.
func (l *BadgerLedger) GetRun(_ context.Context, id string) (*Run, error) {
	var run *Run
	err := l.db.View(func(txn *badger.Txn) error {
		key, err := findRunKey(txn, id)
		if err != nil || key == nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			run = &Run{}
			return json.Unmarshal(val, run)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// LastRuns implements Ledger.
func (l *BadgerLedger) LastRuns(_ context.Context, n int) ([]Run, error) {
	runs := []Run{}
	if n <= 0 {
		return runs, nil
	}

	prefix := []byte(runKeyPrefix)
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(runs) < n; it.Next() {
			var run Run
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			}); err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Close implements Ledger.
func (l *BadgerLedger) Close() error {
	return l.db.Close()
}

// prune deletes the oldest runs beyond keepRuns.
func (l *BadgerLedger) prune() error {
	var stale [][]byte
	prefix := []byte(runKeyPrefix)

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seen := 0
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			seen++
			if seen > l.keepRuns {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	return l.db.Update(func(txn *badger.Txn) error {
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// findRunKey returns the stored key for id, or nil.
func findRunKey(txn *badger.Txn, id string) ([]byte, error) {
	prefix := []byte(runKeyPrefix)
	suffix := ":" + id

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().Key()
		if len(key) > len(suffix) && string(key[len(key)-len(suffix):]) == suffix {
			return it.Item().KeyCopy(nil), nil
		}
	}
	return nil, nil
}

// MemoryLedger keeps runs in memory.
type MemoryLedger struct {
	mu       sync.Mutex
	runs     []Run
	keepRuns int
}

// NewMemoryLedger creates an in-memory ledger.
func NewMemoryLedger(keepRuns int) *MemoryLedger {
	if keepRuns <= 0 {
		keepRuns = DefaultKeepRuns
	}
	return &MemoryLedger{keepRuns: keepRuns}
}

// Record implements Ledger.
func (l *MemoryLedger) Record(_ context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New("run id is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := copyRun(run)
	replaced := false
	for i := range l.runs {
		if l.runs[i].ID == run.ID {
			l.runs[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		l.runs = append(l.runs, stored)
	}

	sort.SliceStable(l.runs, func(i, j int) bool {
		if !l.runs[i].StartedAt.Equal(l.runs[j].StartedAt) {
			return l.runs[i].StartedAt.Before(l.runs[j].StartedAt)
		}
		return l.runs[i].ID < l.runs[j].ID
	})
	if over := len(l.runs) - l.keepRuns; over > 0 {
		l.runs = append([]Run(nil), l.runs[over:]...)
	}
	return nil
}

// GetRun implements Ledger.
func (l *MemoryLedger) GetRun(_ context.Context, id string) (*Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.runs {
		if l.runs[i].ID == id {
			run := copyRun(&l.runs[i])
			return &run, nil
		}
	}
	return nil, ErrRunNotFound
}

// LastRuns implements Ledger.
func (l *MemoryLedger) LastRuns(_ context.Context, n int) ([]Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	runs := []Run{}
	for i := len(l.runs) - 1; i >= 0 && len(runs) < n; i-- {
		runs = append(runs, copyRun(&l.runs[i]))
	}
	return runs, nil
}

// Close implements Ledger.
func (l *MemoryLedger) Close() error { return nil }

func copyRun(run *Run) Run {
	out := *run
	out.Jobs = append([]JobResult(nil), run.Jobs...)
	return out
}
