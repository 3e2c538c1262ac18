// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package movielensimport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/logging"
)

const (
	// checkpointKey is the BadgerDB key for the ratings checkpoint.
	checkpointKey = "import:movielens:checkpoint"
)

// ProgressTracker persists the import checkpoint.
type ProgressTracker interface {
	// Save persists the checkpoint.
	Save(ctx context.Context, cp *Checkpoint) error

	// Load returns the saved checkpoint, or nil, nil when there is none.
	Load(ctx context.Context) (*Checkpoint, error)

	// Clear removes the saved checkpoint.
	Clear(ctx context.Context) error
}

// BadgerProgress implements ProgressTracker using BadgerDB.
type BadgerProgress struct {
	db    *badger.DB
	owned bool
}

// NewBadgerProgress creates a tracker on an already open BadgerDB. The
// caller keeps ownership of db.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// OpenBadgerProgress opens a BadgerDB at path for checkpoints. An empty
// path opens an in-memory instance.
func OpenBadgerProgress(path string) (*BadgerProgress, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open import progress store: %w", err)
	}
	logging.Info().Str("path", path).Msg("Import progress store opened")
	return &BadgerProgress{db: db, owned: true}, nil
}

// Save persists the checkpoint to BadgerDB.
func (p *BadgerProgress) Save(_ context.Context, cp *Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(checkpointKey), data)
	})
}

// Load retrieves the saved checkpoint from BadgerDB.
func (p *BadgerProgress) Load(_ context.Context) (*Checkpoint, error) {
	var cp *Checkpoint
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(checkpointKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			cp = &Checkpoint{}
			return json.Unmarshal(val, cp)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return cp, nil
}

// Clear removes the saved checkpoint.
func (p *BadgerProgress) Clear(_ context.Context) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(checkpointKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Close closes the BadgerDB when this tracker opened it.
func (p *BadgerProgress) Close() error {
	if !p.owned {
		return nil
	}
	return p.db.Close()
}

// InMemoryProgress implements ProgressTracker in memory.
type InMemoryProgress struct {
	mu sync.Mutex
	cp *Checkpoint
}

// NewInMemoryProgress creates an in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{}
}

// Save stores a copy of the checkpoint.
func (p *InMemoryProgress) Save(_ context.Context, cp *Checkpoint) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := *cp
	p.cp = &c
	return nil
}

// Load returns a copy of the stored checkpoint.
func (p *InMemoryProgress) Load(_ context.Context) (*Checkpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cp == nil {
		return nil, nil
	}
	c := *p.cp
	return &c, nil
}

// Clear removes the stored checkpoint.
func (p *InMemoryProgress) Clear(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cp = nil
	return nil
}
