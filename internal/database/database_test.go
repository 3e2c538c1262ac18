// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/models"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO
// connections from parallel tests can hang under CI resource pressure, so
// the slot is held for the whole test and released by t.Cleanup.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory database with timeout protection.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(cfg)
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// seedCatalog inserts a small catalog and returns it.
func seedCatalog(t *testing.T, db *DB) []models.Movie {
	t.Helper()
	movies := []models.Movie{
		{ID: 1, Title: "Toy Story", Year: models.IntPtr(1995), Genres: []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}},
		{ID: 2, Title: "Jumanji", Year: models.IntPtr(1995), Genres: []string{"Adventure", "Children", "Fantasy"}},
		{ID: 3, Title: "Grumpier Old Men", Year: models.IntPtr(1995), Genres: []string{"Comedy", "Romance"}},
		{ID: 4, Title: "Heat", Year: models.IntPtr(1995), Genres: []string{"Action", "Crime", "Thriller"}},
		{ID: 5, Title: "Untitled 100%_Project", Genres: []string{models.NoGenresListed}},
	}
	if _, err := db.UpsertMovies(testContext(t), movies); err != nil {
		t.Fatalf("UpsertMovies() error = %v", err)
	}
	return movies
}

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func TestNew_NilConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) expected error")
	}
}

func TestNew_FileDatabasePersists(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "cinerec.duckdb")
	cfg := &config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := testContext(t)
	if _, err := db.UpsertMovies(ctx, []models.Movie{{ID: 7, Title: "Se7en"}}); err != nil {
		t.Fatalf("UpsertMovies() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(cfg)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer reopened.Close()

	m, err := reopened.GetMovie(ctx, 7)
	if err != nil {
		t.Fatalf("GetMovie() error = %v", err)
	}
	if m == nil || m.Title != "Se7en" {
		t.Fatalf("GetMovie() = %+v, want persisted movie", m)
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(testContext(t)); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"toy", "toy"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
