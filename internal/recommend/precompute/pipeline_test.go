// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package precompute

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
)

// fakeStore is an in-memory Store. Errors injected through fail are
// returned by the matching sink method.
type fakeStore struct {
	mu sync.Mutex

	movies  []models.Movie
	ratings []models.Rating
	loadErr error

	// When set, AllMovies signals entered and waits for release.
	entered chan struct{}
	release chan struct{}

	fail map[string]error

	stats    []models.MovieStats
	vocab    []string
	vectors  []models.GenreVector
	edges    map[models.SimilarityMethod][]models.SimilarityEdge
	profiles []models.UserProfile
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		movies: []models.Movie{
			{ID: 1, Title: "Toy Story", Genres: []string{"Animation", "Comedy"}},
			{ID: 2, Title: "Shrek", Genres: []string{"Animation"}},
			{ID: 3, Title: "Airplane!", Genres: []string{"Comedy"}},
			{ID: 4, Title: "Untitled", Genres: []string{models.NoGenresListed}},
		},
		ratings: []models.Rating{
			{UserID: 1, MovieID: 1, Value: 5, RatedAt: time.Unix(100, 0)},
			{UserID: 1, MovieID: 2, Value: 4, RatedAt: time.Unix(200, 0)},
			{UserID: 2, MovieID: 1, Value: 4, RatedAt: time.Unix(100, 0)},
			{UserID: 2, MovieID: 2, Value: 5, RatedAt: time.Unix(200, 0)},
			{UserID: 2, MovieID: 3, Value: 3, RatedAt: time.Unix(300, 0)},
			{UserID: 3, MovieID: 3, Value: 4, RatedAt: time.Unix(100, 0)},
		},
		fail:  map[string]error{},
		edges: map[models.SimilarityMethod][]models.SimilarityEdge{},
	}
}

func (f *fakeStore) AllMovies(context.Context) ([]models.Movie, error) {
	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.movies, nil
}

func (f *fakeStore) AllRatings(context.Context) ([]models.Rating, error) {
	return f.ratings, nil
}

func (f *fakeStore) ReplaceMovieStats(_ context.Context, stats []models.MovieStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["stats"]; err != nil {
		return err
	}
	f.stats = stats
	return nil
}

func (f *fakeStore) ReplaceGenreVectors(_ context.Context, vocab []string, vectors []models.GenreVector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["vectors"]; err != nil {
		return err
	}
	f.vocab, f.vectors = vocab, vectors
	return nil
}

func (f *fakeStore) ReplaceSimilarity(_ context.Context, method models.SimilarityMethod, edges []models.SimilarityEdge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[string(method)]; err != nil {
		return err
	}
	f.edges[method] = edges
	return nil
}

func (f *fakeStore) ReplaceUserProfiles(_ context.Context, profiles []models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["profiles"]; err != nil {
		return err
	}
	f.profiles = profiles
	return nil
}

func newTestPipeline(t *testing.T, store Store, ledger storage.Ledger) *Pipeline {
	t.Helper()
	p, err := NewPipeline(store, ledger, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return p
}

func jobStatuses(run *storage.Run) []storage.Status {
	out := make([]storage.Status, len(run.Jobs))
	for i, j := range run.Jobs {
		out[i] = j.Status
	}
	return out
}

func TestNewPipeline_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewPipeline(nil, nil, DefaultConfig(), zerolog.Nop()); err == nil {
		t.Error("NewPipeline(nil store) should fail")
	}

	cfg := DefaultConfig()
	cfg.CollaborativeTopK = 0
	if _, err := NewPipeline(newFakeStore(), nil, cfg, zerolog.Nop()); err == nil {
		t.Error("NewPipeline(top-k 0) should fail")
	}

	cfg = DefaultConfig()
	cfg.Timeout = -time.Second
	if _, err := NewPipeline(newFakeStore(), nil, cfg, zerolog.Nop()); err == nil {
		t.Error("NewPipeline(negative timeout) should fail")
	}

	p := newTestPipeline(t, newFakeStore(), nil)
	if p.Ledger() == nil {
		t.Error("nil ledger should default to an in-memory ledger")
	}
}

func TestRun_AllJobsSucceed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFakeStore()
	ledger := storage.NewMemoryLedger(10)
	p := newTestPipeline(t, store, ledger)

	var hooked *storage.Run
	p.OnComplete(func(r *storage.Run) { hooked = r })

	run, err := p.Run(ctx, "api")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Status != storage.StatusSucceeded || run.Trigger != "api" || run.ID == "" {
		t.Errorf("run = %+v", run)
	}

	wantJobs := []string{JobMovieStats, JobGenreContent, JobCollaborative, JobUserProfiles}
	if len(run.Jobs) != len(wantJobs) {
		t.Fatalf("len(Jobs) = %d, want %d", len(run.Jobs), len(wantJobs))
	}
	for i, name := range wantJobs {
		if run.Jobs[i].Job != name || run.Jobs[i].Status != storage.StatusSucceeded {
			t.Errorf("Jobs[%d] = %+v, want %s succeeded", i, run.Jobs[i], name)
		}
	}

	if len(store.stats) != 3 || run.Jobs[0].Rows != 3 {
		t.Errorf("movie stats rows = %d (job %d), want 3", len(store.stats), run.Jobs[0].Rows)
	}
	if want := []string{"Animation", "Comedy"}; len(store.vocab) != 2 || store.vocab[0] != want[0] || store.vocab[1] != want[1] {
		t.Errorf("vocabulary = %v, want %v", store.vocab, want)
	}
	if len(store.vectors) != 4 {
		t.Errorf("genre vectors = %d, want 4", len(store.vectors))
	}
	// 1-2 and 1-3 share a genre, 2-3 do not; both directions are stored.
	if n := len(store.edges[models.SimilarityContent]); n != 4 || run.Jobs[1].Rows != 4 {
		t.Errorf("content edges = %d (job %d), want 4", n, run.Jobs[1].Rows)
	}
	if n := len(store.edges[models.SimilarityCollaborative]); n != 6 || run.Jobs[2].Rows != 6 {
		t.Errorf("collaborative edges = %d (job %d), want 6", n, run.Jobs[2].Rows)
	}
	if len(store.profiles) != 3 {
		t.Errorf("profiles = %d, want 3", len(store.profiles))
	}

	if hooked == nil || hooked.ID != run.ID {
		t.Error("completion hook not called with the run")
	}
	if p.Last() == nil || p.Last().ID != run.ID {
		t.Error("Last() does not return the finished run")
	}
	if p.Running() {
		t.Error("Running() = true after Run returned")
	}

	recorded, err := ledger.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ledger.GetRun() error = %v", err)
	}
	if recorded.Status != storage.StatusSucceeded || len(recorded.Jobs) != 4 {
		t.Errorf("recorded run = %+v", recorded)
	}
}

func TestRun_FailedJobDoesNotStopLaterJobs(t *testing.T) {
	t.Parallel()

	injected := errors.New("constraint violation")
	store := newFakeStore()
	store.fail[string(models.SimilarityCollaborative)] = injected
	p := newTestPipeline(t, store, nil)

	hookCalls := 0
	p.OnComplete(func(*storage.Run) { hookCalls++ })

	run, err := p.Run(context.Background(), "schedule")
	if !errors.Is(err, injected) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, injected)
	}
	if run == nil || run.Status != storage.StatusFailed {
		t.Fatalf("run = %+v, want failed", run)
	}

	want := []storage.Status{storage.StatusSucceeded, storage.StatusSucceeded, storage.StatusFailed, storage.StatusSucceeded}
	got := jobStatuses(run)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("job %d status = %s, want %s", i, got[i], want[i])
		}
	}
	if run.Jobs[2].Error == "" || run.Jobs[2].Rows != 0 {
		t.Errorf("failed job = %+v", run.Jobs[2])
	}
	if len(store.profiles) != 3 {
		t.Error("user_profiles should still run after a failed job")
	}
	if hookCalls != 1 {
		t.Errorf("hook calls = %d, want 1", hookCalls)
	}
}

func TestRun_MultipleFailuresJoined(t *testing.T) {
	t.Parallel()

	statsErr := errors.New("stats down")
	profileErr := errors.New("profiles down")
	store := newFakeStore()
	store.fail["stats"] = statsErr
	store.fail["profiles"] = profileErr
	p := newTestPipeline(t, store, nil)

	_, err := p.Run(context.Background(), "api")
	if !errors.Is(err, statsErr) || !errors.Is(err, profileErr) {
		t.Errorf("Run() error = %v, want both job errors", err)
	}
}

func TestRun_LoadFailureFailsEveryJob(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("database unavailable")
	store := newFakeStore()
	store.loadErr = loadErr
	ledger := storage.NewMemoryLedger(10)
	p := newTestPipeline(t, store, ledger)

	run, err := p.Run(context.Background(), "startup")
	if !errors.Is(err, loadErr) {
		t.Fatalf("Run() error = %v, want %v", err, loadErr)
	}
	if len(run.Jobs) != 4 {
		t.Fatalf("len(Jobs) = %d, want 4", len(run.Jobs))
	}
	for _, j := range run.Jobs {
		if j.Status != storage.StatusFailed {
			t.Errorf("job %s status = %s, want failed", j.Job, j.Status)
		}
	}
	if store.stats != nil {
		t.Error("no table should be replaced when inputs fail to load")
	}

	runs, _ := ledger.LastRuns(context.Background(), 1)
	if len(runs) != 1 || runs[0].Status != storage.StatusFailed {
		t.Errorf("ledger = %+v, want one failed run", runs)
	}
}

func TestRun_SingleFlight(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.entered = make(chan struct{})
	store.release = make(chan struct{})
	p := newTestPipeline(t, store, nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), "schedule")
		done <- err
	}()

	select {
	case <-store.entered:
	case <-time.After(10 * time.Second):
		t.Fatal("first run never started")
	}

	if !p.Running() {
		t.Error("Running() = false during a run")
	}
	if run, err := p.Run(context.Background(), "api"); !errors.Is(err, ErrRunInProgress) || run != nil {
		t.Errorf("second Run() = %v, %v; want nil, ErrRunInProgress", run, err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ledger := storage.NewMemoryLedger(10)
	p := newTestPipeline(t, newFakeStore(), ledger)

	run, err := p.Run(ctx, "api")
	if err == nil {
		t.Fatal("Run() with canceled context should report failed similarity jobs")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	// The ledger write ignores the run's cancellation.
	if _, err := ledger.GetRun(context.Background(), run.ID); err != nil {
		t.Errorf("canceled run not recorded: %v", err)
	}
}
