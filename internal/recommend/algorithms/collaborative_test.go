// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
)

// collaborativeRatings:
//
//	      m10 m20 m30 m40
//	u1     5   5   1   .
//	u2     4   4   .   .
//	u3     .   .   5   5
func collaborativeRatings() []models.Rating {
	return []models.Rating{
		rating(1, 10, 5), rating(1, 20, 5), rating(1, 30, 1),
		rating(2, 10, 4), rating(2, 20, 4),
		rating(3, 30, 5), rating(3, 40, 5),
	}
}

func TestCollaborativeSimilarityScores(t *testing.T) {
	t.Parallel()

	edges, err := NewCollaborativeSimilarity(DefaultCollaborativeConfig()).Build(context.Background(), collaborativeRatings())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Unrated cells count as 0, so m30's norm includes u3's rating.
	weak := 5 / (math.Sqrt(41) * math.Sqrt(26))
	strong := 25 / (math.Sqrt(26) * 5)
	want := []struct {
		src, dst int
		score    float64
	}{
		{10, 20, 1}, {10, 30, weak},
		{20, 10, 1}, {20, 30, weak},
		{30, 40, strong}, {30, 10, weak}, {30, 20, weak},
		{40, 30, strong},
	}
	if len(edges) != len(want) {
		t.Fatalf("got %d edges, want %d: %+v", len(edges), len(want), edges)
	}
	for i, w := range want {
		e := edges[i]
		if e.SourceID != w.src || e.TargetID != w.dst || !approx(e.Score, w.score) {
			t.Errorf("edge %d = %d->%d %.5f, want %d->%d %.5f", i, e.SourceID, e.TargetID, e.Score, w.src, w.dst, w.score)
		}
		if e.Method != models.SimilarityCollaborative {
			t.Errorf("edge %d method = %q", i, e.Method)
		}
	}
}

func TestCollaborativeSimilarityTopKAndThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  CollaborativeConfig
		want map[edgeKey]bool
	}{
		{
			name: "top 1",
			cfg:  CollaborativeConfig{TopK: 1, MinScore: 0.1},
			want: map[edgeKey]bool{{10, 20}: true, {20, 10}: true, {30, 40}: true, {40, 30}: true},
		},
		{
			name: "threshold above weak links",
			cfg:  CollaborativeConfig{TopK: 20, MinScore: 0.2},
			want: map[edgeKey]bool{{10, 20}: true, {20, 10}: true, {30, 40}: true, {40, 30}: true},
		},
		{
			name: "top 2 ties resolved by id",
			cfg:  CollaborativeConfig{TopK: 2, MinScore: 0.1},
			want: map[edgeKey]bool{
				{10, 20}: true, {10, 30}: true, {20, 10}: true, {20, 30}: true,
				{30, 40}: true, {30, 10}: true, {40, 30}: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			edges, err := NewCollaborativeSimilarity(tt.cfg).Build(context.Background(), collaborativeRatings())
			if err != nil {
				t.Fatal(err)
			}
			got := edgeMap(edges)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k := range tt.want {
				if _, ok := got[k]; !ok {
					t.Errorf("missing edge %d->%d", k.src, k.dst)
				}
			}
		})
	}
}

func TestCollaborativeSimilarityWorkerCountIndependent(t *testing.T) {
	t.Parallel()

	var ratings []models.Rating
	for u := 1; u <= 40; u++ {
		for m := 1; m <= 30; m++ {
			if (u*m)%3 == 0 || (u+m)%5 == 0 {
				ratings = append(ratings, rating(u, m, float64((u+m)%10)/2+0.5))
			}
		}
	}

	one, err := NewCollaborativeSimilarity(CollaborativeConfig{TopK: 5, MinScore: 0.1, NumWorkers: 1}).Build(context.Background(), ratings)
	if err != nil {
		t.Fatal(err)
	}
	many, err := NewCollaborativeSimilarity(CollaborativeConfig{TopK: 5, MinScore: 0.1, NumWorkers: 7}).Build(context.Background(), ratings)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != len(many) {
		t.Fatalf("edge counts differ: %d vs %d", len(one), len(many))
	}
	perSource := make(map[int]int)
	for i := range one {
		if one[i] != many[i] {
			t.Fatalf("edge %d differs: %+v vs %+v", i, one[i], many[i])
		}
		perSource[one[i].SourceID]++
	}
	for src, n := range perSource {
		if n > 5 {
			t.Errorf("movie %d has %d edges, want <= 5", src, n)
		}
	}
}

func TestCollaborativeSimilarityLatestDuplicateWins(t *testing.T) {
	t.Parallel()

	ratings := collaborativeRatings()
	stale := models.Rating{UserID: 1, MovieID: 10, Value: 1, RatedAt: time.Unix(1_600_000_000, 0)}
	ratings = append([]models.Rating{stale}, ratings...)

	edges, err := NewCollaborativeSimilarity(DefaultCollaborativeConfig()).Build(context.Background(), ratings)
	if err != nil {
		t.Fatal(err)
	}
	if got := edgeMap(edges)[edgeKey{10, 20}]; !approx(got, 1) {
		t.Errorf("sim(10,20) = %v, want 1 with the newer rating", got)
	}
}

func TestCollaborativeSimilarityCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCollaborativeSimilarity(DefaultCollaborativeConfig()).Build(ctx, collaborativeRatings())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}
