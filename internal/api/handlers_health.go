// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string                  `json:"status"`
	Database      bool                    `json:"database"`
	UptimeSeconds int64                   `json:"uptime_seconds"`
	Counts        *database.DatasetCounts `json:"counts,omitempty"`
	Engine        recommend.Stats         `json:"engine"`
	Precompute    *PrecomputeStatus       `json:"precompute,omitempty"`
}

// PrecomputeStatus reports whether a run is active and how the last ended.
type PrecomputeStatus struct {
	Running bool         `json:"running"`
	LastRun *storage.Run `json:"last_run,omitempty"`
}

// Health handles GET /api/v1/health. It answers 503 when the database is
// unreachable. Empty derived tables are reported as "degraded" because the
// engine then serves empty results until the first precompute run.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := HealthStatus{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Engine:        h.engine.Stats(),
	}
	if h.precompute != nil {
		status.Precompute = &PrecomputeStatus{
			Running: h.precompute.Running(),
			LastRun: h.precompute.Last(),
		}
	}

	if err := h.store.Ping(r.Context()); err != nil {
		status.Status = "unhealthy"
		respondErrorWithDetails(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Database unavailable", map[string]any{"health": status}, err)
		return
	}
	status.Database = true

	counts, err := h.store.Counts(r.Context())
	if err != nil {
		status.Status = "degraded"
	} else {
		status.Counts = counts
		if counts.Ratings > 0 && counts.RatedMovies == 0 {
			status.Status = "degraded"
		}
	}

	respondSuccess(w, r, http.StatusOK, status, start)
}

// Live handles GET /api/v1/health/live. It never touches the database.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}
