// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/recommend/precompute"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
)

// defaultRunsLimit is the page size of GET /admin/precompute/runs.
const defaultRunsLimit = 20

// TriggerPrecompute handles POST /api/v1/admin/precompute.
//
// By default the run starts in the background and the handler answers
// 202. With ?wait=true the handler blocks and returns the finished run,
// or 500 with the run in the error details when a job failed. A run
// already in progress yields 409 either way.
func (h *Handler) TriggerPrecompute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.precompute == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Precompute is disabled", nil)
		return
	}

	wait := false
	if raw := r.URL.Query().Get("wait"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(w, r, &paramError{field: "wait", value: raw, msg: "must be a boolean"})
			return
		}
		wait = v
	}

	if h.precompute.Running() {
		respondConflict(w, r)
		return
	}

	// The run outlives the request either way; the pipeline applies its
	// own timeout.
	ctx := context.WithoutCancel(r.Context())

	if !wait {
		go func() {
			if _, err := h.precompute.Run(ctx, "api"); err != nil && !errors.Is(err, precompute.ErrRunInProgress) {
				logging.Ctx(ctx).Warn().Err(err).Msg("Background precompute run failed")
			}
		}()
		respondSuccess(w, r, http.StatusAccepted, map[string]string{"status": "started"}, start)
		return
	}

	run, err := h.precompute.Run(ctx, "api")
	switch {
	case errors.Is(err, precompute.ErrRunInProgress):
		respondConflict(w, r)
	case err != nil:
		respondErrorWithDetails(w, r, http.StatusInternalServerError, ErrCodePrecomputeFailed,
			"Precompute run failed", map[string]any{"run": run}, err)
	default:
		respondSuccess(w, r, http.StatusOK, run, start)
	}
}

func respondConflict(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusConflict, ErrCodeConflict, "A precompute run is already in progress", nil)
}

// PrecomputeRuns handles GET /api/v1/admin/precompute/runs, newest first.
func (h *Handler) PrecomputeRuns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.precompute == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Precompute is disabled", nil)
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	if limit == 0 {
		limit = defaultRunsLimit
	}

	runs, err := h.precompute.Ledger().LastRuns(r.Context(), limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to read run ledger", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, runs, start)
}

// PrecomputeRun handles GET /api/v1/admin/precompute/runs/{runID}.
func (h *Handler) PrecomputeRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.precompute == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Precompute is disabled", nil)
		return
	}

	run, err := h.precompute.Ledger().GetRun(r.Context(), chi.URLParam(r, "runID"))
	switch {
	case errors.Is(err, storage.ErrRunNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Run not found", nil)
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to read run ledger", err)
	default:
		respondSuccess(w, r, http.StatusOK, run, start)
	}
}
