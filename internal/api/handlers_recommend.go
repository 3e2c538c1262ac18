// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/validation"
)

// Similarity methods accepted in the {method} path segment.
const (
	methodCollaborative = "collaborative"
	methodContent       = "content"
	methodHybrid        = "hybrid"
)

// MovieRecommendations handles
// GET /api/v1/movies/{movieID}/recommendations/{method}.
func (h *Handler) MovieRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	movieID, err := pathID(r, "movieID")
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}

	ctx := r.Context()
	var recs []recommend.Recommendation
	switch method := chi.URLParam(r, "method"); method {
	case methodCollaborative:
		recs = h.engine.CollaborativeRecommendations(ctx, movieID, limit)
	case methodContent:
		recs = h.engine.ContentBasedRecommendations(ctx, movieID, limit)
	case methodHybrid:
		weights, werr := h.hybridWeights(r)
		if werr != nil {
			respondBadRequest(w, r, werr)
			return
		}
		recs = h.engine.HybridRecommendations(ctx, movieID, limit, weights)
	default:
		respondErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation,
			"method must be one of collaborative, content, hybrid",
			map[string]any{"field": "method", "value": sanitizeLogValue(method)}, nil)
		return
	}

	respondSuccess(w, r, http.StatusOK, recs, start)
}

// hybridWeights reads weight overrides, defaulting to the engine weights.
func (h *Handler) hybridWeights(r *http.Request) (recommend.Weights, error) {
	defaults := h.engine.Config().Weights
	collab, err := queryFloat(r, "collab_weight", defaults.Collaborative)
	if err != nil {
		return recommend.Weights{}, err
	}
	content, err := queryFloat(r, "content_weight", defaults.Content)
	if err != nil {
		return recommend.Weights{}, err
	}

	req := WeightsRequest{CollabWeight: collab, ContentWeight: content}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return recommend.Weights{}, verr
	}
	weights := recommend.Weights{Collaborative: req.CollabWeight, Content: req.ContentWeight}
	if !weights.Valid() {
		return recommend.Weights{}, &paramError{
			field: "collab_weight",
			value: r.URL.Query().Get("collab_weight"),
			msg:   "and content_weight must not both be zero",
		}
	}
	return weights, nil
}

// UserRecommendations handles GET /api/v1/users/{userID}/recommendations.
// Users without a profile get the popular list.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := pathID(r, "userID")
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, h.engine.PersonalizedRecommendations(r.Context(), userID, limit), start)
}

// UserProfile handles GET /api/v1/users/{userID}/profile.
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := pathID(r, "userID")
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}

	profile := h.engine.UserProfile(r.Context(), userID)
	if profile == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "User profile not found", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, profile, start)
}
