// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/validation"
)

// CreateRating handles POST /api/v1/ratings. A second rating for the same
// (user, movie) replaces the first. Derived tables pick the rating up on
// the next precompute run.
func (h *Handler) CreateRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondBadRequest(w, r, verr)
		return
	}

	exists, err := h.store.MovieExists(r.Context(), req.MovieID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to look up movie", err)
		return
	}
	if !exists {
		respondErrorWithDetails(w, r, http.StatusNotFound, ErrCodeNotFound, "Movie not found",
			map[string]any{"movie_id": req.MovieID}, nil)
		return
	}

	rating := req.toRating(h.now())
	if _, err := h.store.UpsertRatings(r.Context(), []models.Rating{rating}); err != nil {
		if errors.Is(err, database.ErrInvalidRating) {
			respondBadRequest(w, r, err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to store rating", err)
		return
	}

	respondSuccess(w, r, http.StatusCreated, rating, start)
}

// UserRatings handles GET /api/v1/users/{userID}/ratings: one page of the
// user's rating history, most recent first, with the rated movies' fields.
// Limit follows the recommendation limits. An unknown user gets an empty page.
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := pathID(r, "userID")
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	page, err := queryPage(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}

	cfg := h.engine.Config()
	limit := page.Limit
	switch {
	case limit == 0:
		limit = cfg.DefaultLimit
	case limit > cfg.MaxLimit:
		limit = cfg.MaxLimit
	}

	history, err := h.store.ListUserRatings(r.Context(), userID, limit, page.Offset)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to list ratings", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, history, start)
}

// decodeJSON reads a single JSON object, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
