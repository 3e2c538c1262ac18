// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/cinerec/internal/validation"
)

// MovieDetail handles GET /api/v1/movies/{movieID}.
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	movieID, err := pathID(r, "movieID")
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}

	movie := h.engine.MovieDetails(r.Context(), movieID)
	if movie == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, movie, start)
}

// PopularMovies handles GET /api/v1/movies/popular.
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, err := queryLimit(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, h.engine.PopularMovies(r.Context(), limit), start)
}

// SearchMovies handles GET /api/v1/movies/search?q=.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	req := SearchRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit: limit,
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondBadRequest(w, r, verr)
		return
	}
	respondSuccess(w, r, http.StatusOK, h.engine.SearchMovies(r.Context(), req.Query, req.Limit), start)
}

// Genres handles GET /api/v1/genres: every genre with its movie count.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	genres, err := h.store.ListGenres(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to list genres", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, genres, start)
}
