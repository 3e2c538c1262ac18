// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// LimitRequest is the common ?limit= parameter. Zero means the engine
// default; values above the engine maximum are clamped by the engine.
type LimitRequest struct {
	Limit int `json:"limit" validate:"gte=0"`
}

// SearchRequest holds /movies/search parameters.
type SearchRequest struct {
	Query string `json:"q" validate:"required,max=200"`
	Limit int    `json:"limit" validate:"gte=0"`
}

// PageRequest holds ?limit= and ?offset= for paged listings.
type PageRequest struct {
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}

// WeightsRequest holds hybrid weight overrides.
type WeightsRequest struct {
	CollabWeight  float64 `json:"collab_weight" validate:"gte=0,lte=1000"`
	ContentWeight float64 `json:"content_weight" validate:"gte=0,lte=1000"`
}

// RatingRequest is the body of POST /ratings. Timestamp is Unix seconds
// and defaults to the time of the request.
type RatingRequest struct {
	UserID    int     `json:"user_id" validate:"required,gt=0"`
	MovieID   int     `json:"movie_id" validate:"required,gt=0"`
	Rating    float64 `json:"rating" validate:"gte=0.5,lte=5,rating_step"`
	Timestamp *int64  `json:"timestamp,omitempty" validate:"omitempty,gt=0"`
}

// toRating converts the request to a domain rating.
func (req *RatingRequest) toRating(now time.Time) models.Rating {
	ratedAt := now.UTC().Truncate(time.Second)
	if req.Timestamp != nil {
		ratedAt = time.Unix(*req.Timestamp, 0).UTC()
	}
	return models.Rating{
		UserID:  req.UserID,
		MovieID: req.MovieID,
		Value:   req.Rating,
		RatedAt: ratedAt,
	}
}

// paramError is a malformed path or query parameter.
type paramError struct {
	field string
	value string
	msg   string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s %s", e.field, e.msg)
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &paramError{field: name, value: raw, msg: "must be a positive integer"}
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{field: name, value: raw, msg: "must be an integer"}
	}
	return v, nil
}

// queryFloat parses an optional float query parameter, returning def when
// it is absent.
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &paramError{field: name, value: raw, msg: "must be a number"}
	}
	return v, nil
}

// queryLimit parses and validates ?limit=.
func queryLimit(r *http.Request) (int, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return 0, err
	}
	req := LimitRequest{Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return 0, verr
	}
	return req.Limit, nil
}

// queryPage parses and validates ?limit= and ?offset=.
func queryPage(r *http.Request) (PageRequest, error) {
	var req PageRequest
	var err error
	if req.Limit, err = queryInt(r, "limit"); err != nil {
		return req, err
	}
	if req.Offset, err = queryInt(r, "offset"); err != nil {
		return req, err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return req, verr
	}
	return req, nil
}

// respondBadRequest maps parameter and validation errors to a 400.
func respondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	var perr *paramError
	if errors.As(err, &perr) {
		respondErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation, perr.Error(),
			map[string]any{"field": perr.field, "value": sanitizeLogValue(perr.value)}, nil)
		return
	}

	respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
}
