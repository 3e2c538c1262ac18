// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/middleware"
)

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	RateLimitDisabled  bool

	// RequestTimeout bounds each request; zero disables the timeout.
	// The admin precompute trigger with ?wait=true is exempt.
	RequestTimeout time.Duration
}

// DefaultRouterConfig returns the defaults: no CORS origins, 100
// requests per minute per IP, 30s request timeout.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORSAllowedOrigins: []string{},
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     30 * time.Second,
	}
}

// RouterConfigFrom maps the server section of the application config.
func RouterConfigFrom(cfg *config.ServerConfig) RouterConfig {
	rc := DefaultRouterConfig()
	if cfg == nil {
		return rc
	}
	rc.CORSAllowedOrigins = cfg.CORSOrigins
	if cfg.RateLimitReqs > 0 {
		rc.RateLimitRequests = cfg.RateLimitReqs
	}
	if cfg.RateLimitWindow > 0 {
		rc.RateLimitWindow = cfg.RateLimitWindow
	}
	rc.RateLimitDisabled = cfg.RateLimitDisabled
	rc.RequestTimeout = cfg.Timeout
	return rc
}

// NewRouter builds the chi router for h.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         86400,
	}))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if !cfg.RateLimitDisabled {
			r.Use(httprate.Limit(
				cfg.RateLimitRequests,
				cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					respondError(w, req, http.StatusTooManyRequests, ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				}),
			))
		}

		// Long-running admin trigger, outside the request timeout.
		r.Post("/admin/precompute", h.TriggerPrecompute)

		r.Group(func(r chi.Router) {
			if cfg.RequestTimeout > 0 {
				r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
			}

			r.Get("/health", h.Health)
			r.Get("/health/live", h.Live)

			r.Route("/movies", func(r chi.Router) {
				r.Get("/popular", h.PopularMovies)
				r.Get("/search", h.SearchMovies)
				r.Get("/{movieID}", h.MovieDetail)
				r.Get("/{movieID}/recommendations/{method}", h.MovieRecommendations)
			})

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/recommendations", h.UserRecommendations)
				r.Get("/profile", h.UserProfile)
				r.Get("/ratings", h.UserRatings)
			})

			r.Post("/ratings", h.CreateRating)
			r.Get("/genres", h.Genres)

			r.Get("/admin/precompute/runs", h.PrecomputeRuns)
			r.Get("/admin/precompute/runs/{runID}", h.PrecomputeRun)
		})
	})

	return r
}
