// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package middleware provides chi-compatible HTTP middleware for the CineRec API.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and stores it in the
    request context so every log line of the request carries it
  - AccessLog: one structured zerolog line per request
  - PrometheusMetrics: request count, latency and in-flight gauge

Every middleware has the func(http.Handler) http.Handler shape and is
installed with chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests with the chi route pattern
("/api/v1/movies/{movieID}") rather than the raw path, keeping label
cardinality bounded by the number of routes.
*/
package middleware
