// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package api exposes the recommendation engine over HTTP with a chi router.

Endpoints:

	GET  /api/v1/health
	GET  /api/v1/health/live
	GET  /api/v1/movies/popular?limit=
	GET  /api/v1/movies/search?q=&limit=
	GET  /api/v1/movies/{movieID}
	GET  /api/v1/movies/{movieID}/recommendations/{method}?limit=&collab_weight=&content_weight=
	GET  /api/v1/users/{userID}/recommendations?limit=
	GET  /api/v1/users/{userID}/profile
	GET  /api/v1/users/{userID}/ratings?limit=&offset=
	POST /api/v1/ratings
	GET  /api/v1/genres
	POST /api/v1/admin/precompute?wait=
	GET  /api/v1/admin/precompute/runs?limit=
	GET  /api/v1/admin/precompute/runs/{runID}
	GET  /metrics

{method} is one of collaborative, content or hybrid. Hybrid weights
default to the engine configuration and are applied as given.

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": [...], "metadata": {"timestamp": "...", "count": 10}}
	{"status": "error", "data": null, "error": {"code": "NOT_FOUND", "message": "..."}}

Missing data is not an error: an unknown movie's recommendations and a
cold-start user's recommendations are 200 responses with lists. Only a
single-record lookup (movie detail, user profile, run) returns 404.

Middleware order: request ID, real IP, panic recovery, access log, CORS,
Prometheus metrics, compression, request timeout; /api/v1 is rate limited
per client IP with httprate.
*/
package api
