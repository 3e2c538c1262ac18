// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		err       error
		wantType  string
	}{
		{"success", "get_movie_ok", nil, ""},
		{"timeout", "get_movie_timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), "timeout"},
		{"constraint", "replace_stats", errors.New("Constraint Error: CHECK constraint failed"), "constraint"},
		{"other", "search", errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, 5*time.Millisecond, tt.err)
			if tt.err == nil {
				return
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.wantType))
			if got != 1 {
				t.Errorf("DBQueryErrors{%s,%s} = %v, want 1", tt.operation, tt.wantType, got)
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test", "200"))
	RecordAPIRequest("GET", "/api/v1/test", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test", "200"))
	if after-before != 1 {
		t.Errorf("APIRequestsTotal delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - start; got != 1 {
		t.Errorf("APIActiveRequests delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
}

func TestRecordEngineMetrics(t *testing.T) {
	RecordEngineCall("test_op", time.Millisecond)
	if got := testutil.ToFloat64(EngineRequests.WithLabelValues("test_op")); got != 1 {
		t.Errorf("EngineRequests = %v, want 1", got)
	}

	RecordEngineFallback("personalized", "test_reason")
	if got := testutil.ToFloat64(EngineFallbacks.WithLabelValues("personalized", "test_reason")); got != 1 {
		t.Errorf("EngineFallbacks = %v, want 1", got)
	}

	hits := testutil.ToFloat64(EngineCacheHits)
	misses := testutil.ToFloat64(EngineCacheMisses)
	RecordEngineCache(true)
	RecordEngineCache(false)
	RecordEngineCache(false)
	if d := testutil.ToFloat64(EngineCacheHits) - hits; d != 1 {
		t.Errorf("EngineCacheHits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(EngineCacheMisses) - misses; d != 2 {
		t.Errorf("EngineCacheMisses delta = %v, want 2", d)
	}
}

func TestRecordPrecomputeJob(t *testing.T) {
	RecordPrecomputeJob("test_job", time.Second, 42, nil)
	if got := testutil.ToFloat64(PrecomputeRowsWritten.WithLabelValues("test_job")); got != 42 {
		t.Errorf("PrecomputeRowsWritten = %v, want 42", got)
	}

	// A failure leaves the last row count in place.
	RecordPrecomputeJob("test_job", time.Second, 0, errors.New("failed"))
	if got := testutil.ToFloat64(PrecomputeFailures.WithLabelValues("test_job")); got != 1 {
		t.Errorf("PrecomputeFailures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(PrecomputeRowsWritten.WithLabelValues("test_job")); got != 42 {
		t.Errorf("PrecomputeRowsWritten after failure = %v, want 42", got)
	}

	at := time.Unix(1_700_000_000, 0)
	RecordPrecomputeSuccess(at)
	if got := testutil.ToFloat64(PrecomputeLastSuccess); got != float64(at.Unix()) {
		t.Errorf("PrecomputeLastSuccess = %v, want %v", got, at.Unix())
	}
}

func TestRecordImport(t *testing.T) {
	RecordImport("test_kind", 10, 2)
	if got := testutil.ToFloat64(ImportRows.WithLabelValues("test_kind")); got != 10 {
		t.Errorf("ImportRows = %v, want 10", got)
	}
	if got := testutil.ToFloat64(ImportSkipped.WithLabelValues("test_kind")); got != 2 {
		t.Errorf("ImportSkipped = %v, want 2", got)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.Canceled, "canceled"},
		{context.DeadlineExceeded, "timeout"},
		{errors.New("connection refused"), "connection"},
		{errors.New("unexpected"), "other"},
	}
	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
