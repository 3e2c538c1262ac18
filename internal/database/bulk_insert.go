// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// bulkInsert describes a multi-row INSERT. The statement is
// "<prefix> VALUES (?,..),(?,..) <suffix>" with columns placeholders per row.
type bulkInsert struct {
	prefix  string
	suffix  string
	columns int
	rows    int
	args    func(i int) []any
}

// exec writes the rows inside tx in chunks of batchSize.
func (b bulkInsert) exec(ctx context.Context, tx *sql.Tx, batchSize int) error {
	if b.rows == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = DefaultInsertBatchSize
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", b.columns), ", ") + ")"

	for start := 0; start < b.rows; start += batchSize {
		end := start + batchSize
		if end > b.rows {
			end = b.rows
		}

		var sb strings.Builder
		sb.WriteString(b.prefix)
		sb.WriteString(" VALUES ")
		args := make([]any, 0, (end-start)*b.columns)
		for i := start; i < end; i++ {
			if i > start {
				sb.WriteString(", ")
			}
			sb.WriteString(tuple)
			args = append(args, b.args(i)...)
		}
		if b.suffix != "" {
			sb.WriteString(" ")
			sb.WriteString(b.suffix)
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}

// nullableInt passes a real NULL for a nil pointer.
func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// nullableString passes NULL for the empty string.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intPtrFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtrFromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
