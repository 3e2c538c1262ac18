// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package movielensimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/cinerec/internal/logging"
)

// Dataset is a located pair of MovieLens files.
type Dataset struct {
	Format  Format
	Movies  string
	Ratings string
}

// DetectDataset finds the movies and ratings files in dir. CSV files win
// when both layouts are present.
func DetectDataset(dir string) (*Dataset, error) {
	candidates := []Dataset{
		{FormatCSV, filepath.Join(dir, "movies.csv"), filepath.Join(dir, "ratings.csv")},
		{FormatDAT, filepath.Join(dir, "movies.dat"), filepath.Join(dir, "ratings.dat")},
	}
	for i := range candidates {
		if fileExists(candidates[i].Movies) && fileExists(candidates[i].Ratings) {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("no MovieLens movies/ratings files found in %s", dir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// recordReader yields the data rows of one MovieLens file. Line counts
// data rows only; the CSV header and blank lines are not counted.
type recordReader struct {
	file    *os.File
	csv     *csv.Reader
	scanner *bufio.Scanner
	line    int64
}

func openRecords(path string, format Format) (*recordReader, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	r := &recordReader{file: f}

	switch format {
	case FormatCSV:
		cr := csv.NewReader(bufio.NewReaderSize(f, 1<<20))
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true
		cr.LazyQuotes = true
		if _, err := cr.Read(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("read %s header: %w", filepath.Base(path), err)
		}
		r.csv = cr
	case FormatDAT:
		// 1M and 10M releases are Latin-1.
		s := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(f))
		s.Buffer(make([]byte, 64*1024), 1<<20)
		r.scanner = s
	default:
		_ = f.Close()
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return r, nil
}

// Next returns the next row's fields. It returns io.EOF at the end.
// A row that cannot be tokenized is reported wrapped in errMalformed and
// still advances the line count.
func (r *recordReader) Next() ([]string, error) {
	if r.csv != nil {
		fields, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		r.line++
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", errMalformed, err)
		}
		if err != nil {
			return nil, err
		}
		return fields, nil
	}

	for r.scanner.Scan() {
		text := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		r.line++
		return strings.Split(text, "::"), nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Line returns the number of data rows read so far.
func (r *recordReader) Line() int64 {
	return r.line
}

func (r *recordReader) Close() {
	if err := r.file.Close(); err != nil {
		logging.Warn().Err(err).Str("file", r.file.Name()).Msg("Error closing MovieLens file")
	}
}
