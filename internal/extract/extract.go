// Package extract parses the body of avx-turbo benchmark logs into structured
// measurement rows.
//
// Sample avx-turbo output:
// ...
// Will test up to 64 CPUs
// Cores | ID          | Description            | OVRLP3 | Mops | A/M-ratio | A/M-MHz | M/tsc-ratio
// 1     | scalar_iadd | Scalar integer adds    |  1.000 | 3901 |      1.95 |    3900 |        1.00
// 1     | avx128_fma  | 128-bit serial DP FMAs |  1.000 |  974 |      1.95 |    3900 |        1.00
//
// Cores | ID          | Description            | OVRLP3 |       Mops |    A/M-ratio |    A/M-MHz | M/tsc-ratio
// 2     | scalar_iadd | Scalar integer adds    |  1.000 | 3901, 3901 |  1.95,  1.95 | 3900, 3900 |  1.00, 1.00
// 2     | avx128_fma  | 128-bit serial DP FMAs |  1.000 |  974,  974 |  1.95,  1.95 | 3900, 3900 |  1.00, 1.00
// ...
//
// The header line's exact column layout differs slightly release-to-release,
// so column positions are resolved by header token name, never by fixed
// offset. A cell may hold one sample or a comma-separated sample list; samples
// are averaged per line, and repeated lines for the same measurement key
// within one file are averaged as well.
package extract

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"turbotab/internal/logfile"
	"turbotab/internal/util"
)

// header tokens recognized in the avx-turbo table header
const (
	colCores       = "Cores"
	colID          = "ID"
	colDescription = "Description"
	colMops        = "Mops"
	colMHz         = "A/M-MHz"
)

// DefaultRow is one averaged measurement from a default-category log
type DefaultRow struct {
	Cores       int
	ID          string
	Description string
	MopsAvg     float64
	MHzAvg      float64
}

// SpreadRow is one averaged measurement from a socket- or server-category log,
// i.e., a run with the cores split into a scalar group and an avx group
type SpreadRow struct {
	Cores  int
	ID     string
	SValue int // scalar core count, from the log file name
	AValue int // avx core count, from the log file name
	MHzAvg float64
}

// ParseFile opens and parses a classified log file. Default-category files
// yield DefaultRows, socket/server files yield SpreadRows; the other slice is
// nil. A log with no parseable data lines yields zero rows, not an error.
func ParseFile(lf logfile.LogFile) ([]DefaultRow, []SpreadRow, error) {
	f, err := os.Open(lf.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", lf.Path, err)
	}
	defer f.Close()
	if lf.Category == logfile.CategoryDefault {
		rows, err := ParseDefault(f, lf.Name)
		return rows, nil, err
	}
	rows, err := ParseSpread(f, lf)
	return nil, rows, err
}

// ParseDefault extracts averaged per-instruction rows from a default-category
// log body. Rows are keyed by (cores, id); a default run sweeps core counts
// and prints a fresh header block per count.
func ParseDefault(r io.Reader, name string) ([]DefaultRow, error) {
	type key struct {
		cores int
		id    string
	}
	type accum struct {
		description string
		mopsSum     float64
		mhzSum      float64
		count       int
	}
	accums := map[key]*accum{}
	var order []key

	var columns map[string]int
	sawHeader := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if isHeaderLine(line) {
			columns = headerColumns(line)
			sawHeader = true
			continue
		}
		if columns == nil {
			continue // preamble (CPUID, tsc_freq, "Will test ...", etc.)
		}
		fields, ok := dataFields(line, columns, name)
		if !ok {
			continue
		}
		cores, err := strconv.Atoi(fields[colCores])
		if err != nil {
			continue // not a data line
		}
		id := fields[colID]
		mops, err := cellMean(fields[colMops])
		if err != nil {
			slog.Warn("skipping line with unparseable Mops value", slog.String("file", name), slog.String("value", fields[colMops]))
			continue
		}
		mhz, err := cellMean(fields[colMHz])
		if err != nil {
			slog.Warn("skipping line with unparseable A/M-MHz value", slog.String("file", name), slog.String("value", fields[colMHz]))
			continue
		}
		k := key{cores, id}
		a, exists := accums[k]
		if !exists {
			a = &accum{}
			accums[k] = a
			order = append(order, k)
		}
		a.description = fields[colDescription]
		a.mopsSum += mops
		a.mhzSum += mhz
		a.count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file %s: %w", name, err)
	}
	if !sawHeader {
		slog.Warn("no measurement table header found in log", slog.String("file", name))
		return nil, nil
	}
	rows := make([]DefaultRow, 0, len(order))
	for _, k := range order {
		a := accums[k]
		rows = append(rows, DefaultRow{
			Cores:       k.cores,
			ID:          k.id,
			Description: a.description,
			MopsAvg:     a.mopsSum / float64(a.count),
			MHzAvg:      a.mhzSum / float64(a.count),
		})
	}
	return rows, nil
}

// ParseSpread extracts averaged per-instruction rows from a socket- or
// server-category log body. The scalar/avx core split comes from the file
// name, which is authoritative; each run prints one line per active
// instruction type, repeated once per sampling interval.
func ParseSpread(r io.Reader, lf logfile.LogFile) ([]SpreadRow, error) {
	type accum struct {
		cores  int
		mhzSum float64
		count  int
	}
	accums := map[string]*accum{}
	var order []string

	var columns map[string]int
	sawHeader := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if isHeaderLine(line) {
			columns = headerColumns(line)
			sawHeader = true
			continue
		}
		if columns == nil {
			continue
		}
		fields, ok := dataFields(line, columns, lf.Name)
		if !ok {
			continue
		}
		cores, err := strconv.Atoi(fields[colCores])
		if err != nil {
			continue
		}
		id := fields[colID]
		mhz, err := cellMean(fields[colMHz])
		if err != nil {
			slog.Warn("skipping line with unparseable A/M-MHz value", slog.String("file", lf.Name), slog.String("value", fields[colMHz]))
			continue
		}
		a, exists := accums[id]
		if !exists {
			a = &accum{}
			accums[id] = a
			order = append(order, id)
		}
		a.cores = cores
		a.mhzSum += mhz
		a.count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file %s: %w", lf.Name, err)
	}
	if !sawHeader {
		slog.Warn("no measurement table header found in log", slog.String("file", lf.Name))
		return nil, nil
	}
	rows := make([]SpreadRow, 0, len(order))
	for _, id := range order {
		a := accums[id]
		rows = append(rows, SpreadRow{
			Cores:  a.cores,
			ID:     id,
			SValue: lf.SCores,
			AValue: lf.ACores,
			MHzAvg: a.mhzSum / float64(a.count),
		})
	}
	return rows, nil
}

// isHeaderLine reports whether the line is an avx-turbo table header
func isHeaderLine(line string) bool {
	return strings.Contains(line, "|") && strings.Contains(line, colCores) && strings.Contains(line, colID)
}

// headerColumns maps header token names to their column index
func headerColumns(line string) map[string]int {
	columns := map[string]int{}
	for i, token := range strings.Split(line, "|") {
		columns[strings.TrimSpace(token)] = i
	}
	return columns
}

// requiredColumns are the header tokens a data line must resolve for a row to
// be extracted. Mops is absent from some spread-run outputs, so it is filled
// with "0" when the header doesn't carry it.
var requiredColumns = []string{colCores, colID, colDescription, colMHz}

// dataFields projects a data line through the header column mapping. Returns
// false for lines that aren't data lines (no cell separators) or that are too
// short for the mapped columns.
func dataFields(line string, columns map[string]int, name string) (map[string]string, bool) {
	if !strings.Contains(line, "|") {
		return nil, false
	}
	parts := strings.Split(line, "|")
	fields := map[string]string{}
	for _, col := range requiredColumns {
		idx, ok := columns[col]
		if !ok || idx >= len(parts) {
			slog.Warn("data line missing required column", slog.String("file", name), slog.String("column", col))
			return nil, false
		}
		fields[col] = strings.TrimSpace(parts[idx])
	}
	if idx, ok := columns[colMops]; ok && idx < len(parts) {
		fields[colMops] = strings.TrimSpace(parts[idx])
	} else {
		fields[colMops] = "0"
	}
	return fields, true
}

// cellMean parses a cell that holds one value or a comma-separated sample
// list and returns the arithmetic mean of the samples
func cellMean(cell string) (float64, error) {
	var vals []float64
	for _, s := range strings.Split(cell, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("empty cell")
	}
	return util.Mean(vals), nil
}
