package tabulate

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Knetic/govaluate"
	mapset "github.com/deckarep/golang-set/v2"

	"turbotab/internal/extract"
)

// filterVariables are the row attributes a --filter expression may reference.
// Default rows expose s and a as 0; spread rows expose mops as 0.
var filterVariables = mapset.NewSet("cores", "id", "description", "mops", "mhz", "s", "a")

// RowFilter evaluates a boolean expression against measurement rows. Rows for
// which the expression is false (or fails to evaluate) are excluded from the
// output tables.
type RowFilter struct {
	expression *govaluate.EvaluableExpression
}

// NewRowFilter parses and validates a filter expression, e.g.,
// "cores > 4 && mhz < 3500". The expression is parsed once and reused for
// every row. Unknown variable names are rejected up front.
func NewRowFilter(expression string) (*RowFilter, error) {
	evaluable, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter expression: %w", err)
	}
	unknown := mapset.NewSet(evaluable.Vars()...).Difference(filterVariables)
	if unknown.Cardinality() > 0 {
		return nil, fmt.Errorf("unknown filter variable(s): %s (known: %s)",
			strings.Join(unknown.ToSlice(), ", "), strings.Join(filterVariables.ToSlice(), ", "))
	}
	return &RowFilter{expression: evaluable}, nil
}

// MatchDefault reports whether a default-category row passes the filter
func (f *RowFilter) MatchDefault(row extract.DefaultRow) bool {
	return f.match(map[string]any{
		"cores":       row.Cores,
		"id":          row.ID,
		"description": row.Description,
		"mops":        row.MopsAvg,
		"mhz":         row.MHzAvg,
		"s":           0,
		"a":           0,
	})
}

// MatchSpread reports whether a socket/server-category row passes the filter
func (f *RowFilter) MatchSpread(row extract.SpreadRow) bool {
	return f.match(map[string]any{
		"cores":       row.Cores,
		"id":          row.ID,
		"description": "",
		"mops":        0,
		"mhz":         row.MHzAvg,
		"s":           row.SValue,
		"a":           row.AValue,
	})
}

func (f *RowFilter) match(parameters map[string]any) bool {
	result, err := f.expression.Evaluate(parameters)
	if err != nil {
		slog.Warn("filter expression failed to evaluate, excluding row", slog.String("error", err.Error()))
		return false
	}
	boolResult, ok := result.(bool)
	if !ok {
		slog.Warn("filter expression did not evaluate to a boolean, excluding row", slog.String("expression", f.expression.String()))
		return false
	}
	return boolResult
}
