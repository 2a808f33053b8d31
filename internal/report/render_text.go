package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"strings"

	"turbotab/internal/table"
)

func writeTextReport(allTableValues []table.TableValues, path string) ([]string, error) {
	out := createTextReport(allTableValues)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return nil, fmt.Errorf("failed to write text report %s: %w", path, err)
	}
	return []string{path}, nil
}

func createTextReport(allTableValues []table.TableValues) []byte {
	var sb strings.Builder
	for _, tableValues := range allTableValues {
		sb.WriteString(fmt.Sprintf("%s\n", tableValues.Name))
		for range len(tableValues.Name) {
			sb.WriteString("=")
		}
		sb.WriteString("\n")
		if len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0 {
			msg := tableValues.NoDataFound
			if msg == "" {
				msg = "No data found."
			}
			sb.WriteString(msg + "\n\n")
			continue
		}
		sb.WriteString(RenderTextTable(tableValues))
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// RenderTextTable prints the field names as column headings across the top of
// the table followed by the rows of values
func RenderTextTable(tableValues table.TableValues) string {
	var sb strings.Builder
	// find the longest item per column -- can be the field name (column header) or a value
	maxFieldLen := make(map[string]int)
	for i, field := range tableValues.Fields {
		// the last column shouldn't occupy more space than the value
		if i == len(tableValues.Fields)-1 {
			maxFieldLen[field.Name] = 0
			continue
		}
		maxFieldLen[field.Name] = len(field.Name)
		for _, val := range field.Values {
			if len(val) > maxFieldLen[field.Name] {
				maxFieldLen[field.Name] = len(val)
			}
		}
	}
	columnSpacing := 3
	// print the field names
	for _, field := range tableValues.Fields {
		sb.WriteString(fmt.Sprintf("%-*s", maxFieldLen[field.Name]+columnSpacing, field.Name))
	}
	sb.WriteString("\n")
	// underline the field names
	for _, field := range tableValues.Fields {
		underline := strings.Repeat("-", len(field.Name))
		sb.WriteString(fmt.Sprintf("%-*s", maxFieldLen[field.Name]+columnSpacing, underline))
	}
	sb.WriteString("\n")
	// print the rows
	numRows := len(tableValues.Fields[0].Values)
	for row := range numRows {
		for fieldIdx, field := range tableValues.Fields {
			sb.WriteString(fmt.Sprintf("%-*s", maxFieldLen[field.Name]+columnSpacing, tableValues.Fields[fieldIdx].Values[row]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
