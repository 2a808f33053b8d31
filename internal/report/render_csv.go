package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"turbotab/internal/table"
)

// writeCsvFiles writes each table to its own CSV file named for the table.
// The header row is written exactly once per file, even when the table holds
// no data rows.
func writeCsvFiles(allTableValues []table.TableValues, outputDir string) ([]string, error) {
	var paths []string
	for _, tableValues := range allTableValues {
		path := filepath.Join(outputDir, tableValues.FileName+".csv")
		if err := writeCsvFile(tableValues, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCsvFile(tableValues table.TableValues, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	header := make([]string, 0, len(tableValues.Fields))
	for _, field := range tableValues.Fields {
		header = append(header, field.Name)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header to %s: %w", path, err)
	}
	if len(tableValues.Fields) > 0 {
		numRows := len(tableValues.Fields[0].Values)
		record := make([]string, len(tableValues.Fields))
		for row := range numRows {
			for col, field := range tableValues.Fields {
				record[col] = field.Values[row]
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row to %s: %w", path, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file %s: %w", path, err)
	}
	return nil
}
