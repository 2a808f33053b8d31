// Package report serializes output tables to files in csv, txt, and xlsx formats.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"turbotab/internal/table"
	"turbotab/internal/util"
)

const (
	FormatCsv  = "csv"
	FormatTxt  = "txt"
	FormatXlsx = "xlsx"
	FormatAll  = "all"
)

// FormatOptions are the supported output formats
var FormatOptions = []string{FormatCsv, FormatTxt, FormatXlsx}

// combined-report base name for the formats that place all tables in one file
const combinedReportName = "tables"

// WriteReports serializes the tables to the output directory in each of the
// requested formats. The directory is created if absent; existing files at
// the same paths are overwritten. Returns the paths of the files written.
func WriteReports(allTableValues []table.TableValues, formats []string, outputDir string) ([]string, error) {
	for _, tableValues := range allTableValues {
		if err := table.Validate(tableValues); err != nil {
			return nil, fmt.Errorf("invalid table: %w", err)
		}
	}
	if err := util.CreateDirectoryIfNotExists(outputDir, 0755); err != nil {
		return nil, err
	}
	// "all" subsumes every other requested format
	if slices.Contains(formats, FormatAll) {
		formats = FormatOptions
	}
	var filesWritten []string
	for _, format := range formats {
		var paths []string
		var err error
		switch format {
		case FormatCsv:
			paths, err = writeCsvFiles(allTableValues, outputDir)
		case FormatTxt:
			paths, err = writeTextReport(allTableValues, filepath.Join(outputDir, combinedReportName+"."+FormatTxt))
		case FormatXlsx:
			paths, err = writeXlsxReport(allTableValues, filepath.Join(outputDir, combinedReportName+"."+FormatXlsx))
		default:
			panic(fmt.Sprintf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format))
		}
		if err != nil {
			return filesWritten, err
		}
		filesWritten = append(filesWritten, paths...)
	}
	for _, path := range filesWritten {
		slog.Info("wrote output file", slog.String("path", path))
	}
	return filesWritten, nil
}
