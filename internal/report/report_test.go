package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"turbotab/internal/table"
)

func sampleTable() table.TableValues {
	return table.TableValues{
		TableDefinition: table.TableDefinition{
			Name:     "default_scalar_iadd",
			FileName: "default_scalar_iadd",
		},
		Fields: []table.Field{
			{Name: "cores", Values: []string{"1", "2"}},
			{Name: "id", Values: []string{"scalar_iadd", "scalar_iadd"}},
			{Name: "description", Values: []string{"Scalar integer adds", "Scalar integer adds"}},
			{Name: "mops_avg", Values: []string{"3905", "3901"}},
			{Name: "a_m_mhz_avg", Values: []string{"3950", "3900"}},
		},
	}
}

func emptyTable() table.TableValues {
	return table.TableValues{
		TableDefinition: table.TableDefinition{
			Name:        "all_s_cases",
			FileName:    "all_s_cases",
			NoDataFound: "No core-spread measurements found.",
		},
		Fields: []table.Field{
			{Name: "cores"},
			{Name: "id"},
			{Name: "s_value"},
			{Name: "a_value"},
			{Name: "a_m_mhz_avg"},
		},
	}
}

func TestWriteReportsCsv(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "csv_results") // does not exist yet
	files, err := WriteReports([]table.TableValues{sampleTable()}, []string{FormatCsv}, outputDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	content, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "cores,id,description,mops_avg,a_m_mhz_avg\n" +
		"1,scalar_iadd,Scalar integer adds,3905,3950\n" +
		"2,scalar_iadd,Scalar integer adds,3901,3900\n"
	if string(content) != want {
		t.Errorf("unexpected CSV content:\ngot:\n%s\nwant:\n%s", content, want)
	}
}

func TestWriteReportsCsvHeaderOnlyWhenEmpty(t *testing.T) {
	outputDir := t.TempDir()
	files, err := WriteReports([]table.TableValues{emptyTable()}, []string{FormatCsv}, outputDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "cores,id,s_value,a_value,a_m_mhz_avg\n"
	if string(content) != want {
		t.Errorf("expected header-only CSV, got:\n%s", content)
	}
}

func TestWriteReportsDeterministic(t *testing.T) {
	outputDir := t.TempDir()
	tables := []table.TableValues{sampleTable(), emptyTable()}
	if _, err := WriteReports(tables, []string{FormatCsv}, outputDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(outputDir, "default_scalar_iadd.csv"))
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	// second run overwrites, not appends, and is byte-identical
	if _, err := WriteReports(tables, []string{FormatCsv}, outputDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(outputDir, "default_scalar_iadd.csv"))
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(first) != string(second) {
		t.Error("expected byte-identical output across runs")
	}
}

func TestWriteReportsAllFormats(t *testing.T) {
	outputDir := t.TempDir()
	files, err := WriteReports([]table.TableValues{sampleTable()}, []string{FormatAll}, outputDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// one csv, one txt, one xlsx
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
	for _, ext := range []string{".csv", ".txt", ".xlsx"} {
		found := false
		for _, f := range files {
			if strings.HasSuffix(f, ext) {
				found = true
			}
		}
		if !found {
			t.Errorf("no %s file written", ext)
		}
	}
}

func TestWriteReportsAllMixedWithOtherFormats(t *testing.T) {
	outputDir := t.TempDir()
	files, err := WriteReports([]table.TableValues{sampleTable()}, []string{FormatCsv, FormatAll}, outputDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "all" expands to every format without duplicating the explicit csv
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
}

func TestWriteReportsInvalidTable(t *testing.T) {
	bad := sampleTable()
	bad.Fields[0].Values = bad.Fields[0].Values[:1] // ragged columns
	_, err := WriteReports([]table.TableValues{bad}, []string{FormatCsv}, t.TempDir())
	if err == nil {
		t.Fatal("expected error for ragged table")
	}
}

func TestRenderTextTable(t *testing.T) {
	out := RenderTextTable(sampleTable())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 { // header, underline, two rows
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "cores") {
		t.Errorf("unexpected header line: %s", lines[0])
	}
	if !strings.Contains(lines[2], "scalar_iadd") {
		t.Errorf("unexpected data line: %s", lines[2])
	}
}
