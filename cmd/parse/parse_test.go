package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbotab/internal/logfile"
	"turbotab/internal/report"
)

const defaultLog = `Will test up to 4 CPUs
Cores | ID          | Description            | OVRLP3 | Mops | A/M-ratio | A/M-MHz | M/tsc-ratio
4     | scalar_iadd | Scalar integer adds    |  1.000 | 1000.0 |    1.95 |  3500.0 |        1.00
4     | scalar_iadd | Scalar integer adds    |  1.000 | 1100.0 |    1.95 |  3600.0 |        1.00
`

const socketLogEarly = `Cores | ID          | Description            | OVRLP3 | Mops | A/M-ratio | A/M-MHz | M/tsc-ratio
6     | avx512_fma  | 512-bit serial DP FMAs |  1.000 |  974 |      1.90 |    3600 |        1.00
`

const socketLogLate = `Cores | ID          | Description            | OVRLP3 | Mops | A/M-ratio | A/M-MHz | M/tsc-ratio
6     | avx512_fma  | 512-bit serial DP FMAs |  1.000 |  970 |      1.90 |    3550 |        1.00
`

func writeLogs(t *testing.T, dir string, logs map[string]string) {
	t.Helper()
	for name, content := range logs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestProcessBatch(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "csv_results")
	writeLogs(t, inputDir, map[string]string{
		"avx_turbo_default_20250101_120000.log":  defaultLog,
		"avx_turbo_s2_a4_20250101_120000.log":    socketLogEarly,
		"avx_turbo_s2_a4_20250102_120000.log":    socketLogLate,
		"unrelated.txt":                          "not a log",
		"avx_turbo_server_s8_a8_20250101.log":    "", // empty log contributes zero rows
	})

	b := batch{Name: "test", Input: inputDir, Output: outputDir}
	err := processBatch(b, []string{report.FormatCsv}, nil, logfile.MergeOrderName)
	require.NoError(t, err)

	// one default table, repeated measurement lines averaged
	content, err := os.ReadFile(filepath.Join(outputDir, "default_scalar_iadd.csv"))
	require.NoError(t, err)
	want := "cores,id,description,mops_avg,a_m_mhz_avg\n" +
		"4,scalar_iadd,Scalar integer adds,1050,3550\n"
	assert.Equal(t, want, string(content))

	// socket table: two files collide on (s=2, a=4, avx512_fma), later name wins
	content, err = os.ReadFile(filepath.Join(outputDir, "all_s_cases.csv"))
	require.NoError(t, err)
	want = "cores,id,s_value,a_value,a_m_mhz_avg\n" +
		"6,avx512_fma,2,4,3550\n"
	assert.Equal(t, want, string(content))

	// server table exists with header only
	content, err = os.ReadFile(filepath.Join(outputDir, "all_server_s_cases.csv"))
	require.NoError(t, err)
	assert.Equal(t, "cores,id,s_value,a_value,a_m_mhz_avg\n", string(content))

	// no output for the unrelated file
	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestProcessBatchesContinuesAfterFailure(t *testing.T) {
	goodInput := t.TempDir()
	writeLogs(t, goodInput, map[string]string{
		"avx_turbo_default_20250101_120000.log": defaultLog,
	})
	goodOutput := filepath.Join(t.TempDir(), "csv_results")
	batches := []batch{
		{Name: "broken", Input: filepath.Join(t.TempDir(), "missing"), Output: t.TempDir()},
		{Name: "good", Input: goodInput, Output: goodOutput},
	}

	err := processBatches(batches, []string{report.FormatCsv}, nil, logfile.MergeOrderName)
	require.Error(t, err, "the broken batch's error is reported")
	assert.Contains(t, err.Error(), "missing")

	// the batch after the broken one still wrote its tables
	content, err := os.ReadFile(filepath.Join(goodOutput, "default_scalar_iadd.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "scalar_iadd")
}

func TestProcessBatchMissingInputDir(t *testing.T) {
	b := batch{Name: "test", Input: filepath.Join(t.TempDir(), "missing"), Output: t.TempDir()}
	err := processBatch(b, []string{report.FormatCsv}, nil, logfile.MergeOrderName)
	require.Error(t, err)
}

func TestAssembleBatchesAdditionalOutputDefault(t *testing.T) {
	flagInputDir = "./emr"
	flagOutputDir = "./csv_results"
	flagAdditionalDir = "./9825_performance/"
	flagAdditionalOutputDir = ""
	flagBatchesFile = ""
	t.Cleanup(func() {
		flagInputDir = "./logs"
		flagOutputDir = "./csv_results"
		flagAdditionalDir = ""
		flagAdditionalOutputDir = ""
	})

	batches, err := assembleBatches()
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "./emr", batches[0].Input)
	assert.Equal(t, "./csv_results", batches[0].Output)
	assert.Equal(t, "./9825_performance/", batches[1].Input)
	assert.Equal(t, "./csv_results_9825_performance", batches[1].Output)
}

func TestLoadBatchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.yaml")
	content := `batches:
  - name: emr
    input: ./emr
    output: ./csv_emr
  - input: ./9825_performance
    output: ./csv_9825
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	batches, err := loadBatchesFile(path)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "emr", batches[0].Name)
	assert.Equal(t, "9825_performance", batches[1].Name, "name defaults to the input directory basename")
}

func TestLoadBatchesFileRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batches:\n  - name: x\n    input: ./a\n"), 0644))
	_, err := loadBatchesFile(path)
	require.Error(t, err)
}

func TestLoadBatchesFileRejectsInvalidDirectoryName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.yaml")
	content := "batches:\n  - name: x\n    input: './dir with spaces'\n    output: ./csv\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	_, err := loadBatchesFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid directory name")
}

func TestValidateFlagsChecksAdditionalDirs(t *testing.T) {
	flagAdditionalDir = "dir with spaces"
	t.Cleanup(func() { flagAdditionalDir = "" })
	err := validateFlags(Cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid directory name")
}
