package logfile

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		wantOK     bool
		wantCat    Category
		wantSCores int
		wantACores int
	}{
		{name: "default", fileName: "avx_turbo_default_20250101_120000.log", wantOK: true, wantCat: CategoryDefault},
		{name: "default no timestamp", fileName: "avx_turbo_default.log", wantOK: true, wantCat: CategoryDefault},
		{name: "socket", fileName: "avx_turbo_s2_a4_20250101_120000.log", wantOK: true, wantCat: CategorySocket, wantSCores: 2, wantACores: 4},
		{name: "server", fileName: "avx_turbo_server_s16_a48_20250101_120000.log", wantOK: true, wantCat: CategoryServer, wantSCores: 16, wantACores: 48},
		{name: "server takes precedence over socket prefix", fileName: "avx_turbo_server_s1_a1.log", wantOK: true, wantCat: CategoryServer, wantSCores: 1, wantACores: 1},
		{name: "prefix match without numeric groups", fileName: "avx_turbo_s_a.log", wantOK: false},
		{name: "missing avx group", fileName: "avx_turbo_s2.log", wantOK: false},
		{name: "unrelated file", fileName: "README.md", wantOK: false},
		{name: "wrong extension", fileName: "avx_turbo_default_20250101_120000.txt", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf, ok := Classify(tt.fileName)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantCat, lf.Category)
			assert.Equal(t, tt.wantSCores, lf.SCores)
			assert.Equal(t, tt.wantACores, lf.ACores)
		})
	}
}

func TestClassifyTimestamp(t *testing.T) {
	lf, ok := Classify("avx_turbo_default_20250823_143000.log")
	require.True(t, ok)
	want := time.Date(2025, 8, 23, 14, 30, 0, 0, time.Local)
	assert.True(t, lf.Timestamp.Equal(want), "expected %v, got %v", want, lf.Timestamp)

	lf, ok = Classify("avx_turbo_default.log")
	require.True(t, ok)
	assert.True(t, lf.Timestamp.IsZero())
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"avx_turbo_s2_a4_20250102_090000.log",
		"avx_turbo_default_20250101_120000.log",
		"notes.txt", // ignored
		"avx_turbo_server_s8_a8_20250101_060000.log",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "avx_turbo_default_subdir.log"), 0755)) // directories are skipped

	logFiles, err := Scan(dir, MergeOrderName)
	require.NoError(t, err)
	require.Len(t, logFiles, 3)
	// lexicographic by name
	assert.Equal(t, "avx_turbo_default_20250101_120000.log", logFiles[0].Name)
	assert.Equal(t, "avx_turbo_s2_a4_20250102_090000.log", logFiles[1].Name)
	assert.Equal(t, "avx_turbo_server_s8_a8_20250101_060000.log", logFiles[2].Name)
	assert.Equal(t, filepath.Join(dir, logFiles[0].Name), logFiles[0].Path)

	logFiles, err = Scan(dir, MergeOrderTimestamp)
	require.NoError(t, err)
	require.Len(t, logFiles, 3)
	// by embedded timestamp
	assert.Equal(t, "avx_turbo_server_s8_a8_20250101_060000.log", logFiles[0].Name)
	assert.Equal(t, "avx_turbo_default_20250101_120000.log", logFiles[1].Name)
	assert.Equal(t, "avx_turbo_s2_a4_20250102_090000.log", logFiles[2].Name)
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "no_such_dir"), MergeOrderName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_dir")
}
