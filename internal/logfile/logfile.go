// Package logfile discovers and classifies avx-turbo benchmark log files by
// their filename convention.
package logfile

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Category identifies the shape of an avx-turbo log file
type Category string

const (
	CategoryDefault Category = "default" // all detected cores tested as one group
	CategorySocket  Category = "socket"  // per-socket scalar/avx core spread
	CategoryServer  Category = "server"  // server-wide scalar/avx core spread
)

// Categories lists all recognized log categories
var Categories = []Category{CategoryDefault, CategorySocket, CategoryServer}

// MergeOrder determines the order log files are fed to the aggregator, which
// in turn determines the winner on key collisions (last write wins).
type MergeOrder string

const (
	MergeOrderName      MergeOrder = "name"      // lexicographic by file name
	MergeOrderTimestamp MergeOrder = "timestamp" // by timestamp embedded in the file name
)

// MergeOrderOptions lists the valid --merge-order flag values
var MergeOrderOptions = []string{string(MergeOrderName), string(MergeOrderTimestamp)}

// LogFile is a classified log file. Immutable once classified.
type LogFile struct {
	Path      string
	Name      string
	Category  Category
	SCores    int       // scalar core count from filename, socket/server categories only
	ACores    int       // avx core count from filename, socket/server categories only
	Timestamp time.Time // zero when the filename carries no timestamp
}

// filename conventions, most specific first since the prefixes overlap
var (
	serverRegex    = regexp.MustCompile(`^avx_turbo_server_s(\d+)_a(\d+).*\.log$`)
	socketRegex    = regexp.MustCompile(`^avx_turbo_s(\d+)_a(\d+).*\.log$`)
	defaultRegex   = regexp.MustCompile(`^avx_turbo_default.*\.log$`)
	timestampRegex = regexp.MustCompile(`(\d{8}_\d{6})`)
)

const timestampLayout = "20060102_150405"

// Classify buckets a file name into one of the known log categories. The
// second return value is false when the name doesn't match any convention,
// including names that loosely match a prefix but lack the required numeric
// groups. That is never an error, such files are simply not ours.
func Classify(name string) (LogFile, bool) {
	lf := LogFile{Name: name}
	if match := serverRegex.FindStringSubmatch(name); match != nil {
		lf.Category = CategoryServer
		lf.SCores, _ = strconv.Atoi(match[1])
		lf.ACores, _ = strconv.Atoi(match[2])
	} else if match := socketRegex.FindStringSubmatch(name); match != nil {
		lf.Category = CategorySocket
		lf.SCores, _ = strconv.Atoi(match[1])
		lf.ACores, _ = strconv.Atoi(match[2])
	} else if defaultRegex.MatchString(name) {
		lf.Category = CategoryDefault
	} else {
		return LogFile{}, false
	}
	if match := timestampRegex.FindStringSubmatch(name); match != nil {
		if ts, err := time.ParseInLocation(timestampLayout, match[1], time.Local); err == nil {
			lf.Timestamp = ts
		}
	}
	return lf, true
}

// Scan reads the directory once, classifies every regular file, and returns
// the recognized log files sorted per the requested merge order. Unrecognized
// files are skipped with a debug note. An unreadable directory is the only
// error condition.
func Scan(dir string, order MergeOrder) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory %s: %w", dir, err)
	}
	var logFiles []LogFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lf, ok := Classify(entry.Name())
		if !ok {
			slog.Debug("skipping unrecognized file", slog.String("file", entry.Name()))
			continue
		}
		lf.Path = filepath.Join(dir, entry.Name())
		logFiles = append(logFiles, lf)
	}
	switch order {
	case MergeOrderTimestamp:
		sort.Slice(logFiles, func(i, j int) bool {
			if !logFiles[i].Timestamp.Equal(logFiles[j].Timestamp) {
				return logFiles[i].Timestamp.Before(logFiles[j].Timestamp)
			}
			return logFiles[i].Name < logFiles[j].Name // stable tie-break
		})
	default:
		sort.Slice(logFiles, func(i, j int) bool {
			return logFiles[i].Name < logFiles[j].Name
		})
	}
	return logFiles, nil
}
