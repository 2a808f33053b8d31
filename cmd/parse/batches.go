package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"turbotab/internal/util"
)

// batch is one input/output directory pair to process
type batch struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type batchesFile struct {
	Batches []batch `yaml:"batches"`
}

// assembleBatches builds the ordered list of batches for this invocation: the
// primary input/output pair, the additional pair when requested, then any
// batches listed in the batches file. The additional batch's output directory
// defaults to "<output-dir>_<basename of additional-dir>".
func assembleBatches() ([]batch, error) {
	batches := []batch{{Name: "primary", Input: flagInputDir, Output: flagOutputDir}}
	if flagAdditionalDir != "" {
		output := flagAdditionalOutputDir
		if output == "" {
			dirName := filepath.Base(strings.TrimRight(flagAdditionalDir, "/"))
			output = flagOutputDir + "_" + dirName
		}
		batches = append(batches, batch{Name: "additional", Input: flagAdditionalDir, Output: output})
	}
	if flagBatchesFile != "" {
		fromFile, err := loadBatchesFile(flagBatchesFile)
		if err != nil {
			return nil, err
		}
		batches = append(batches, fromFile...)
	}
	return batches, nil
}

func loadBatchesFile(path string) ([]batch, error) {
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batches file %s: %w", path, err)
	}
	var parsed batchesFile
	if err := yaml.Unmarshal(yamlBytes, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse batches file %s: %w", path, err)
	}
	for i, b := range parsed.Batches {
		if b.Input == "" || b.Output == "" {
			return nil, fmt.Errorf("batches file %s: batch %d must set both input and output", path, i)
		}
		for _, dir := range []string{b.Input, b.Output} {
			if !util.IsValidDirectoryName(dir) {
				return nil, fmt.Errorf("batches file %s: batch %d: invalid directory name: %s", path, i, dir)
			}
		}
		if b.Name == "" {
			parsed.Batches[i].Name = filepath.Base(strings.TrimRight(b.Input, "/"))
		}
	}
	return parsed.Batches, nil
}
