// Package common defines data structures and functions that are used by
// multiple application commands, e.g., parse and list.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp   string // application startup time, used for log correlation
	LogFilePath string // path of the application log file, empty when logging to stdout
	Version     string // the version of the application
	Debug       bool   // debug logging enabled
}

// Flag and FlagGroup are used by the commands' custom usage functions to
// group flags in help output.
type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}
