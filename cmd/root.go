// Package cmd provides the command line interface for the application.
package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"turbotab/cmd/list"
	"turbotab/cmd/parse"
	"turbotab/internal/common"
)

var gLogFile *os.File
var gVersion = "9.9.9" // overwritten by ldflags in Makefile

// LongAppName is the name of the application
const LongAppName = "TurboTab"

var examples = []string{
	fmt.Sprintf("  Parse a directory of avx-turbo logs into CSV tables:  $ %s parse --input-dir ./logs --output-dir ./csv_results", common.AppName),
	fmt.Sprintf("  Parse two log directories in one run:                 $ %s parse --input-dir ./emr --additional-dir ./9825_performance", common.AppName),
	fmt.Sprintf("  List the recognized log files in a directory:         $ %s list --input-dir ./logs", common.AppName),
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:                common.AppName,
	Short:              common.AppName,
	Long:               fmt.Sprintf(`%s (%s) tabulates avx-turbo benchmark logs into deterministic CSV tables for frequency-scaling analysis.`, LongAppName, common.AppName),
	Example:            strings.Join(examples, "\n"),
	PersistentPreRunE:  initializeApplication, // will only be run if command has a 'Run' function
	PersistentPostRunE: terminateApplication,  // ...
	Version:            gVersion,
}

var (
	// logging
	flagDebug     bool
	flagLogStdOut bool
)

const (
	flagDebugName     = "debug"
	flagLogStdOutName = "log-stdout"
)

func init() {
	rootCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command] [flags]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
	rootCmd.SetHelpCommand(&cobra.Command{}) // block the help command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddGroup([]*cobra.Group{{ID: "primary", Title: "Commands:"}}...)
	rootCmd.AddCommand(parse.Cmd)
	rootCmd.AddCommand(list.Cmd)
	// Global (persistent) flags
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLogStdOut, flagLogStdOutName, false, "write logs to stdout instead of a file")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.EnableCommandSorting = false
	cobra.EnableCaseInsensitive = true
	err := rootCmd.Execute()
	if err != nil {
		terminateErr := terminateApplication(rootCmd, os.Args)
		if terminateErr != nil {
			slog.Error("Error terminating application", slog.String("error", terminateErr.Error()))
			fmt.Printf("Error: %v\n", terminateErr)
		}
		os.Exit(1)
	}
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	timestamp := time.Now().Local().Format("2006-01-02_15-04-05") // app startup time
	// configure logging
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
		logOpts.AddSource = false
	}
	if flagLogStdOut {
		handler := slog.NewJSONHandler(os.Stdout, &logOpts)
		slog.SetDefault(slog.New(handler))
	} else { // log to file in current directory
		var err error
		gLogFile, err = os.OpenFile(common.AppName+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) // #nosec G302
		if err != nil {
			fmt.Printf("Error: failed to open log file: %v\n", err)
			os.Exit(1)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(gLogFile, &logOpts)))
	}
	slog.Info("Starting up", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))
	var logFilePath string
	if gLogFile != nil {
		logFilePath = gLogFile.Name()
	}
	// set app context
	cmd.Parent().SetContext(
		context.WithValue(
			context.Background(),
			common.AppContext{},
			common.AppContext{
				Timestamp:   timestamp,
				LogFilePath: logFilePath,
				Version:     gVersion,
				Debug:       flagDebug},
		),
	)
	return nil
}

// terminateApplication closes the log file
func terminateApplication(cmd *cobra.Command, args []string) error {
	slog.Info("Shutting down", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()))
	if gLogFile != nil {
		err := gLogFile.Close()
		if err != nil {
			slog.Error("error closing log file", slog.String("logFile", gLogFile.Name()), slog.String("error", err.Error()))
			return err
		}
		gLogFile = nil
	}
	return nil
}
