// Package parse is a subcommand of the root command. It parses directories of
// avx-turbo benchmark logs and writes merged, deduplicated measurement tables.
package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"turbotab/internal/common"
	"turbotab/internal/extract"
	"turbotab/internal/logfile"
	"turbotab/internal/progress"
	"turbotab/internal/report"
	"turbotab/internal/tabulate"
	"turbotab/internal/util"
)

const cmdName = "parse"

var examples = []string{
	fmt.Sprintf("  Parse the default sample directory:       $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Parse a specific directory:               $ %s %s --input-dir ./emr --output-dir ./csv_emr", common.AppName, cmdName),
	fmt.Sprintf("  Parse a second batch in the same run:     $ %s %s --additional-dir ./9825_performance", common.AppName, cmdName),
	fmt.Sprintf("  Keep only high-core-count measurements:   $ %s %s --filter 'cores > 4'", common.AppName, cmdName),
	fmt.Sprintf("  Write xlsx tables alongside the CSVs:     $ %s %s --format csv --format xlsx", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Parse avx-turbo logs into merged CSV tables",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagInputDir            string
	flagOutputDir           string
	flagAdditionalDir       string
	flagAdditionalOutputDir string
	flagBatchesFile         string
	flagFormat              []string
	flagFilter              string
	flagMergeOrder          string
)

// flag names
const (
	flagInputDirName            = "input-dir"
	flagOutputDirName           = "output-dir"
	flagAdditionalDirName       = "additional-dir"
	flagAdditionalOutputDirName = "additional-output-dir"
	flagBatchesFileName         = "batches"
	flagFormatName              = "format"
	flagFilterName              = "filter"
	flagMergeOrderName          = "merge-order"
)

func init() {
	Cmd.Flags().StringVar(&flagInputDir, flagInputDirName, "./logs", "")
	Cmd.Flags().StringVar(&flagOutputDir, flagOutputDirName, "./csv_results", "")
	Cmd.Flags().StringVar(&flagAdditionalDir, flagAdditionalDirName, "", "")
	Cmd.Flags().StringVar(&flagAdditionalOutputDir, flagAdditionalOutputDirName, "", "")
	Cmd.Flags().StringVar(&flagBatchesFile, flagBatchesFileName, "", "")
	Cmd.Flags().StringSliceVar(&flagFormat, flagFormatName, []string{report.FormatCsv}, "")
	Cmd.Flags().StringVar(&flagFilter, flagFilterName, "", "")
	Cmd.Flags().StringVar(&flagMergeOrder, flagMergeOrderName, string(logfile.MergeOrderName), "")

	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Flags:")
	for _, group := range getFlagGroups() {
		cmd.Printf("  %s:\n", group.GroupName)
		for _, flag := range group.Flags {
			flagDefault := ""
			if cmd.Flags().Lookup(flag.Name).DefValue != "" {
				flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(flag.Name).DefValue)
			}
			cmd.Printf("    --%-25s %s%s\n", flag.Name, flag.Help, flagDefault)
		}
	}
	cmd.Println("\nGlobal Flags:")
	cmd.Parent().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
		cmd.Printf("  --%-25s %s\n", pf.Name, pf.Usage)
	})
	return nil
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	flags := []common.Flag{
		{
			Name: flagInputDirName,
			Help: "directory containing the avx-turbo log files",
		},
		{
			Name: flagOutputDirName,
			Help: "directory where the output tables are written, created if absent",
		},
		{
			Name: flagAdditionalDirName,
			Help: "additional directory of log files to process as a second batch",
		},
		{
			Name: flagAdditionalOutputDirName,
			Help: "output directory for the additional batch, derived from output-dir and the additional directory name when not set",
		},
		{
			Name: flagBatchesFileName,
			Help: "YAML file listing {name, input, output} batches to process in order. See batches.yaml for format.",
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Directory Options",
		Flags:     flags,
	})
	flags = []common.Flag{
		{
			Name: flagFormatName,
			Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", ")),
		},
		{
			Name: flagFilterName,
			Help: "boolean expression over row variables (cores, id, description, mops, mhz, s, a); rows that don't match are omitted",
		},
		{
			Name: flagMergeOrderName,
			Help: fmt.Sprintf("order files are merged in, last write wins on key collisions, one of: %s", strings.Join(logfile.MergeOrderOptions, ", ")),
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Output Options",
		Flags:     flags,
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range flagFormat {
		formatOptions := append([]string{report.FormatAll}, report.FormatOptions...)
		if !slices.Contains(formatOptions, format) {
			return common.FlagValidationError(cmd, fmt.Sprintf("format options are: %s", strings.Join(formatOptions, ", ")))
		}
	}
	if !slices.Contains(logfile.MergeOrderOptions, flagMergeOrder) {
		return common.FlagValidationError(cmd, fmt.Sprintf("merge-order options are: %s", strings.Join(logfile.MergeOrderOptions, ", ")))
	}
	if flagFilter != "" {
		if _, err := tabulate.NewRowFilter(flagFilter); err != nil {
			return common.FlagValidationError(cmd, err.Error())
		}
	}
	dirs := []string{flagInputDir, flagOutputDir}
	if flagAdditionalDir != "" {
		dirs = append(dirs, flagAdditionalDir)
	}
	if flagAdditionalOutputDir != "" {
		dirs = append(dirs, flagAdditionalOutputDir)
	}
	for _, dir := range dirs {
		if !util.IsValidDirectoryName(dir) {
			return common.FlagValidationError(cmd, fmt.Sprintf("invalid directory name: %s", dir))
		}
	}
	if flagBatchesFile != "" && !util.FileOrDirectoryExists(flagBatchesFile) {
		return common.FlagValidationError(cmd, fmt.Sprintf("batches file does not exist: %s", flagBatchesFile))
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	slog.Info("starting parse", slog.String("startTime", appContext.Timestamp), slog.String("version", appContext.Version))
	batches, err := assembleBatches()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	// the primary batch's input directory must exist, that's the one
	// guaranteed catastrophic condition
	exists, err := util.DirectoryExists(batches[0].Input)
	if err != nil || !exists {
		err = fmt.Errorf("input directory does not exist or is not a directory: %s", batches[0].Input)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	var filter *tabulate.RowFilter
	if flagFilter != "" {
		filter, err = tabulate.NewRowFilter(flagFilter) // validated in PreRunE
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
	}
	if err := processBatches(batches, flagFormat, filter, logfile.MergeOrder(flagMergeOrder)); err != nil {
		cmd.SilenceUsage = true
		return err
	}
	return nil
}

// processBatches runs every batch, collecting failures so that one batch's
// failure doesn't prevent attempting the others. Returns the joined batch
// errors, nil when every batch succeeded.
func processBatches(batches []batch, formats []string, filter *tabulate.RowFilter, order logfile.MergeOrder) error {
	var batchErrs []error
	for _, b := range batches {
		if err := processBatch(b, formats, filter, order); err != nil {
			fmt.Fprintf(os.Stderr, "Error: batch %s: %v\n", b.Name, err)
			slog.Error("batch failed", slog.String("batch", b.Name), slog.String("error", err.Error()))
			batchErrs = append(batchErrs, err)
		}
	}
	return errors.Join(batchErrs...)
}

// processBatch runs the classify -> extract -> merge -> serialize pipeline for
// one input/output directory pair. Per-file and per-line parse failures are
// reported and skipped; only an unreadable input directory or a failed write
// fails the batch.
func processBatch(b batch, formats []string, filter *tabulate.RowFilter, order logfile.MergeOrder) error {
	inputDir, err := util.AbsPath(b.Input)
	if err != nil {
		return err
	}
	outputDir, err := util.AbsPath(b.Output)
	if err != nil {
		return err
	}
	logFiles, err := logfile.Scan(inputDir, order)
	if err != nil {
		return err
	}
	spinner := progress.NewSpinner()
	spinner.Start(fmt.Sprintf("%s: scanning %s", b.Name, inputDir))
	defer spinner.Finish()

	acc := tabulate.NewAccumulator()
	parsedFiles := 0
	for i, lf := range logFiles {
		spinner.Status(fmt.Sprintf("%s: parsing %s (%d/%d)", b.Name, lf.Name, i+1, len(logFiles)))
		defaultRows, spreadRows, err := extract.ParseFile(lf)
		if err != nil {
			// a file that can't be read is skipped, not fatal
			slog.Warn("skipping unreadable log file", slog.String("file", lf.Path), slog.String("error", err.Error()))
			continue
		}
		switch lf.Category {
		case logfile.CategoryDefault:
			acc.AddDefault(defaultRows)
		default:
			acc.AddSpread(lf.Category, spreadRows)
		}
		parsedFiles++
	}
	tables := acc.DefaultTables(filter)
	tables = append(tables, acc.SpreadTable(logfile.CategorySocket, filter))
	tables = append(tables, acc.SpreadTable(logfile.CategoryServer, filter))
	spinner.Status(fmt.Sprintf("%s: writing tables to %s", b.Name, outputDir))
	filesWritten, err := report.WriteReports(tables, formats, outputDir)
	if err != nil {
		return err
	}
	spinner.Finish()

	totalRows := 0
	for _, tv := range tables {
		if len(tv.Fields) > 0 {
			totalRows += len(tv.Fields[0].Values)
		}
	}
	// use printer to get commas at thousands in row counts
	p := message.NewPrinter(language.English)
	p.Printf("%s: %d log file(s) parsed, %d row(s) written to %d file(s) in %s\n", b.Name, parsedFiles, totalRows, len(filesWritten), outputDir)
	return nil
}
