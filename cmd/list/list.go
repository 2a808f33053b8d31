// Package list is a subcommand of the root command. It scans a directory and
// reports which files would be recognized as avx-turbo logs, without parsing
// their contents.
package list

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"turbotab/internal/common"
	"turbotab/internal/logfile"
	"turbotab/internal/report"
	"turbotab/internal/table"
)

const cmdName = "list"

var examples = []string{
	fmt.Sprintf("  List recognized logs in the default directory:  $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  List recognized logs in a specific directory:   $ %s %s --input-dir ./emr", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "List the recognized log files in a directory",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagInputDir   string
	flagMergeOrder string
)

const (
	flagInputDirName   = "input-dir"
	flagMergeOrderName = "merge-order"
)

func init() {
	Cmd.Flags().StringVar(&flagInputDir, flagInputDirName, "./logs", "directory containing the avx-turbo log files")
	Cmd.Flags().StringVar(&flagMergeOrder, flagMergeOrderName, string(logfile.MergeOrderName), fmt.Sprintf("order files are listed in, one of: %s", strings.Join(logfile.MergeOrderOptions, ", ")))
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if !slices.Contains(logfile.MergeOrderOptions, flagMergeOrder) {
		return common.FlagValidationError(cmd, fmt.Sprintf("merge-order options are: %s", strings.Join(logfile.MergeOrderOptions, ", ")))
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	logFiles, err := logfile.Scan(flagInputDir, logfile.MergeOrder(flagMergeOrder))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cmd.SilenceUsage = true
		return err
	}
	fmt.Print(report.RenderTextTable(logFilesTable(logFiles)))
	// summary counts per category
	counts := map[logfile.Category]int{}
	for _, lf := range logFiles {
		counts[lf.Category]++
	}
	p := message.NewPrinter(language.English)
	p.Printf("\n%d recognized log file(s)", len(logFiles))
	for _, category := range logfile.Categories {
		p.Printf(", %d %s", counts[category], category)
	}
	p.Println()
	return nil
}

// logFilesTable shapes the classified files into the common table model so the
// text renderer can print them
func logFilesTable(logFiles []logfile.LogFile) table.TableValues {
	fields := []table.Field{
		{Name: "File"},
		{Name: "Category"},
		{Name: "Scalar Cores"},
		{Name: "AVX Cores"},
		{Name: "Timestamp"},
	}
	for _, lf := range logFiles {
		sCores, aCores := "", ""
		if lf.Category != logfile.CategoryDefault {
			sCores = strconv.Itoa(lf.SCores)
			aCores = strconv.Itoa(lf.ACores)
		}
		timestamp := ""
		if !lf.Timestamp.IsZero() {
			timestamp = lf.Timestamp.Format("2006-01-02 15:04:05")
		}
		fields[0].Values = append(fields[0].Values, lf.Name)
		fields[1].Values = append(fields[1].Values, string(lf.Category))
		fields[2].Values = append(fields[2].Values, sCores)
		fields[3].Values = append(fields[3].Values, aCores)
		fields[4].Values = append(fields[4].Values, timestamp)
	}
	return table.TableValues{
		TableDefinition: table.TableDefinition{
			Name:        "Recognized Log Files",
			NoDataFound: "No recognized log files found.",
		},
		Fields: fields,
	}
}
