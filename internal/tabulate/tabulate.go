// Package tabulate merges extracted measurement rows across log files and
// shapes them into output tables.
package tabulate

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"turbotab/internal/extract"
	"turbotab/internal/logfile"
	"turbotab/internal/table"
)

// column headers, written exactly once per output file
var (
	defaultColumns = []string{"cores", "id", "description", "mops_avg", "a_m_mhz_avg"}
	spreadColumns  = []string{"cores", "id", "s_value", "a_value", "a_m_mhz_avg"}
)

// output table names per category
const (
	SocketTableName    = "all_s_cases"
	ServerTableName    = "all_server_s_cases"
	defaultTablePrefix = "default_"
	defaultNoDataFound = "No default measurements found."
	spreadNoDataFound  = "No core-spread measurements found."
)

type defaultKey struct {
	cores int
	id    string
}

type spreadKey struct {
	s, a int
	id   string
}

// Accumulator merges measurement rows across many log files. Rows are merged
// by composite key with last-write-wins semantics: a later file's row for an
// existing key replaces the earlier one, reflecting the common case of
// re-running a sweep. Files must be added in the order the classifier yields
// them.
type Accumulator struct {
	defaults   map[defaultKey]extract.DefaultRow
	socketRows map[spreadKey]extract.SpreadRow
	serverRows map[spreadKey]extract.SpreadRow
	defaultIDs mapset.Set[string]
}

// NewAccumulator creates an empty Accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		defaults:   map[defaultKey]extract.DefaultRow{},
		socketRows: map[spreadKey]extract.SpreadRow{},
		serverRows: map[spreadKey]extract.SpreadRow{},
		defaultIDs: mapset.NewSet[string](),
	}
}

// AddDefault merges one default-category file's rows
func (acc *Accumulator) AddDefault(rows []extract.DefaultRow) {
	for _, row := range rows {
		acc.defaults[defaultKey{row.Cores, row.ID}] = row
		acc.defaultIDs.Add(row.ID)
	}
}

// AddSpread merges one socket- or server-category file's rows
func (acc *Accumulator) AddSpread(category logfile.Category, rows []extract.SpreadRow) {
	target := acc.socketRows
	if category == logfile.CategoryServer {
		target = acc.serverRows
	}
	for _, row := range rows {
		target[spreadKey{row.SValue, row.AValue, row.ID}] = row
	}
}

// DefaultTables builds one output table per distinct instruction id seen in
// the default-category logs, each sorted by core count. Tables are returned
// in id order.
func (acc *Accumulator) DefaultTables(filter *RowFilter) []table.TableValues {
	ids := acc.defaultIDs.ToSlice()
	sort.Strings(ids)
	var tables []table.TableValues
	for _, id := range ids {
		var rows []extract.DefaultRow
		for key, row := range acc.defaults {
			if key.id != id {
				continue
			}
			if filter != nil && !filter.MatchDefault(row) {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Cores != rows[j].Cores {
				return rows[i].Cores < rows[j].Cores
			}
			return rows[i].ID < rows[j].ID
		})
		if len(rows) == 0 {
			continue
		}
		fields := newFields(defaultColumns)
		for _, row := range rows {
			appendValues(fields,
				strconv.Itoa(row.Cores),
				row.ID,
				row.Description,
				formatFloat(row.MopsAvg),
				formatFloat(row.MHzAvg),
			)
		}
		tables = append(tables, table.TableValues{
			TableDefinition: table.TableDefinition{
				Name:        defaultTablePrefix + id,
				FileName:    defaultTablePrefix + safeFileName(id),
				NoDataFound: defaultNoDataFound,
			},
			Fields: fields,
		})
	}
	return tables
}

// SpreadTable builds the single merged output table for the socket or server
// category, sorted by scalar count, avx count, core count, then id.
func (acc *Accumulator) SpreadTable(category logfile.Category, filter *RowFilter) table.TableValues {
	source := acc.socketRows
	name := SocketTableName
	if category == logfile.CategoryServer {
		source = acc.serverRows
		name = ServerTableName
	}
	var rows []extract.SpreadRow
	for _, row := range source {
		if filter != nil && !filter.MatchSpread(row) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SValue != rows[j].SValue {
			return rows[i].SValue < rows[j].SValue
		}
		if rows[i].AValue != rows[j].AValue {
			return rows[i].AValue < rows[j].AValue
		}
		if rows[i].Cores != rows[j].Cores {
			return rows[i].Cores < rows[j].Cores
		}
		return rows[i].ID < rows[j].ID
	})
	fields := newFields(spreadColumns)
	for _, row := range rows {
		appendValues(fields,
			strconv.Itoa(row.Cores),
			row.ID,
			strconv.Itoa(row.SValue),
			strconv.Itoa(row.AValue),
			formatFloat(row.MHzAvg),
		)
	}
	return table.TableValues{
		TableDefinition: table.TableDefinition{
			Name:        name,
			FileName:    name,
			NoDataFound: spreadNoDataFound,
		},
		Fields: fields,
	}
}

func newFields(columns []string) []table.Field {
	fields := make([]table.Field, len(columns))
	for i, col := range columns {
		fields[i] = table.Field{Name: col}
	}
	return fields
}

func appendValues(fields []table.Field, values ...string) {
	for i := range fields {
		fields[i].Values = append(fields[i].Values, values[i])
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// safeFileName replaces characters that can't appear in an output file name
func safeFileName(id string) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(id)
}
