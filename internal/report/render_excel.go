package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"turbotab/internal/table"
)

const xlsxSheetName = "Tables"

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

func writeXlsxReport(allTableValues []table.TableValues, path string) ([]string, error) {
	f := excelize.NewFile()
	_ = f.SetSheetName("Sheet1", xlsxSheetName)
	_ = f.SetColWidth(xlsxSheetName, "A", "A", 25)
	_ = f.SetColWidth(xlsxSheetName, "B", "L", 25)
	row := 1
	for _, tableValues := range allTableValues {
		renderXlsxTable(tableValues, f, xlsxSheetName, &row)
	}
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to write xlsx report %s: %w", path, err)
	}
	return []string{path}, nil
}

func renderXlsxTable(tableValues table.TableValues, f *excelize.File, sheetName string, row *int) {
	col := 1
	// print the table name
	tableNameStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	_ = f.SetCellValue(sheetName, cellName(col, *row), tableValues.Name)
	_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), tableNameStyle)
	*row++
	if len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0 {
		msg := tableValues.NoDataFound
		if msg == "" {
			msg = "No data found."
		}
		_ = f.SetCellValue(sheetName, cellName(col, *row), msg)
		*row += 2
		return
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	// print the field names as column headings across the top of the table
	col = 2
	for _, field := range tableValues.Fields {
		_ = f.SetCellValue(sheetName, cellName(col, *row), field.Name)
		_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), headerStyle)
		col++
	}
	*row++
	// print the rows
	tableRows := len(tableValues.Fields[0].Values)
	for tableRow := range tableRows {
		col = 2
		for _, field := range tableValues.Fields {
			_ = f.SetCellValue(sheetName, cellName(col, *row), getValueForCell(field.Values[tableRow]))
			col++
		}
		*row++
	}
	*row += 2
}

// getValueForCell converts numeric strings so spreadsheet cells hold numbers
// rather than text
func getValueForCell(value string) (val any) {
	intValue, err := strconv.Atoi(value)
	if err == nil {
		val = intValue
		return
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err == nil {
		val = floatValue
		return
	}
	val = value
	return
}
