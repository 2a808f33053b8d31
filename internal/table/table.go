// Package table provides the column-oriented table model that the aggregated
// benchmark measurements are rendered from.
package table

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
)

// Field represents the values for a field (column) in a table
type Field struct {
	Name   string
	Values []string
}

// TableValues combines the table definition with the resulting fields and their values
type TableValues struct {
	TableDefinition
	Fields []Field
}

// TableDefinition defines the structure of an output table
type TableDefinition struct {
	Name        string
	FileName    string // base name (no extension) used when the table is written to its own file
	NoDataFound string // message to display when no data is found
}

// GetFieldIndex returns the index of a field with the given name in the TableValues structure.
// Returns:
//   - int: The index of the field if found and valid, -1 otherwise
//   - error: nil if successful, an error describing the issue otherwise
func GetFieldIndex(fieldName string, tableValues TableValues) (int, error) {
	for i, field := range tableValues.Fields {
		if field.Name == fieldName {
			if len(field.Values) == 0 {
				return -1, fmt.Errorf("field [%s] does not have associated value(s)", field.Name)
			}
			return i, nil
		}
	}
	return -1, fmt.Errorf("field [%s] not found in table [%s]", fieldName, tableValues.Name)
}

// Validate confirms the table's fields are well formed, i.e., every field is
// named and all fields hold the same number of values.
func Validate(tableValues TableValues) error {
	if tableValues.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	// no field values is a valid state
	if len(tableValues.Fields) == 0 {
		return nil
	}
	for i, field := range tableValues.Fields {
		if field.Name == "" {
			return fmt.Errorf("table %s, field %d, name cannot be empty", tableValues.Name, i)
		}
	}
	numEntries := len(tableValues.Fields[0].Values)
	for i, field := range tableValues.Fields {
		if len(field.Values) != numEntries {
			return fmt.Errorf("table %s, field %d, %s, number of entries must be the same for all fields, expected %d, got %d", tableValues.Name, i, field.Name, numEntries, len(field.Values))
		}
	}
	return nil
}
