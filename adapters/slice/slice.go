// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package slice provides an in-memory datatable.DataSource built from Go
// slices and maps, such as decoded JSON records.
package slice

import (
	"fmt"
	"sort"
	"time"

	"coachboard/datatable"
)

// DataSource is an immutable in-memory table.
type DataSource struct {
	names    []string
	types    []datatable.DataType
	rows     [][]datatable.Value
	metadata datatable.Metadata
}

// NewFromRows builds a data source from a header and positional rows.
// Column types are inferred from the first non-nil value of each column.
func NewFromRows(headers []string, rows [][]interface{}) (*DataSource, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no columns", datatable.ErrEmptyData)
	}

	types := make([]datatable.DataType, len(headers))
	for col := range headers {
		types[col] = datatable.TypeString
		for _, row := range rows {
			if col < len(row) && row[col] != nil {
				types[col] = InferType(row[col])
				break
			}
		}
	}

	ds := &DataSource{
		names:    append([]string(nil), headers...),
		types:    types,
		rows:     make([][]datatable.Value, len(rows)),
		metadata: datatable.Metadata{"source": "slice"},
	}
	for i, row := range rows {
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), len(headers), datatable.ErrInvalidRow)
		}
		values := make([]datatable.Value, len(headers))
		for col := range headers {
			var raw interface{}
			if col < len(row) {
				raw = row[col]
			}
			values[col] = datatable.NewValue(raw, types[col])
		}
		ds.rows[i] = values
	}
	return ds, nil
}

// NewFromMaps builds a data source from records keyed by column name. The
// columns are the union of all keys, sorted by name; missing keys are null.
func NewFromMaps(records []map[string]interface{}) (*DataSource, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", datatable.ErrEmptyData)
	}

	seen := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			seen[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(seen))
	for k := range seen {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(headers))
		for col, name := range headers {
			row[col] = rec[name]
		}
		rows[i] = row
	}
	return NewFromRows(headers, rows)
}

// InferType maps a Go value to a datatable type.
func InferType(v interface{}) datatable.DataType {
	switch v.(type) {
	case string:
		return datatable.TypeString
	case bool:
		return datatable.TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return datatable.TypeInt
	case float32, float64:
		return datatable.TypeFloat
	case time.Time:
		return datatable.TypeTimestamp
	case []byte:
		return datatable.TypeBinary
	case map[string]interface{}:
		return datatable.TypeStruct
	case []interface{}:
		return datatable.TypeList
	default:
		return datatable.TypeString
	}
}

// RowCount implements datatable.DataSource.
func (d *DataSource) RowCount() int { return len(d.rows) }

// ColumnCount implements datatable.DataSource.
func (d *DataSource) ColumnCount() int { return len(d.names) }

// ColumnName implements datatable.DataSource.
func (d *DataSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(d.names) {
		return "", datatable.ErrInvalidColumn
	}
	return d.names[col], nil
}

// ColumnType implements datatable.DataSource.
func (d *DataSource) ColumnType(col int) (datatable.DataType, error) {
	if col < 0 || col >= len(d.types) {
		return 0, datatable.ErrInvalidColumn
	}
	return d.types[col], nil
}

// Cell implements datatable.DataSource.
func (d *DataSource) Cell(row, col int) (datatable.Value, error) {
	if row < 0 || row >= len(d.rows) {
		return datatable.Value{}, datatable.ErrInvalidRow
	}
	if col < 0 || col >= len(d.names) {
		return datatable.Value{}, datatable.ErrInvalidColumn
	}
	return d.rows[row][col], nil
}

// Row implements datatable.DataSource.
func (d *DataSource) Row(row int) ([]datatable.Value, error) {
	if row < 0 || row >= len(d.rows) {
		return nil, datatable.ErrInvalidRow
	}
	return append([]datatable.Value(nil), d.rows[row]...), nil
}

// Metadata implements datatable.DataSource.
func (d *DataSource) Metadata() datatable.Metadata { return d.metadata }
