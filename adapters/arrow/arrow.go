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

// Package arrow provides a datatable.DataSource backed by an Apache Arrow
// table, such as one read from a Parquet file.
package arrow

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"coachboard/datatable"
)

// DataSource holds the values of an arrow table converted to datatable
// values. The arrow table is not retained.
type DataSource struct {
	names    []string
	types    []datatable.DataType
	rows     [][]datatable.Value
	metadata datatable.Metadata
}

// NewFromArrowTable converts every row of table.
func NewFromArrowTable(table arrow.Table) (*DataSource, error) {
	if table == nil {
		return nil, datatable.ErrNoDataSource
	}

	schema := table.Schema()
	ds := &DataSource{
		names:    make([]string, schema.NumFields()),
		types:    make([]datatable.DataType, schema.NumFields()),
		rows:     make([][]datatable.Value, 0, table.NumRows()),
		metadata: datatable.Metadata{"source": "arrow"},
	}
	for i, field := range schema.Fields() {
		ds.names[i] = field.Name
		ds.types[i] = TypeOf(field.Type)
	}
	if md := schema.Metadata(); md.Len() > 0 {
		for i, k := range md.Keys() {
			ds.metadata[k] = md.Values()[i]
		}
	}

	if table.NumRows() == 0 {
		return ds, nil
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for rowIdx := 0; rowIdx < int(rec.NumRows()); rowIdx++ {
			row := make([]datatable.Value, rec.NumCols())
			for colIdx, col := range rec.Columns() {
				row[colIdx] = cellValue(col, rowIdx, ds.types[colIdx])
			}
			ds.rows = append(ds.rows, row)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}
	return ds, nil
}

// TypeOf maps an arrow type to a datatable type.
func TypeOf(dt arrow.DataType) datatable.DataType {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return datatable.TypeString
	case arrow.BOOL:
		return datatable.TypeBool
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return datatable.TypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return datatable.TypeFloat
	case arrow.DATE32, arrow.DATE64:
		return datatable.TypeDate
	case arrow.TIMESTAMP:
		return datatable.TypeTimestamp
	case arrow.DECIMAL128:
		return datatable.TypeDecimal
	case arrow.BINARY, arrow.LARGE_BINARY:
		return datatable.TypeBinary
	case arrow.STRUCT:
		return datatable.TypeStruct
	case arrow.LIST, arrow.LARGE_LIST:
		return datatable.TypeList
	default:
		return datatable.TypeString
	}
}

// cellValue converts the value at pos, keeping numeric and temporal values
// typed so they sort correctly.
func cellValue(col arrow.Array, pos int, typ datatable.DataType) datatable.Value {
	if col.IsNull(pos) {
		return datatable.NewNullValue(typ)
	}

	switch c := col.(type) {
	case *array.String:
		return datatable.NewValue(c.Value(pos), typ)
	case *array.LargeString:
		return datatable.NewValue(c.Value(pos), typ)
	case *array.Boolean:
		return datatable.NewValue(c.Value(pos), typ)
	case *array.Int8:
		return datatable.NewValue(int64(c.Value(pos)), typ)
	case *array.Int16:
		return datatable.NewValue(int64(c.Value(pos)), typ)
	case *array.Int32:
		return datatable.NewValue(int64(c.Value(pos)), typ)
	case *array.Int64:
		return datatable.NewValue(c.Value(pos), typ)
	case *array.Uint8:
		return datatable.NewValue(uint64(c.Value(pos)), typ)
	case *array.Uint16:
		return datatable.NewValue(uint64(c.Value(pos)), typ)
	case *array.Uint32:
		return datatable.NewValue(uint64(c.Value(pos)), typ)
	case *array.Uint64:
		return datatable.NewValue(c.Value(pos), typ)
	case *array.Float16:
		return datatable.NewValue(float64(c.Value(pos).Float32()), typ)
	case *array.Float32:
		return datatable.NewValue(float64(c.Value(pos)), typ)
	case *array.Float64:
		return datatable.NewValue(c.Value(pos), typ)
	case *array.Date32:
		return datatable.NewValue(c.Value(pos).ToTime().UTC(), typ)
	case *array.Date64:
		return datatable.NewValue(c.Value(pos).ToTime().UTC(), typ)
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return datatable.NewValue(c.Value(pos).ToTime(unit).UTC(), typ)
	case *array.Decimal128:
		scale := c.DataType().(*arrow.Decimal128Type).Scale
		v := datatable.NewValue(c.Value(pos).ToFloat64(scale), typ)
		v.Formatted = c.ValueStr(pos)
		return v
	case *array.Binary:
		return datatable.NewValue(c.Value(pos), typ)
	default:
		return datatable.NewValue(col.ValueStr(pos), typ)
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
