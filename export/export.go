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

// Package export writes table rows (a page, the filtered view or the
// selection) to CSV, JSON, Parquet or XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"

	"coachboard/datatable"
)

// ExportFormat represents the supported export formats
type ExportFormat int

const (
	FormatParquet ExportFormat = iota
	FormatCSV
	FormatJSON
	FormatXLSX
)

// ErrUnknownFormat is returned when no format matches a file extension.
var ErrUnknownFormat = errors.New("unknown export format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// ToFile writes rows to path in the format matching its extension.
func ToFile[R any](path string, columns []datatable.Column[R], rows []R) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	return writeAndClose(file, filepath.Base(path), format, columns, rows)
}

// writeAndClose writes rows to wc and closes it, reporting both errors.
// The parquet writer may already have closed wc.
func writeAndClose[R any](wc io.WriteCloser, name string, format ExportFormat, columns []datatable.Column[R], rows []R) error {
	var err error
	switch format {
	case FormatParquet:
		err = ToParquet(wc, columns, rows)
	case FormatCSV:
		err = ToCSV(wc, columns, rows)
	case FormatJSON:
		err = ToJSON(wc, columns, rows)
	default:
		err = ToXLSX(wc, columns, rows)
	}

	if closeErr := wc.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		err = errors.Join(err, fmt.Errorf("failed to close %s: %w", name, closeErr))
	}
	return err
}

// ToCSV writes a header of column labels followed by one line per row.
func ToCSV[R any](w io.Writer, columns []datatable.Column[R], rows []R) error {
	writer := csv.NewWriter(w)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header()
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = datatable.Stringify(c.Accessor(row))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ToJSON writes an indented array of objects keyed by column id. Numbers
// and booleans keep their type; times are RFC 3339 strings.
func ToJSON[R any](w io.Writer, columns []datatable.Column[R], rows []R) error {
	records := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]interface{}, len(columns))
		for _, c := range columns {
			record[c.ID] = jsonValue(c.Accessor(row))
		}
		records = append(records, record)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func jsonValue(v interface{}) interface{} {
	switch raw := datatable.Raw(v).(type) {
	case nil:
		return nil
	case time.Time:
		return raw.Format(time.RFC3339)
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return raw
	default:
		return datatable.Stringify(v)
	}
}

// ToXLSX writes a workbook with one sheet named "Data".
func ToXLSX[R any](w io.Writer, columns []datatable.Column[R], rows []R) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Data"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := make([]interface{}, len(columns))
	for i, c := range columns {
		headers[i] = c.Header()
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range rows {
		values := make([]interface{}, len(columns))
		for i, c := range columns {
			values[i] = xlsxValue(c.Accessor(row))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func xlsxValue(v interface{}) interface{} {
	switch raw := datatable.Raw(v).(type) {
	case nil:
		return nil
	case time.Time, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return raw
	default:
		return datatable.Stringify(v)
	}
}

// ToParquet writes rows as a single Snappy-compressed row group. Column
// types follow Column.Type; values that do not fit the type are written as
// nulls.
func ToParquet[R any](w io.Writer, columns []datatable.Column[R], rows []R) error {
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		fields[i] = arrow.Field{Name: c.ID, Type: arrowType(c.Type), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	for _, row := range rows {
		for i, c := range columns {
			appendValue(b.Field(i), datatable.Raw(c.Accessor(row)))
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write rows to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

func arrowType(t datatable.DataType) arrow.DataType {
	switch t {
	case datatable.TypeInt:
		return arrow.PrimitiveTypes.Int64
	case datatable.TypeFloat, datatable.TypeDecimal:
		return arrow.PrimitiveTypes.Float64
	case datatable.TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case datatable.TypeDate:
		return arrow.FixedWidthTypes.Date32
	case datatable.TypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(b array.Builder, raw interface{}) {
	if raw == nil {
		b.AppendNull()
		return
	}

	switch fb := b.(type) {
	case *array.Int64Builder:
		if n, ok := toInt64(raw); ok {
			fb.Append(n)
			return
		}
	case *array.Float64Builder:
		if f, ok := toFloat64(raw); ok {
			fb.Append(f)
			return
		}
	case *array.BooleanBuilder:
		if v, ok := raw.(bool); ok {
			fb.Append(v)
			return
		}
	case *array.Date32Builder:
		if t, ok := raw.(time.Time); ok {
			fb.Append(arrow.Date32FromTime(t))
			return
		}
	case *array.TimestampBuilder:
		if t, ok := raw.(time.Time); ok {
			fb.Append(arrow.Timestamp(t.UnixMicro()))
			return
		}
	case *array.StringBuilder:
		fb.Append(datatable.Stringify(raw))
		return
	}
	b.AppendNull()
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}
