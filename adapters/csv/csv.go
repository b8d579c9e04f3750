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

// Package csv provides a datatable.DataSource backed by CSV data.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"coachboard/adapters/slice"
	"coachboard/datatable"
)

// Config controls how CSV input is parsed.
type Config struct {
	// Delimiter separates fields. Defaults to ','.
	Delimiter rune
	// HasHeaders treats the first record as column names.
	HasHeaders bool
	// TrimSpace trims leading and trailing space from every field.
	TrimSpace bool
	// InferTypes turns columns whose non-empty fields all parse as integers,
	// floats, booleans or dates into typed columns.
	InferTypes bool
}

// DefaultConfig returns a comma-separated config with headers and type
// inference enabled.
func DefaultConfig() Config {
	return Config{
		Delimiter:  ',',
		HasHeaders: true,
		TrimSpace:  true,
		InferTypes: true,
	}
}

// DataSource is a parsed CSV table.
type DataSource struct {
	*slice.DataSource
	metadata datatable.Metadata
}

// NewFromFile parses the CSV file at path.
func NewFromFile(path string, config Config) (*DataSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	ds, err := NewFromReader(f, config)
	if err != nil {
		return nil, err
	}
	ds.metadata["path"] = path
	return ds, nil
}

// NewFromReader parses CSV data from r.
func NewFromReader(r io.Reader, config Config) (*DataSource, error) {
	reader := csv.NewReader(r)
	if config.Delimiter != 0 {
		reader.Comma = config.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = config.TrimSpace

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	ds, err := NewFromRecords(records, config)
	if err != nil {
		return nil, err
	}
	ds.metadata["delimiter"] = string(reader.Comma)
	return ds, nil
}

// NewFromRecords builds a data source from already split records, such as
// spreadsheet rows. Records may have different lengths.
func NewFromRecords(records [][]string, config Config) (*DataSource, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: input has no records", datatable.ErrEmptyData)
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}

	var headers []string
	if config.HasHeaders {
		headers = make([]string, width)
		for i := range headers {
			if i < len(records[0]) {
				headers[i] = clean(records[0][i], config.TrimSpace)
			}
			if headers[i] == "" {
				headers[i] = fmt.Sprintf("column_%d", i+1)
			}
		}
		records = records[1:]
	} else {
		headers = make([]string, width)
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	parsers := make([]func(string) interface{}, width)
	for col := range parsers {
		parsers[col] = parseString
		if config.InferTypes {
			parsers[col] = inferParser(records, col, config.TrimSpace)
		}
	}

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, width)
		for col := range row {
			if col < len(rec) {
				row[col] = parsers[col](clean(rec[col], config.TrimSpace))
			}
		}
		rows[i] = row
	}

	inner, err := slice.NewFromRows(headers, rows)
	if err != nil {
		return nil, err
	}
	return &DataSource{
		DataSource: inner,
		metadata:   datatable.Metadata{"source": "csv"},
	}, nil
}

// Metadata implements datatable.DataSource.
func (d *DataSource) Metadata() datatable.Metadata { return d.metadata }

// SetMetadata records an extra metadata entry.
func (d *DataSource) SetMetadata(key string, value interface{}) {
	d.metadata[key] = value
}

func clean(s string, trim bool) string {
	if trim {
		return strings.TrimSpace(s)
	}
	return s
}

func parseString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// inferParser picks the narrowest parser accepting every non-empty field of
// column col.
func inferParser(records [][]string, col int, trim bool) func(string) interface{} {
	candidates := []func(string) (interface{}, bool){
		func(s string) (interface{}, bool) {
			v, err := strconv.ParseInt(s, 10, 64)
			return v, err == nil
		},
		func(s string) (interface{}, bool) {
			v, err := strconv.ParseFloat(s, 64)
			return v, err == nil
		},
		func(s string) (interface{}, bool) {
			v, err := strconv.ParseBool(s)
			return v, err == nil && !isDigits(s)
		},
		func(s string) (interface{}, bool) {
			v, err := time.Parse(time.DateOnly, s)
			return v, err == nil
		},
		func(s string) (interface{}, bool) {
			v, err := time.Parse(time.RFC3339, s)
			return v, err == nil
		},
	}

	for _, parse := range candidates {
		ok, seen := true, false
		for _, rec := range records {
			if col >= len(rec) {
				continue
			}
			s := clean(rec[col], trim)
			if s == "" {
				continue
			}
			seen = true
			if _, ok = parse(s); !ok {
				break
			}
		}
		if ok && seen {
			return func(s string) interface{} {
				if s == "" {
					return nil
				}
				v, _ := parse(s)
				return v
			}
		}
	}
	return parseString
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
