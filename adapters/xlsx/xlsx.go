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

// Package xlsx provides a datatable.DataSource read from an Excel workbook.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	csvadapter "coachboard/adapters/csv"
	"coachboard/datatable"
)

// Config selects the sheet and header handling.
type Config struct {
	// Sheet is the sheet to read; empty means the first sheet.
	Sheet string
	// HasHeaders treats the first row as column names.
	HasHeaders bool
	// InferTypes converts numeric, boolean and date columns.
	InferTypes bool
}

// DefaultConfig reads the first sheet with headers and type inference.
func DefaultConfig() Config {
	return Config{HasHeaders: true, InferTypes: true}
}

// NewFromFile reads one sheet of the workbook at path.
func NewFromFile(path string, config Config) (*csvadapter.DataSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", datatable.ErrEmptyData)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	ds, err := csvadapter.NewFromRecords(rows, csvadapter.Config{
		HasHeaders: config.HasHeaders,
		TrimSpace:  true,
		InferTypes: config.InferTypes,
	})
	if err != nil {
		return nil, err
	}
	ds.SetMetadata("source", "xlsx")
	ds.SetMetadata("sheet", sheet)
	ds.SetMetadata("path", path)
	return ds, nil
}
