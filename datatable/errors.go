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

package datatable

import (
	"errors"
	"fmt"
)

// Common errors returned by the datatable package.
var (
	// ErrUnknownColumn is returned when a column id is not registered.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrColumnNotFilterable is returned when a facet filter targets a column
	// that is not filterable.
	ErrColumnNotFilterable = errors.New("column not filterable")

	// ErrColumnNotSortable is returned when a sort criterion targets a column
	// that is not sortable.
	ErrColumnNotSortable = errors.New("column not sortable")

	// ErrColumnNotSearchable is returned when the search scope names a column
	// that is not searchable.
	ErrColumnNotSearchable = errors.New("column not searchable")

	// ErrDuplicateColumn is returned when two columns share an id.
	ErrDuplicateColumn = errors.New("duplicate column id")

	// ErrNilAccessor is returned when a column has no accessor.
	ErrNilAccessor = errors.New("column accessor is nil")

	// ErrNoRowKey is returned when a table model is built without a row key.
	ErrNoRowKey = errors.New("row key function is nil")

	// ErrInvalidPageSize is returned when a page size is not positive.
	ErrInvalidPageSize = errors.New("page size must be positive")

	// ErrInvalidColumn is returned when a column index is out of range.
	ErrInvalidColumn = errors.New("invalid column index")

	// ErrInvalidRow is returned when a row index is out of range.
	ErrInvalidRow = errors.New("invalid row index")

	// ErrNoDataSource is returned when a required data source is nil.
	ErrNoDataSource = errors.New("data source is nil")

	// ErrEmptyData is returned when data is empty where it shouldn't be.
	ErrEmptyData = errors.New("data is empty")
)

// ColumnError records the operation and column that caused a configuration
// error. It unwraps to one of the sentinel errors above.
type ColumnError struct {
	Op     string
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

func columnError(op, column string, err error) error {
	return &ColumnError{Op: op, Column: column, Err: err}
}
