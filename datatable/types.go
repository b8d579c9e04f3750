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

// Package datatable holds the state of a generic tabular data view: the
// column model, faceted filtering, free-text search, multi-column sorting,
// pagination and row selection, composed by TableModel into one derived view.
package datatable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DataType represents the type of data in a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeDate represents date data (without time).
	TypeDate
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
	// TypeBinary represents binary/blob data.
	TypeBinary
	// TypeDecimal represents decimal/numeric data (fixed precision).
	TypeDecimal
	// TypeStruct represents structured data (nested fields).
	TypeStruct
	// TypeList represents list/array data.
	TypeList
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTimestamp:
		return "Timestamp"
	case TypeBinary:
		return "Binary"
	case TypeDecimal:
		return "Decimal"
	case TypeStruct:
		return "Struct"
	case TypeList:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// ParseDataType resolves a type name such as "int" or "Timestamp".
func ParseDataType(name string) (DataType, error) {
	for dt := TypeString; dt <= TypeList; dt++ {
		if strings.EqualFold(dt.String(), name) {
			return dt, nil
		}
	}
	return TypeString, fmt.Errorf("unknown data type %q", name)
}

// Discrete reports whether values of this type make sense as facet choices.
func (dt DataType) Discrete() bool {
	return dt == TypeString || dt == TypeBool
}

// Value is a typed container for cell values produced by a DataSource.
// It holds the raw value, type information, and a pre-formatted string for display.
type Value struct {
	// Raw holds the underlying value.
	// The type depends on the DataType field.
	Raw interface{}

	// Type indicates the data type of this value.
	Type DataType

	// IsNull indicates whether this value is null/nil.
	IsNull bool

	// Formatted is a pre-formatted string representation for display,
	// search and facet matching.
	Formatted string
}

// NewValue creates a new Value from a raw value and type.
func NewValue(raw interface{}, dataType DataType) Value {
	if raw == nil {
		return NewNullValue(dataType)
	}

	return Value{
		Raw:       raw,
		Type:      dataType,
		IsNull:    false,
		Formatted: formatValue(raw, dataType),
	}
}

// NewNullValue creates a null value of the specified type.
func NewNullValue(dataType DataType) Value {
	return Value{
		Raw:       nil,
		Type:      dataType,
		IsNull:    true,
		Formatted: "",
	}
}

// formatValue converts a raw value to a formatted string.
func formatValue(raw interface{}, dataType DataType) string {
	switch v := raw.(type) {
	case string:
		return v
	case time.Time:
		if dataType == TypeDate {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", raw)
	}
}

// Metadata holds optional metadata about a data source.
type Metadata map[string]interface{}

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "None"
	case SortAscending:
		return "Ascending"
	case SortDescending:
		return "Descending"
	default:
		return fmt.Sprintf("Unknown(%d)", sd)
	}
}

// SortCriterion orders rows by one column.
type SortCriterion struct {
	// Column is the id of the sorted column.
	Column string
	// Direction is the sort direction.
	Direction SortDirection
}

// Asc is shorthand for an ascending criterion on column.
func Asc(column string) SortCriterion {
	return SortCriterion{Column: column, Direction: SortAscending}
}

// Desc is shorthand for a descending criterion on column.
func Desc(column string) SortCriterion {
	return SortCriterion{Column: column, Direction: SortDescending}
}

// SortState is an ordered list of criteria; later entries break ties of
// earlier ones. An empty state preserves input order.
type SortState []SortCriterion

// IsSorted returns true if this state represents an active sort.
func (s SortState) IsSorted() bool {
	return len(s) > 0
}

// Direction returns the direction applied to column, or SortNone.
func (s SortState) Direction(column string) SortDirection {
	for _, c := range s {
		if c.Column == column {
			return c.Direction
		}
	}
	return SortNone
}

// FilterState holds the free-text search term and the per-column facet
// filters. A column present with an empty set excludes every row; a column
// absent from ColumnFilters is unrestricted.
type FilterState struct {
	SearchTerm string
	// SearchColumns limits search to these columns; empty means every
	// searchable column.
	SearchColumns []string
	ColumnFilters map[string]ValueSet
}

// Clone returns a deep copy of f.
func (f FilterState) Clone() FilterState {
	out := FilterState{SearchTerm: f.SearchTerm}
	if len(f.SearchColumns) > 0 {
		out.SearchColumns = append([]string(nil), f.SearchColumns...)
	}
	if f.ColumnFilters != nil {
		out.ColumnFilters = make(map[string]ValueSet, len(f.ColumnFilters))
		for id, set := range f.ColumnFilters {
			out.ColumnFilters[id] = set.Clone()
		}
	}
	return out
}

// IsFiltered reports whether any restriction is active.
func (f FilterState) IsFiltered() bool {
	return f.SearchTerm != "" || len(f.ColumnFilters) > 0
}

// ValueSet is a set of allowed display strings for one column filter.
type ValueSet map[string]struct{}

// NewValueSet builds a set from values. NewValueSet() is a valid empty set.
func NewValueSet(values ...string) ValueSet {
	s := make(ValueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Clone returns a copy of s.
func (s ValueSet) Clone() ValueSet {
	out := make(ValueSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Values returns the members in sorted order.
func (s ValueSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Has reports membership.
func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// PaginationState selects one fixed-size page of the ordered rows.
type PaginationState struct {
	PageIndex int
	PageSize  int
}

// DefaultPageSize is the page size of a new TableModel.
const DefaultPageSize = 10

// DefaultPageSizes are the page sizes a "rows per page" control offers.
var DefaultPageSizes = []int{10, 20, 30, 40, 50}

// PageSelection describes how much of the current page is selected.
type PageSelection int

const (
	// PageSelectionNone means no row on the page is selected.
	PageSelectionNone PageSelection = iota
	// PageSelectionSome means at least one but not every row is selected.
	PageSelectionSome
	// PageSelectionAll means every row on a non-empty page is selected.
	PageSelectionAll
)

// String returns the string representation of a PageSelection.
func (p PageSelection) String() string {
	switch p {
	case PageSelectionNone:
		return "None"
	case PageSelectionSome:
		return "Some"
	case PageSelectionAll:
		return "All"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}
