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

// Column describes how to read and treat one field of the row type R.
type Column[R any] struct {
	// ID identifies the column; unique within a ColumnSet.
	ID string

	// Label is an optional display name. Header falls back to ID.
	Label string

	// Accessor reads the column value from a row. It must be pure.
	Accessor func(R) any

	// Type is an optional hint for renderers and exporters.
	Type DataType

	// Sortable columns may appear in a SortState.
	Sortable bool

	// Filterable columns may carry a facet filter and expose facet options.
	Filterable bool

	// Searchable columns take part in free-text search.
	Searchable bool
}

// Header returns the label, or the id when no label is set.
func (c Column[R]) Header() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// ColumnSet is an immutable, ordered collection of columns with unique ids.
type ColumnSet[R any] struct {
	columns []Column[R]
	index   map[string]int
}

// NewColumnSet validates columns and indexes them by id.
func NewColumnSet[R any](columns ...Column[R]) (*ColumnSet[R], error) {
	set := &ColumnSet[R]{
		columns: make([]Column[R], len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := set.index[c.ID]; dup {
			return nil, columnError("register", c.ID, ErrDuplicateColumn)
		}
		if c.Accessor == nil {
			return nil, columnError("register", c.ID, ErrNilAccessor)
		}
		set.index[c.ID] = i
		set.columns[i] = c
	}
	return set, nil
}

// Len returns the number of columns.
func (s *ColumnSet[R]) Len() int {
	return len(s.columns)
}

// Columns returns the columns in registration order.
func (s *ColumnSet[R]) Columns() []Column[R] {
	out := make([]Column[R], len(s.columns))
	copy(out, s.columns)
	return out
}

// IDs returns the column ids in registration order.
func (s *ColumnSet[R]) IDs() []string {
	ids := make([]string, len(s.columns))
	for i, c := range s.columns {
		ids[i] = c.ID
	}
	return ids
}

// Lookup returns the column registered under id.
func (s *ColumnSet[R]) Lookup(id string) (Column[R], error) {
	i, ok := s.index[id]
	if !ok {
		return Column[R]{}, columnError("lookup", id, ErrUnknownColumn)
	}
	return s.columns[i], nil
}

// Read returns the value of column id for row.
func (s *ColumnSet[R]) Read(row R, id string) (any, error) {
	c, err := s.Lookup(id)
	if err != nil {
		return nil, err
	}
	return c.Accessor(row), nil
}

// Sortable returns column id if it may be sorted on.
func (s *ColumnSet[R]) Sortable(id string) (Column[R], error) {
	return s.require("sort", id, func(c Column[R]) bool { return c.Sortable }, ErrColumnNotSortable)
}

// Filterable returns column id if it may carry a facet filter.
func (s *ColumnSet[R]) Filterable(id string) (Column[R], error) {
	return s.require("filter", id, func(c Column[R]) bool { return c.Filterable }, ErrColumnNotFilterable)
}

// Searchable returns column id if it takes part in search.
func (s *ColumnSet[R]) Searchable(id string) (Column[R], error) {
	return s.require("search", id, func(c Column[R]) bool { return c.Searchable }, ErrColumnNotSearchable)
}

func (s *ColumnSet[R]) require(op, id string, ok func(Column[R]) bool, notOK error) (Column[R], error) {
	i, found := s.index[id]
	if !found {
		return Column[R]{}, columnError(op, id, ErrUnknownColumn)
	}
	c := s.columns[i]
	if !ok(c) {
		return Column[R]{}, columnError(op, id, notOK)
	}
	return c, nil
}

// searchable returns every searchable column in registration order.
func (s *ColumnSet[R]) searchable() []Column[R] {
	var out []Column[R]
	for _, c := range s.columns {
		if c.Searchable {
			out = append(out, c)
		}
	}
	return out
}

// filterable returns every filterable column in registration order.
func (s *ColumnSet[R]) filterable() []Column[R] {
	var out []Column[R]
	for _, c := range s.columns {
		if c.Filterable {
			out = append(out, c)
		}
	}
	return out
}
