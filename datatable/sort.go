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

import "slices"

// ValidateSort checks that every criterion names a distinct sortable column.
func ValidateSort[R any](columns *ColumnSet[R], state SortState) error {
	seen := make(map[string]struct{}, len(state))
	for _, c := range state {
		if _, err := columns.Sortable(c.Column); err != nil {
			return err
		}
		if _, dup := seen[c.Column]; dup {
			return columnError("sort", c.Column, ErrDuplicateColumn)
		}
		seen[c.Column] = struct{}{}
	}
	return nil
}

// Sort returns rows ordered by state. Rows equal under every criterion keep
// their input order; an empty state returns the rows unchanged. rows is not
// modified. Criteria with SortNone are ignored.
func Sort[R any](columns *ColumnSet[R], rows []R, state SortState) ([]R, error) {
	if err := ValidateSort(columns, state); err != nil {
		return nil, err
	}

	type criterion struct {
		accessor func(R) any
		sign     int
	}
	var criteria []criterion
	for _, s := range state {
		if s.Direction == SortNone {
			continue
		}
		c, _ := columns.Lookup(s.Column)
		sign := 1
		if s.Direction == SortDescending {
			sign = -1
		}
		criteria = append(criteria, criterion{accessor: c.Accessor, sign: sign})
	}

	out := slices.Clone(rows)
	if len(criteria) == 0 || len(out) < 2 {
		return out, nil
	}

	// Read every key once up front; accessors may be costly.
	keys := make([][]any, len(out))
	for i, row := range out {
		keys[i] = make([]any, len(criteria))
		for j, c := range criteria {
			keys[i][j] = c.accessor(row)
		}
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		for j, c := range criteria {
			if r := CompareValues(keys[a][j], keys[b][j]); r != 0 {
				return r * c.sign
			}
		}
		return 0
	})

	sorted := make([]R, len(out))
	for i, idx := range order {
		sorted[i] = out[idx]
	}
	return sorted, nil
}

// nextDirection cycles a header click: none, ascending, descending, none.
func nextDirection(d SortDirection) SortDirection {
	switch d {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}
