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
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"coachboard/internal/filter"
)

// Filter returns the rows of rows passing state, in input order. rows is
// not modified. A row passes when the search term (if any) occurs,
// case-insensitively, in at least one searchable column, and the row's
// value is allowed by every column filter.
func Filter[R any](columns *ColumnSet[R], rows []R, state FilterState) ([]R, error) {
	p, err := compileFilter(columns, state, "")
	if err != nil {
		return nil, err
	}
	return applyPredicate(rows, p), nil
}

// ValidateFilterState checks that every column referenced by state exists
// and has the matching capability.
func ValidateFilterState[R any](columns *ColumnSet[R], state FilterState) error {
	_, err := compileFilter(columns, state, "")
	return err
}

// compileFilter builds the predicate for state, leaving out the column
// filter of except (used to compute facets of that column).
func compileFilter[R any](columns *ColumnSet[R], state FilterState, except string) (filter.Predicate[R], error) {
	all := filter.All[R]()

	if state.SearchTerm != "" {
		search, err := compileSearch(columns, state.SearchTerm, state.SearchColumns)
		if err != nil {
			return nil, err
		}
		all.Add(search)
	}

	// Sorted ids keep the predicate order, and its description, stable.
	ids := make([]string, 0, len(state.ColumnFilters))
	for id := range state.ColumnFilters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c, err := columns.Filterable(id)
		if err != nil {
			return nil, err
		}
		if id == except {
			continue
		}
		all.Add(facetPredicate(c, state.ColumnFilters[id]))
	}
	return all, nil
}

func compileSearch[R any](columns *ColumnSet[R], term string, scope []string) (filter.Predicate[R], error) {
	var targets []Column[R]
	if len(scope) == 0 {
		targets = columns.searchable()
	} else {
		for _, id := range scope {
			c, err := columns.Searchable(id)
			if err != nil {
				return nil, err
			}
			targets = append(targets, c)
		}
	}

	fold := cases.Fold()
	needle := fold.String(term)

	anyColumn := filter.Any[R]()
	for _, c := range targets {
		accessor := c.Accessor
		anyColumn.Add(filter.Func[R]{
			Desc: fmt.Sprintf("%s contains %q", c.ID, term),
			Fn: func(row R) bool {
				return strings.Contains(fold.String(Stringify(accessor(row))), needle)
			},
		})
	}
	return anyColumn, nil
}

func facetPredicate[R any](c Column[R], allowed ValueSet) filter.Predicate[R] {
	values := make([]string, 0, len(allowed))
	for v := range allowed {
		values = append(values, v)
	}
	sort.Strings(values)

	accessor := c.Accessor
	return filter.Func[R]{
		Desc: fmt.Sprintf("%s in [%s]", c.ID, strings.Join(values, ", ")),
		Fn: func(row R) bool {
			return allowed.Has(Stringify(accessor(row)))
		},
	}
}

func applyPredicate[R any](rows []R, p filter.Predicate[R]) []R {
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if p.Evaluate(row) {
			out = append(out, row)
		}
	}
	return out
}
