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

// errNoFacets reports a registered column that offers no facets. It matches
// both ErrColumnNotFilterable and ErrUnknownColumn.
var errNoFacets = fmt.Errorf("%w, %w among facet columns", ErrColumnNotFilterable, ErrUnknownColumn)

// FacetOption is one distinct value of a column and how many candidate rows
// carry it.
type FacetOption struct {
	Value string
	Count int
}

// ExtractFacets returns the distinct non-empty values of column id over
// rows, in first-seen order.
func ExtractFacets[R any](columns *ColumnSet[R], rows []R, id string) ([]FacetOption, error) {
	c, err := facetColumn(columns, id)
	if err != nil {
		return nil, err
	}
	return extractFacets(c, rows), nil
}

func facetColumn[R any](columns *ColumnSet[R], id string) (Column[R], error) {
	c, err := columns.Filterable(id)
	if errors.Is(err, ErrColumnNotFilterable) {
		return c, columnError("facets", id, errNoFacets)
	}
	return c, err
}

func extractFacets[R any](c Column[R], rows []R) []FacetOption {
	options := []FacetOption{}
	position := make(map[string]int)
	for _, row := range rows {
		v := Stringify(c.Accessor(row))
		if v == "" {
			continue
		}
		if i, seen := position[v]; seen {
			options[i].Count++
			continue
		}
		position[v] = len(options)
		options = append(options, FacetOption{Value: v, Count: 1})
	}
	return options
}

// facetsFor computes the options of every filterable column. Each column's
// options come from the rows passing the search term and every column
// filter except its own, so a chosen value never removes its siblings.
// filtered must be rows passing the whole of state; columns without a
// filter of their own take their options from it.
func facetsFor[R any](columns *ColumnSet[R], rows, filtered []R, state FilterState) (map[string][]FacetOption, error) {
	facets := make(map[string][]FacetOption)
	for _, c := range columns.filterable() {
		candidates := filtered
		if _, own := state.ColumnFilters[c.ID]; own {
			p, err := compileFilter(columns, state, c.ID)
			if err != nil {
				return nil, err
			}
			candidates = applyPredicate(rows, p)
		}
		facets[c.ID] = extractFacets(c, candidates)
	}
	return facets, nil
}
