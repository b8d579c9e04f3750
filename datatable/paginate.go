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

// Page is one slice of an ordered row set.
type Page[R any] struct {
	Rows      []R
	PageIndex int
	PageCount int
}

// PageCount returns max(1, ceil(total/pageSize)).
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPageIndex limits index to [0, PageCount(total, pageSize)-1].
func ClampPageIndex(index, total, pageSize int) int {
	last := PageCount(total, pageSize) - 1
	switch {
	case index < 0:
		return 0
	case index > last:
		return last
	default:
		return index
	}
}

// Paginate returns the page of rows selected by state. The page index is
// clamped into range; the returned state carries the clamped index.
func Paginate[R any](rows []R, state PaginationState) (Page[R], PaginationState, error) {
	if state.PageSize <= 0 {
		return Page[R]{}, state, ErrInvalidPageSize
	}

	state.PageIndex = ClampPageIndex(state.PageIndex, len(rows), state.PageSize)
	start := state.PageIndex * state.PageSize
	end := min(start+state.PageSize, len(rows))
	if start > end {
		start = end
	}

	page := Page[R]{
		Rows:      rows[start:end:end],
		PageIndex: state.PageIndex,
		PageCount: PageCount(len(rows), state.PageSize),
	}
	return page, state, nil
}
