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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{5, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.size), "PageCount(%d, %d)", tt.total, tt.size)
	}
}

func TestPaginate(t *testing.T) {
	rows := manyPeople(25)

	page, state, err := Paginate(rows, PaginationState{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, state.PageIndex)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, ids(rows[10:20]), ids(page.Rows))

	page, _, err = Paginate(rows, PaginationState{PageIndex: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Rows, 5)
}

func TestPaginateClamps(t *testing.T) {
	rows := manyPeople(5)

	page, state, err := Paginate(rows, PaginationState{PageIndex: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, state.PageIndex)
	assert.Equal(t, 0, page.PageIndex)
	assert.Len(t, page.Rows, 5)

	page, state, err = Paginate([]person(nil), PaginationState{PageIndex: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, state.PageIndex)
	assert.Equal(t, 1, page.PageCount)
	assert.Empty(t, page.Rows)

	_, _, err = Paginate(rows, PaginationState{PageSize: 0})
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestPagesConcatenateToInput(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 37} {
		for _, size := range []int{1, 3, 10} {
			rows := manyPeople(n)
			var joined []person
			count := PageCount(n, size)
			for i := 0; i < count; i++ {
				page, _, err := Paginate(rows, PaginationState{PageIndex: i, PageSize: size})
				require.NoError(t, err)
				joined = append(joined, page.Rows...)
			}
			assert.Equal(t, ids(rows), ids(joined), "n=%d size=%d", n, size)
		}
	}
}
