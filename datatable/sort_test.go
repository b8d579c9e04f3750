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

func TestSort(t *testing.T) {
	set := mustColumns()

	tests := []struct {
		name  string
		state SortState
		want  []string
	}{
		{"empty keeps input order", nil, []string{"1", "2", "3", "4", "5"}},
		{"string ascending", SortState{Asc("name")}, []string{"1", "2", "3", "4", "5"}},
		{"string descending", SortState{Desc("name")}, []string{"5", "4", "3", "2", "1"}},
		{"numeric ties keep input order", SortState{Asc("age")}, []string{"2", "5", "1", "4", "3"}},
		{"descending ties keep input order", SortState{Desc("age")}, []string{"3", "1", "4", "2", "5"}},
		{"chronological", SortState{Asc("joined")}, []string{"3", "5", "2", "4", "1"}},
		{"tie breaker", SortState{Asc("age"), Desc("name")}, []string{"5", "2", "4", "1", "3"}},
		{"none criteria ignored", SortState{{Column: "age", Direction: SortNone}}, []string{"1", "2", "3", "4", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sort(set, samplePeople(), tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortIsStable(t *testing.T) {
	set := mustColumns()
	rows := manyPeople(40) // ages cycle 20..24

	got, err := Sort(set, rows, SortState{Asc("status")})
	require.NoError(t, err)
	assert.Equal(t, ids(rows), ids(got), "all rows tie on status")

	got, err = Sort(set, rows, SortState{Asc("age")})
	require.NoError(t, err)
	last := map[int]int{}
	for i, p := range got {
		if prev, ok := last[p.Age]; ok {
			assert.Less(t, indexOf(rows, got[prev].ID), indexOf(rows, p.ID))
		}
		last[p.Age] = i
	}
}

func TestSortNumericNotLexical(t *testing.T) {
	set := mustColumns()
	rows := []person{{ID: "a", Age: 10}, {ID: "b", Age: 9}, {ID: "c", Age: 100}}

	got, err := Sort(set, rows, SortState{Asc("age")})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))
}

func TestSortDoesNotModifyInput(t *testing.T) {
	set := mustColumns()
	rows := samplePeople()

	_, err := Sort(set, rows, SortState{Desc("name")})
	require.NoError(t, err)
	assert.Equal(t, samplePeople(), rows)
}

func TestSortErrors(t *testing.T) {
	set := mustColumns()

	_, err := Sort(set, samplePeople(), SortState{Asc("missing")})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = Sort(set, samplePeople(), SortState{Asc("select")})
	assert.ErrorIs(t, err, ErrColumnNotSortable)

	err = ValidateSort(set, SortState{Asc("age"), Desc("age")})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func indexOf(rows []person, id string) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
