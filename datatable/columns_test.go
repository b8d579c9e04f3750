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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnSetRejectsDuplicates(t *testing.T) {
	cols := personColumns()
	cols = append(cols, cols[0])

	_, err := NewColumnSet(cols...)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	var colErr *ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "name", colErr.Column)
}

func TestNewColumnSetRejectsNilAccessor(t *testing.T) {
	_, err := NewColumnSet(Column[person]{ID: "broken"})
	assert.ErrorIs(t, err, ErrNilAccessor)
}

func TestColumnSetRead(t *testing.T) {
	set := mustColumns()
	row := samplePeople()[0]

	v, err := set.Read(row, "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", v)

	_, err = set.Read(row, "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestColumnSetCapabilities(t *testing.T) {
	set := mustColumns()

	tests := []struct {
		name    string
		check   func(string) (Column[person], error)
		id      string
		wantErr error
	}{
		{"sortable", set.Sortable, "name", nil},
		{"not sortable", set.Sortable, "select", ErrColumnNotSortable},
		{"filterable", set.Filterable, "status", nil},
		{"not filterable", set.Filterable, "name", ErrColumnNotFilterable},
		{"searchable", set.Searchable, "email", nil},
		{"not searchable", set.Searchable, "status", ErrColumnNotSearchable},
		{"unknown", set.Sortable, "nope", ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.check(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, c.ID)
		})
	}
}

func TestColumnHeader(t *testing.T) {
	set := mustColumns()
	name, _ := set.Lookup("name")
	age, _ := set.Lookup("age")

	assert.Equal(t, "Name", name.Header())
	assert.Equal(t, "age", age.Header())
	assert.Equal(t, []string{"name", "email", "status", "age", "joined", "select"}, set.IDs())
}
