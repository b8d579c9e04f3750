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

package slice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachboard/datatable"
)

func TestNewFromMaps(t *testing.T) {
	ds, err := NewFromMaps([]map[string]interface{}{
		{"name": "Alice", "age": float64(30), "active": true},
		{"name": "Bob", "coach": "Kim"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, 4, ds.ColumnCount())

	name, err := ds.ColumnName(0)
	require.NoError(t, err)
	assert.Equal(t, "active", name)

	typ, err := ds.ColumnType(1)
	require.NoError(t, err)
	assert.Equal(t, datatable.TypeFloat, typ)

	cell, err := ds.Cell(1, 1)
	require.NoError(t, err)
	assert.True(t, cell.IsNull)

	cell, err = ds.Cell(0, 3)
	require.NoError(t, err)
	assert.Equal(t, "Alice", cell.Formatted)
}

func TestNewFromMapsEmpty(t *testing.T) {
	_, err := NewFromMaps(nil)
	assert.ErrorIs(t, err, datatable.ErrEmptyData)
}

func TestBoundsErrors(t *testing.T) {
	ds, err := NewFromRows([]string{"a"}, [][]interface{}{{"x"}})
	require.NoError(t, err)

	_, err = ds.Cell(1, 0)
	assert.ErrorIs(t, err, datatable.ErrInvalidRow)
	_, err = ds.Cell(0, 1)
	assert.ErrorIs(t, err, datatable.ErrInvalidColumn)
	_, err = ds.Row(-1)
	assert.ErrorIs(t, err, datatable.ErrInvalidRow)
	_, err = ds.ColumnName(3)
	assert.ErrorIs(t, err, datatable.ErrInvalidColumn)

	_, err = NewFromRows([]string{"a"}, [][]interface{}{{"x", "y"}})
	assert.ErrorIs(t, err, datatable.ErrInvalidRow)
}

func TestRecordsDriveTableModel(t *testing.T) {
	ds, err := NewFromRows(
		[]string{"id", "name", "status", "sessions"},
		[][]interface{}{
			{"c1", "Alice Smith", "active", 12},
			{"c2", "Bob Johnson", "inactive", 3},
			{"c3", "Charlie Brown", "active", 7},
		},
	)
	require.NoError(t, err)

	records, err := datatable.ReadRecords(ds)
	require.NoError(t, err)
	columns, err := datatable.SourceColumns(ds)
	require.NoError(t, err)
	key, err := datatable.RecordKey(ds, "id")
	require.NoError(t, err)

	m, err := datatable.NewTableModel(columns, key, records)
	require.NoError(t, err)

	require.NoError(t, m.SetColumnFilter("status", []string{"active"}))
	require.NoError(t, m.SetSort(datatable.Desc("sessions")))

	v := m.View()
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "Alice Smith", v.Rows[0].Cell(1).Formatted)
	assert.Equal(t, "Charlie Brown", v.Rows[1].Cell(1).Formatted)

	m.Toggle("c3")
	assert.Equal(t, 1, m.SelectedCount())

	_, err = datatable.RecordKey(ds, "missing")
	assert.ErrorIs(t, err, datatable.ErrUnknownColumn)
	_, err = m.Facets("sessions")
	assert.ErrorIs(t, err, datatable.ErrColumnNotFilterable)
}
