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

package bind

import (
	"fmt"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachboard/datatable"
)

type athlete struct {
	ID    string
	Name  string
	Squad string
}

func athleteModel(t *testing.T, n int) *datatable.TableModel[athlete] {
	t.Helper()
	rows := make([]athlete, n)
	for i := range rows {
		squad := "senior"
		if i%2 == 1 {
			squad = "junior"
		}
		rows[i] = athlete{ID: fmt.Sprint(i), Name: fmt.Sprintf("Athlete %02d", i), Squad: squad}
	}
	columns := []datatable.Column[athlete]{
		{ID: "name", Accessor: func(a athlete) any { return a.Name }, Sortable: true, Searchable: true},
		{ID: "squad", Accessor: func(a athlete) any { return a.Squad }, Filterable: true},
	}
	m, err := datatable.NewTableModel(columns, func(a athlete) string { return a.ID }, rows)
	require.NoError(t, err)
	return m
}

func getInt(t *testing.T, get func() (int, error)) int {
	t.Helper()
	v, err := get()
	require.NoError(t, err)
	return v
}

func TestBindingMirrorsView(t *testing.T) {
	test.NewTempApp(t)
	m := athleteModel(t, 25)
	b := New(m)
	defer b.Close()

	assert.Equal(t, 25, getInt(t, b.TotalRows.Get))
	assert.Equal(t, 25, getInt(t, b.FilteredRows.Get))
	assert.Equal(t, 3, getInt(t, b.PageCount.Get))
	assert.Equal(t, 10, getInt(t, b.PageSize.Get))
	assert.Equal(t, 10, b.Rows.Length())

	label, err := b.PageLabel.Get()
	require.NoError(t, err)
	assert.Equal(t, "Page 1 of 3", label)

	m.NextPage()
	assert.Equal(t, 1, getInt(t, b.PageIndex.Get))
	prev, err := b.CanPrevious.Get()
	require.NoError(t, err)
	assert.True(t, prev)

	require.NoError(t, m.SetColumnFilter("squad", []string{"junior"}))
	assert.Equal(t, 12, getInt(t, b.FilteredRows.Get))
	assert.Equal(t, 1, getInt(t, b.PageIndex.Get))
	assert.Equal(t, 2, b.Rows.Length())
	filtered, err := b.Filtered.Get()
	require.NoError(t, err)
	assert.True(t, filtered)

	item, err := b.Rows.GetValue(0)
	require.NoError(t, err)
	assert.Equal(t, "Athlete 21", item.(athlete).Name)

	row, ok := b.Row(1)
	require.True(t, ok)
	assert.Equal(t, "23", row.ID)
	_, ok = b.Row(2)
	assert.False(t, ok)
}

func TestBindingSelectionLabel(t *testing.T) {
	test.NewTempApp(t)
	m := athleteModel(t, 1500)
	b := New(m)
	defer b.Close()

	m.SelectAllVisible()
	assert.Equal(t, 10, getInt(t, b.Selected.Get))

	label, err := b.SelectionLabel.Get()
	require.NoError(t, err)
	assert.Equal(t, "10 of 1,500 row(s) selected.", label)
}

func TestSelectionLabelCountsFilteredRows(t *testing.T) {
	test.NewTempApp(t)
	m := athleteModel(t, 25)
	b := New(m)
	defer b.Close()

	m.SelectAllVisible()
	require.NoError(t, m.SetColumnFilter("squad", []string{"junior"}))

	// rows 1, 3, 5, 7 and 9 of the selected first page are juniors.
	assert.Equal(t, 10, getInt(t, b.Selected.Get))
	assert.Equal(t, 5, getInt(t, b.FilteredSelected.Get))
	label, err := b.SelectionLabel.Get()
	require.NoError(t, err)
	assert.Equal(t, "5 of 12 row(s) selected.", label)
}

func TestSearchBindingDrivesModel(t *testing.T) {
	test.NewTempApp(t)
	m := athleteModel(t, 25)
	b := New(m)
	defer b.Close()

	require.NoError(t, b.Search.Set("athlete 2"))
	assert.Eventually(t, func() bool {
		return m.FilterState().SearchTerm == "athlete 2"
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		n, err := b.FilteredRows.Get()
		return err == nil && n == 5
	}, time.Second, 10*time.Millisecond)

	m.ClearAllFilters()
	term, err := b.Search.Get()
	require.NoError(t, err)
	assert.Equal(t, "", term)
}

func TestCloseStopsMirroring(t *testing.T) {
	test.NewTempApp(t)
	m := athleteModel(t, 25)
	b := New(m)
	b.Close()

	m.SetPage(2)
	assert.Equal(t, 0, getInt(t, b.PageIndex.Get))
	assert.Equal(t, 2, m.View().PageIndex)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Page 3 of 12", PageLabel(2, 12))
	assert.Equal(t, "0 of 0 row(s) selected.", SelectionLabel(0, 0))
}
