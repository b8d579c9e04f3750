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

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"coachboard/bind"
	"coachboard/datatable"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func visibleColumns(m *datatable.TableModel[datatable.Record]) ([]datatable.Column[datatable.Record], error) {
	ids := m.View().Columns
	columns := make([]datatable.Column[datatable.Record], len(ids))
	for i, id := range ids {
		col, err := m.Columns().Lookup(id)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return columns, nil
}

// renderPage prints the current page as a table followed by the paging and
// selection status. Selected rows are marked with "x".
func renderPage(w io.Writer, m *datatable.TableModel[datatable.Record]) error {
	columns, err := visibleColumns(m)
	if err != nil {
		return err
	}
	v := m.View()

	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, " ")
	for _, col := range columns {
		headers = append(headers, col.Header()+sortMarker(col.ID, m.SortState()))
	}

	rows := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		mark := " "
		if m.IsSelected(m.Key(r)) {
			mark = "x"
		}
		row := make([]string, 0, len(columns)+1)
		row = append(row, mark)
		for _, col := range columns {
			row = append(row, datatable.Stringify(col.Accessor(r)))
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, dimStyle.Render(statusLine(v)))
	return nil
}

func statusLine(v datatable.View[datatable.Record]) string {
	return fmt.Sprintf("%s  |  %s  |  %s of %s rows match",
		bind.PageLabel(v.PageIndex, v.PageCount),
		bind.SelectionLabel(v.FilteredSelectedCount, v.TotalFilteredCount),
		humanize.Comma(int64(v.TotalFilteredCount)),
		humanize.Comma(int64(v.TotalRowCount)))
}

func sortMarker(id string, state datatable.SortState) string {
	switch state.Direction(id) {
	case datatable.SortAscending:
		return " ^"
	case datatable.SortDescending:
		return " v"
	default:
		return ""
	}
}

// renderFacets prints the options of one faceted filter, marking the
// values its current filter allows.
func renderFacets(w io.Writer, m *datatable.TableModel[datatable.Record], id string, options []datatable.FacetOption) {
	active := m.FilterState().ColumnFilters[id]
	fmt.Fprintf(w, "%s:\n", headerStyle.Render(id))
	for _, opt := range options {
		mark := " "
		if active.Has(opt.Value) {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s (%s)\n", mark, opt.Value, humanize.Comma(int64(opt.Count)))
	}
}
