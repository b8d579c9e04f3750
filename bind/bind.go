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

// Package bind mirrors a TableModel into fyne data bindings so widgets can
// display the current page and counters, and routes a bound search string
// back into the model.
//
// All methods and binding callbacks must run on the fyne main goroutine,
// like the model itself.
package bind

import (
	"fmt"

	"fyne.io/fyne/v2/data/binding"
	"github.com/dustin/go-humanize"

	"coachboard/datatable"
)

// TableBinding exposes the derived view of a model as bindings.
type TableBinding[R any] struct {
	model *datatable.TableModel[R]
	view  datatable.View[R]

	// Rows holds the rows of the current page.
	Rows binding.UntypedList
	// Search is two-way: setting it changes the model's search term.
	Search binding.String

	TotalRows    binding.Int
	FilteredRows binding.Int
	PageIndex    binding.Int
	PageCount    binding.Int
	PageSize     binding.Int
	Selected     binding.Int
	// FilteredSelected counts selected rows passing the filters.
	FilteredSelected binding.Int

	CanNext     binding.Bool
	CanPrevious binding.Bool
	Filtered    binding.Bool

	// PageLabel reads like "Page 2 of 5".
	PageLabel binding.String
	// SelectionLabel reads like "3 of 1,204 row(s) selected."
	SelectionLabel binding.String

	unsubscribe    func()
	searchListener binding.DataListener
}

// New binds model and fills every binding from its current view.
func New[R any](model *datatable.TableModel[R]) *TableBinding[R] {
	b := &TableBinding[R]{
		model:            model,
		Rows:             binding.NewUntypedList(),
		Search:           binding.NewString(),
		TotalRows:        binding.NewInt(),
		FilteredRows:     binding.NewInt(),
		PageIndex:        binding.NewInt(),
		PageCount:        binding.NewInt(),
		PageSize:         binding.NewInt(),
		Selected:         binding.NewInt(),
		FilteredSelected: binding.NewInt(),
		CanNext:          binding.NewBool(),
		CanPrevious:      binding.NewBool(),
		Filtered:         binding.NewBool(),
		PageLabel:        binding.NewString(),
		SelectionLabel:   binding.NewString(),
	}

	b.update(model.View())
	b.unsubscribe = model.Subscribe(b.update)

	b.searchListener = binding.NewDataListener(b.searchChanged)
	b.Search.AddListener(b.searchListener)
	return b
}

// Close detaches the bindings from the model.
func (b *TableBinding[R]) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.Search.RemoveListener(b.searchListener)
}

// View returns the view most recently mirrored.
func (b *TableBinding[R]) View() datatable.View[R] {
	return b.view
}

// Row returns row i of the current page.
func (b *TableBinding[R]) Row(i int) (R, bool) {
	if i < 0 || i >= len(b.view.Rows) {
		var zero R
		return zero, false
	}
	return b.view.Rows[i], true
}

func (b *TableBinding[R]) searchChanged() {
	term, err := b.Search.Get()
	if err != nil {
		return
	}
	b.model.SetSearchTerm(term)
}

func (b *TableBinding[R]) update(v datatable.View[R]) {
	b.view = v

	rows := make([]interface{}, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = r
	}
	_ = b.Rows.Set(rows)

	_ = b.Search.Set(b.model.FilterState().SearchTerm)
	_ = b.TotalRows.Set(v.TotalRowCount)
	_ = b.FilteredRows.Set(v.TotalFilteredCount)
	_ = b.PageIndex.Set(v.PageIndex)
	_ = b.PageCount.Set(v.PageCount)
	_ = b.PageSize.Set(v.PageSize)
	_ = b.Selected.Set(v.SelectedCount)
	_ = b.FilteredSelected.Set(v.FilteredSelectedCount)
	_ = b.CanNext.Set(v.PageIndex < v.PageCount-1)
	_ = b.CanPrevious.Set(v.PageIndex > 0)
	_ = b.Filtered.Set(b.model.IsFiltered())
	_ = b.PageLabel.Set(PageLabel(v.PageIndex, v.PageCount))
	_ = b.SelectionLabel.Set(SelectionLabel(v.FilteredSelectedCount, v.TotalFilteredCount))
}

// PageLabel formats a zero-based page index for display.
func PageLabel(index, count int) string {
	return fmt.Sprintf("Page %s of %s", humanize.Comma(int64(index+1)), humanize.Comma(int64(count)))
}

// SelectionLabel formats the selection counter shown under a table.
func SelectionLabel(selected, filtered int) string {
	return fmt.Sprintf("%s of %s row(s) selected.", humanize.Comma(int64(selected)), humanize.Comma(int64(filtered)))
}
