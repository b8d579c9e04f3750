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
	"io"
	"slices"

	"github.com/sirupsen/logrus"
)

// View is the derived, read-only state a renderer consumes. It is fully
// determined by the dataset, the columns and the filter, sort and
// pagination state.
type View[R any] struct {
	// Rows are the rows of the current page, in display order.
	Rows []R
	// TotalRowCount is the size of the bound dataset.
	TotalRowCount int
	// TotalFilteredCount is the number of rows passing the filters.
	TotalFilteredCount int
	PageIndex          int
	PageSize           int
	PageCount          int
	// Facets holds, per filterable column, the options a faceted filter offers.
	Facets map[string][]FacetOption
	// Columns lists the visible column ids in registration order.
	Columns []string
	// SelectedCount counts selected keys present in the dataset.
	SelectedCount int
	// FilteredSelectedCount counts selected rows passing the filters.
	FilteredSelectedCount int
	// PageSelection summarizes the selection of the current page.
	PageSelection PageSelection
}

// Option configures a TableModel.
type Option[R any] func(*TableModel[R])

// WithLogger sets the logger used for debug tracing of state changes.
func WithLogger[R any](log logrus.FieldLogger) Option[R] {
	return func(m *TableModel[R]) { m.log = log }
}

// WithPageSize sets the initial page size.
func WithPageSize[R any](size int) Option[R] {
	return func(m *TableModel[R]) { m.page.PageSize = size }
}

// TableModel owns the filter, sort, pagination and selection state of one
// table and recomputes the derived View synchronously after each mutation.
// It is not safe for concurrent use.
type TableModel[R any] struct {
	columns *ColumnSet[R]
	key     func(R) string
	log     logrus.FieldLogger

	rows  []R
	known map[string]struct{}

	filter    FilterState
	sort      SortState
	page      PaginationState
	hidden    map[string]bool
	selection *Selection

	sorted []R
	view   View[R]

	listeners map[int]func(View[R])
	nextID    int
}

// NewTableModel binds rows to columns. key must return a unique, stable
// identity for each row; it is used for selection.
func NewTableModel[R any](columns []Column[R], key func(R) string, rows []R, opts ...Option[R]) (*TableModel[R], error) {
	set, err := NewColumnSet(columns...)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrNoRowKey
	}

	m := &TableModel[R]{
		columns:   set,
		key:       key,
		page:      PaginationState{PageSize: DefaultPageSize},
		hidden:    make(map[string]bool),
		selection: NewSelection(),
		listeners: make(map[int]func(View[R])),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.page.PageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	if m.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		m.log = discard
	}

	m.bind(rows)
	m.recompute()
	return m, nil
}

// Columns returns the column set.
func (m *TableModel[R]) Columns() *ColumnSet[R] {
	return m.columns
}

// Key returns the identity of row.
func (m *TableModel[R]) Key(row R) string {
	return m.key(row)
}

// View returns the current derived view.
func (m *TableModel[R]) View() View[R] {
	return m.view
}

// Subscribe registers fn to be called with the new view after every
// mutation. The returned function removes the subscription.
func (m *TableModel[R]) Subscribe(fn func(View[R])) (cancel func()) {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

// SetData replaces the dataset snapshot. Filter and sort state are kept;
// selected keys missing from the new snapshot are dropped, so their rows
// come back unselected.
func (m *TableModel[R]) SetData(rows []R) {
	m.bind(rows)
	m.update("data")
}

// Rows returns the bound dataset in input order.
func (m *TableModel[R]) Rows() []R {
	return slices.Clone(m.rows)
}

// FilterState returns a copy of the filter state.
func (m *TableModel[R]) FilterState() FilterState {
	return m.filter.Clone()
}

// IsFiltered reports whether a search term or column filter is active.
func (m *TableModel[R]) IsFiltered() bool {
	return m.filter.IsFiltered()
}

// SetSearchTerm sets the free-text search term; "" disables search.
func (m *TableModel[R]) SetSearchTerm(term string) {
	if term == m.filter.SearchTerm {
		return
	}
	m.filter.SearchTerm = term
	m.update("search")
}

// SetSearchColumns restricts search to ids. No ids means every searchable
// column.
func (m *TableModel[R]) SetSearchColumns(ids ...string) error {
	for _, id := range ids {
		if _, err := m.columns.Searchable(id); err != nil {
			return err
		}
	}
	m.filter.SearchColumns = slices.Clone(ids)
	m.update("search scope")
	return nil
}

// SetColumnFilter restricts column id to values. An empty values list
// installs a filter that excludes every row; use ClearColumnFilter to lift
// the restriction.
func (m *TableModel[R]) SetColumnFilter(id string, values []string) error {
	if _, err := m.columns.Filterable(id); err != nil {
		return err
	}
	if m.filter.ColumnFilters == nil {
		m.filter.ColumnFilters = make(map[string]ValueSet)
	}
	m.filter.ColumnFilters[id] = NewValueSet(values...)
	m.update("column filter")
	return nil
}

// ClearColumnFilter removes the filter of column id, if any.
func (m *TableModel[R]) ClearColumnFilter(id string) {
	if _, ok := m.filter.ColumnFilters[id]; !ok {
		return
	}
	delete(m.filter.ColumnFilters, id)
	m.update("column filter")
}

// ClearAllFilters empties the search term and every column filter in one
// transition.
func (m *TableModel[R]) ClearAllFilters() {
	m.filter.SearchTerm = ""
	m.filter.ColumnFilters = nil
	m.update("reset filters")
}

// Facets returns the facet options of column id for the current state.
func (m *TableModel[R]) Facets(id string) ([]FacetOption, error) {
	if _, err := facetColumn(m.columns, id); err != nil {
		return nil, err
	}
	return slices.Clone(m.view.Facets[id]), nil
}

// SortState returns a copy of the sort state.
func (m *TableModel[R]) SortState() SortState {
	return slices.Clone(m.sort)
}

// SetSort replaces the sort criteria. Criteria with SortNone are dropped.
func (m *TableModel[R]) SetSort(criteria ...SortCriterion) error {
	state := make(SortState, 0, len(criteria))
	for _, c := range criteria {
		if c.Direction != SortNone {
			state = append(state, c)
		}
	}
	if err := ValidateSort(m.columns, state); err != nil {
		return err
	}
	m.sort = state
	m.update("sort")
	return nil
}

// ToggleSort advances column id through none, ascending and descending, as
// a header click does. With multi the column is kept alongside the other
// criteria; otherwise it replaces them.
func (m *TableModel[R]) ToggleSort(id string, multi bool) error {
	if _, err := m.columns.Sortable(id); err != nil {
		return err
	}

	next := nextDirection(m.sort.Direction(id))
	i := slices.IndexFunc(m.sort, func(c SortCriterion) bool { return c.Column == id })
	state := slices.Clone(m.sort)
	switch {
	case !multi && next == SortNone:
		state = nil
	case !multi:
		state = SortState{{Column: id, Direction: next}}
	case i >= 0 && next == SortNone:
		state = slices.Delete(state, i, i+1)
	case i >= 0:
		state[i].Direction = next
	default:
		state = append(state, SortCriterion{Column: id, Direction: next})
	}

	m.sort = state
	m.update("sort")
	return nil
}

// ClearSort restores input order.
func (m *TableModel[R]) ClearSort() {
	m.sort = nil
	m.update("sort")
}

// Pagination returns the current pagination state.
func (m *TableModel[R]) Pagination() PaginationState {
	return m.page
}

// SetPage moves to page index, clamped to the available pages.
func (m *TableModel[R]) SetPage(index int) {
	m.page.PageIndex = index
	m.update("page")
}

// NextPage moves forward one page if possible.
func (m *TableModel[R]) NextPage() {
	if m.CanNextPage() {
		m.SetPage(m.page.PageIndex + 1)
	}
}

// PreviousPage moves back one page if possible.
func (m *TableModel[R]) PreviousPage() {
	if m.CanPreviousPage() {
		m.SetPage(m.page.PageIndex - 1)
	}
}

// CanNextPage reports whether a later page exists.
func (m *TableModel[R]) CanNextPage() bool {
	return m.view.PageIndex < m.view.PageCount-1
}

// CanPreviousPage reports whether an earlier page exists.
func (m *TableModel[R]) CanPreviousPage() bool {
	return m.view.PageIndex > 0
}

// SetPageSize changes the page size and returns to the first page.
func (m *TableModel[R]) SetPageSize(size int) error {
	if size <= 0 {
		return ErrInvalidPageSize
	}
	m.page.PageSize = size
	m.page.PageIndex = 0
	m.update("page size")
	return nil
}

// SetColumnVisible shows or hides column id in View.Columns.
func (m *TableModel[R]) SetColumnVisible(id string, visible bool) error {
	if _, err := m.columns.Lookup(id); err != nil {
		return err
	}
	if visible {
		delete(m.hidden, id)
	} else {
		m.hidden[id] = true
	}
	m.update("column visibility")
	return nil
}

// Toggle flips the selection of the row identified by key.
func (m *TableModel[R]) Toggle(key string) {
	m.selection.Toggle(key)
	m.selectionChanged("toggle")
}

// SelectAllVisible selects every row of the current page.
func (m *TableModel[R]) SelectAllVisible() {
	m.selection.SelectAll(m.keys(m.view.Rows)...)
	m.selectionChanged("select page")
}

// SelectAllFiltered selects every row passing the filters, on all pages.
func (m *TableModel[R]) SelectAllFiltered() {
	m.selection.SelectAll(m.keys(m.sorted)...)
	m.selectionChanged("select filtered")
}

// ToggleAllVisible acts as a header checkbox: it deselects the page if every
// row on it is selected and selects the whole page otherwise.
func (m *TableModel[R]) ToggleAllVisible() {
	keys := m.keys(m.view.Rows)
	if m.view.PageSelection == PageSelectionAll {
		m.selection.DeselectAll(keys...)
	} else {
		m.selection.SelectAll(keys...)
	}
	m.selectionChanged("toggle page")
}

// ClearSelection deselects every row.
func (m *TableModel[R]) ClearSelection() {
	m.selection.Clear()
	m.selectionChanged("clear selection")
}

// IsSelected reports whether the row identified by key is selected. Keys
// absent from the dataset are never selected.
func (m *TableModel[R]) IsSelected(key string) bool {
	if _, ok := m.known[key]; !ok {
		return false
	}
	return m.selection.IsSelected(key)
}

// SelectedCount counts selected rows present in the dataset.
func (m *TableModel[R]) SelectedCount() int {
	return m.view.SelectedCount
}

// SelectedRows returns the selected rows of the dataset in input order.
func (m *TableModel[R]) SelectedRows() []R {
	var out []R
	for _, row := range m.rows {
		if m.selection.IsSelected(m.key(row)) {
			out = append(out, row)
		}
	}
	return out
}

// FilteredRows returns every row passing the filters, in sorted order.
func (m *TableModel[R]) FilteredRows() []R {
	return slices.Clone(m.sorted)
}

func (m *TableModel[R]) bind(rows []R) {
	m.rows = rows
	m.known = make(map[string]struct{}, len(rows))
	for _, row := range rows {
		k := m.key(row)
		if _, dup := m.known[k]; dup {
			m.log.WithField("key", k).Warn("duplicate row key in dataset")
		}
		m.known[k] = struct{}{}
	}

	var stale []string
	for _, k := range m.selection.Keys() {
		if _, ok := m.known[k]; !ok {
			stale = append(stale, k)
		}
	}
	if len(stale) > 0 {
		m.selection.DeselectAll(stale...)
		m.log.WithField("keys", len(stale)).Debug("dropped selection of removed rows")
	}
}

func (m *TableModel[R]) keys(rows []R) []string {
	keys := make([]string, len(rows))
	for i, row := range rows {
		keys[i] = m.key(row)
	}
	return keys
}

func (m *TableModel[R]) update(reason string) {
	m.recompute()
	m.log.WithFields(logrus.Fields{
		"reason":   reason,
		"search":   m.filter.SearchTerm,
		"filters":  len(m.filter.ColumnFilters),
		"sort":     len(m.sort),
		"page":     m.view.PageIndex,
		"filtered": m.view.TotalFilteredCount,
	}).Debug("view recomputed")
	m.notify()
}

func (m *TableModel[R]) selectionChanged(reason string) {
	m.refreshSelection()
	m.log.WithFields(logrus.Fields{
		"reason":   reason,
		"selected": m.view.SelectedCount,
	}).Debug("selection changed")
	m.notify()
}

// recompute runs filter, sort and paginate. State is validated when it is
// set, so the engines cannot fail here.
func (m *TableModel[R]) recompute() {
	filtered, err := Filter(m.columns, m.rows, m.filter)
	if err != nil {
		panic(err)
	}
	facets, err := facetsFor(m.columns, m.rows, filtered, m.filter)
	if err != nil {
		panic(err)
	}
	sorted, err := Sort(m.columns, filtered, m.sort)
	if err != nil {
		panic(err)
	}
	page, state, err := Paginate(sorted, m.page)
	if err != nil {
		panic(err)
	}
	m.page = state
	m.sorted = sorted

	var visible []string
	for _, id := range m.columns.IDs() {
		if !m.hidden[id] {
			visible = append(visible, id)
		}
	}

	m.view = View[R]{
		Rows:               page.Rows,
		TotalRowCount:      len(m.rows),
		TotalFilteredCount: len(sorted),
		PageIndex:          page.PageIndex,
		PageSize:           m.page.PageSize,
		PageCount:          page.PageCount,
		Facets:             facets,
		Columns:            visible,
	}
	m.refreshSelection()
}

func (m *TableModel[R]) refreshSelection() {
	m.view.SelectedCount = m.selection.CountIn(m.known)

	m.view.FilteredSelectedCount = 0
	for _, row := range m.sorted {
		if m.selection.IsSelected(m.key(row)) {
			m.view.FilteredSelectedCount++
		}
	}

	selected := 0
	for _, row := range m.view.Rows {
		if m.selection.IsSelected(m.key(row)) {
			selected++
		}
	}
	switch {
	case selected == 0:
		m.view.PageSelection = PageSelectionNone
	case selected == len(m.view.Rows):
		m.view.PageSelection = PageSelectionAll
	default:
		m.view.PageSelection = PageSelectionSome
	}
}

func (m *TableModel[R]) notify() {
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := m.listeners[id]; ok {
			fn(m.view)
		}
	}
}
