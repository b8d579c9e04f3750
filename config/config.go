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

// Package config describes how a data source is presented: column labels
// and capabilities, the row key, computed columns and the initial search,
// filter, sort and page size. A ViewConfig is read from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"coachboard/datatable"
	"coachboard/script"
)

// ViewConfig is the top-level view configuration.
type ViewConfig struct {
	// Key names the column identifying rows. Empty means row position.
	Key string `yaml:"key"`

	// PageSize is the initial page size. Zero means datatable.DefaultPageSize.
	PageSize int `yaml:"page_size"`

	Search        string   `yaml:"search"`
	SearchColumns []string `yaml:"search_columns"`

	// Columns overrides the capabilities derived from the source, by column id.
	Columns map[string]ColumnConfig `yaml:"columns"`

	// Filters are the initial column filters: column id to allowed values.
	Filters map[string][]string `yaml:"filters"`

	Sort     []SortConfig     `yaml:"sort"`
	Computed []ComputedConfig `yaml:"computed"`
}

// ColumnConfig overrides one source column. Nil capabilities keep the
// derived default.
type ColumnConfig struct {
	Label      string `yaml:"label"`
	Sortable   *bool  `yaml:"sortable"`
	Filterable *bool  `yaml:"filterable"`
	Searchable *bool  `yaml:"searchable"`
	Hidden     bool   `yaml:"hidden"`
}

// SortConfig is one sort criterion.
type SortConfig struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc"`
}

// ComputedConfig defines a computed column; see package script.
type ComputedConfig struct {
	ID         string   `yaml:"id"`
	Label      string   `yaml:"label"`
	Expr       string   `yaml:"expr"`
	Imports    []string `yaml:"imports"`
	Type       string   `yaml:"type"`
	Sortable   bool     `yaml:"sortable"`
	Filterable bool     `yaml:"filterable"`
	Searchable bool     `yaml:"searchable"`
}

// Default returns an empty configuration: every source column with its
// derived capabilities, positional keys, default page size.
func Default() *ViewConfig {
	return &ViewConfig{PageSize: datatable.DefaultPageSize}
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*ViewConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes YAML from r. Unknown fields are rejected.
func Parse(r io.Reader) (*ViewConfig, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse view config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors that do not depend on the
// data source.
func (c *ViewConfig) Validate() error {
	var errs []error

	if c.PageSize < 0 {
		errs = append(errs, fmt.Errorf("page_size must not be negative: %w", datatable.ErrInvalidPageSize))
	}

	for i, s := range c.Sort {
		if s.Column == "" {
			errs = append(errs, fmt.Errorf("sort[%d].column is required", i))
		}
	}

	ids := make(map[string]bool)
	for i, comp := range c.Computed {
		switch {
		case comp.ID == "":
			errs = append(errs, fmt.Errorf("computed[%d].id is required", i))
		case ids[comp.ID]:
			errs = append(errs, fmt.Errorf("computed[%d]: %w: %q", i, datatable.ErrDuplicateColumn, comp.ID))
		}
		ids[comp.ID] = true

		if comp.Expr == "" {
			errs = append(errs, fmt.Errorf("computed[%d].expr is required", i))
		}
		if comp.Type != "" {
			if _, err := datatable.ParseDataType(comp.Type); err != nil {
				errs = append(errs, fmt.Errorf("computed[%d].type: %w", i, err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// BuildColumns derives the columns of ds, applies the overrides and appends
// the computed columns.
func (c *ViewConfig) BuildColumns(ds datatable.DataSource, log logrus.FieldLogger) ([]datatable.Column[datatable.Record], error) {
	columns, err := datatable.SourceColumns(ds)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(columns))
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		names[i] = col.ID
		index[col.ID] = i
	}

	for _, id := range sortedKeys(c.Columns) {
		i, ok := index[id]
		if !ok {
			return nil, &datatable.ColumnError{Op: "configure", Column: id, Err: datatable.ErrUnknownColumn}
		}
		override := c.Columns[id]
		if override.Label != "" {
			columns[i].Label = override.Label
		}
		if override.Sortable != nil {
			columns[i].Sortable = *override.Sortable
		}
		if override.Filterable != nil {
			columns[i].Filterable = *override.Filterable
		}
		if override.Searchable != nil {
			columns[i].Searchable = *override.Searchable
		}
	}

	for _, comp := range c.Computed {
		dataType := datatable.TypeString
		if comp.Type != "" {
			if dataType, err = datatable.ParseDataType(comp.Type); err != nil {
				return nil, err
			}
		}
		compiled, err := script.Compile(script.Definition{
			ID:         comp.ID,
			Label:      comp.Label,
			Expr:       comp.Expr,
			Imports:    comp.Imports,
			Type:       dataType,
			Sortable:   comp.Sortable,
			Filterable: comp.Filterable,
			Searchable: comp.Searchable,
		}, names, log)
		if err != nil {
			return nil, err
		}
		columns = append(columns, compiled.Column())
	}
	return columns, nil
}

// RowKey returns the key function for ds.
func (c *ViewConfig) RowKey(ds datatable.DataSource) (func(datatable.Record) string, error) {
	if c.Key == "" {
		return datatable.RecordIndexKey, nil
	}
	return datatable.RecordKey(ds, c.Key)
}

// Build creates a model over ds with the configured columns and initial
// state.
func (c *ViewConfig) Build(ds datatable.DataSource, log logrus.FieldLogger) (*datatable.TableModel[datatable.Record], error) {
	columns, err := c.BuildColumns(ds, log)
	if err != nil {
		return nil, err
	}
	key, err := c.RowKey(ds)
	if err != nil {
		return nil, err
	}
	records, err := datatable.ReadRecords(ds)
	if err != nil {
		return nil, err
	}

	opts := []datatable.Option[datatable.Record]{datatable.WithLogger[datatable.Record](log)}
	if c.PageSize > 0 {
		opts = append(opts, datatable.WithPageSize[datatable.Record](c.PageSize))
	}

	m, err := datatable.NewTableModel(columns, key, records, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Apply installs the configured visibility, search, filters and sort on m.
func (c *ViewConfig) Apply(m *datatable.TableModel[datatable.Record]) error {
	for _, id := range sortedKeys(c.Columns) {
		if c.Columns[id].Hidden {
			if err := m.SetColumnVisible(id, false); err != nil {
				return err
			}
		}
	}

	if len(c.SearchColumns) > 0 {
		if err := m.SetSearchColumns(c.SearchColumns...); err != nil {
			return err
		}
	}
	m.SetSearchTerm(c.Search)

	for _, id := range sortedKeys(c.Filters) {
		if err := m.SetColumnFilter(id, c.Filters[id]); err != nil {
			return err
		}
	}

	if len(c.Sort) > 0 {
		criteria := make([]datatable.SortCriterion, len(c.Sort))
		for i, s := range c.Sort {
			criteria[i] = datatable.Asc(s.Column)
			if s.Desc {
				criteria[i] = datatable.Desc(s.Column)
			}
		}
		if err := m.SetSort(criteria...); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
