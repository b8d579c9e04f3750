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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"coachboard/config"
	"coachboard/datatable"
	"coachboard/export"
	"coachboard/loader"
)

// Version is filled when building with make, but not when installing via
// "go install".
var Version string

// export scopes
const (
	scopePage     = "page"
	scopeFiltered = "filtered"
	scopeSelected = "selected"
)

var errBadFlag = errors.New("invalid flag value")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tableview [file]",
		Short:        "Browse a CSV, JSON, Parquet or XLSX file as a filtered, sorted, paged table.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	flags.Bool("version", false, "report version of this executable")
	flags.BoolP("verbose", "v", false, "increase logging verbosity")
	flags.StringP("config", "c", "", "view configuration file (YAML)")
	flags.String("key", "", "column identifying rows (default: row position)")
	flags.StringP("search", "s", "", "free-text search term")
	flags.StringSlice("search-columns", nil, "restrict search to these columns")
	flags.StringArrayP("filter", "f", nil, "column filter as column=value1,value2 (repeatable)")
	flags.StringArray("sort", nil, "sort criterion as column or column:desc (repeatable, in priority order)")
	flags.IntP("page", "p", 1, "page number to print (1-based)")
	flags.Int("page-size", 0, fmt.Sprintf("rows per page (one of %v)", datatable.DefaultPageSizes))
	flags.StringSlice("select", nil, "row keys to select")
	flags.Bool("select-all", false, "select every row passing the filters")
	flags.StringSlice("facets", nil, "print facet options for these columns")
	flags.StringP("export", "o", "", "export rows to a .csv, .json, .parquet or .xlsx file")
	flags.String("scope", scopeFiltered, "rows to export: page, filtered or selected")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if getFlag(cmd, "version") {
		fmt.Fprintln(cmd.OutOrStdout(), "tableview", version())
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: missing data file", errBadFlag)
	}

	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	if getFlag(cmd, "verbose") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ds, err := loader.New(log).Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	m, err := cfg.Build(ds, log)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	m.SetPage(page - 1)

	if getFlag(cmd, "select-all") {
		m.SelectAllFiltered()
	}
	keys, _ := cmd.Flags().GetStringSlice("select")
	for _, key := range keys {
		if !m.IsSelected(key) {
			m.Toggle(key)
		}
	}

	out := cmd.OutOrStdout()
	if err := renderPage(out, m); err != nil {
		return err
	}

	facetColumns, _ := cmd.Flags().GetStringSlice("facets")
	for _, id := range facetColumns {
		options, err := m.Facets(id)
		if err != nil {
			return err
		}
		renderFacets(out, m, id, options)
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		scope, _ := cmd.Flags().GetString("scope")
		return exportRows(log, m, path, scope)
	}
	return nil
}

// loadConfig reads --config, if given, and applies the flag overrides.
func loadConfig(cmd *cobra.Command) (*config.ViewConfig, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("key") {
		cfg.Key, _ = flags.GetString("key")
	}
	if flags.Changed("page-size") {
		size, _ := flags.GetInt("page-size")
		if size <= 0 {
			return nil, fmt.Errorf("%w: --page-size %d", datatable.ErrInvalidPageSize, size)
		}
		cfg.PageSize = size
	}
	if flags.Changed("search") {
		cfg.Search, _ = flags.GetString("search")
	}
	if flags.Changed("search-columns") {
		cfg.SearchColumns, _ = flags.GetStringSlice("search-columns")
	}

	filters, _ := flags.GetStringArray("filter")
	for _, f := range filters {
		id, values, err := parseFilter(f)
		if err != nil {
			return nil, err
		}
		if cfg.Filters == nil {
			cfg.Filters = make(map[string][]string)
		}
		cfg.Filters[id] = values
	}

	if flags.Changed("sort") {
		specs, _ := flags.GetStringArray("sort")
		cfg.Sort = cfg.Sort[:0]
		for _, s := range specs {
			sort, err := parseSort(s)
			if err != nil {
				return nil, err
			}
			cfg.Sort = append(cfg.Sort, sort)
		}
	}
	return cfg, nil
}

// parseFilter splits "column=v1,v2". "column=" installs a filter that
// excludes every row.
func parseFilter(s string) (string, []string, error) {
	id, list, ok := strings.Cut(s, "=")
	if !ok || id == "" {
		return "", nil, fmt.Errorf("%w: --filter %q, expected column=value1,value2", errBadFlag, s)
	}
	if list == "" {
		return id, []string{}, nil
	}
	return id, strings.Split(list, ","), nil
}

// parseSort reads "column", "column:asc" or "column:desc".
func parseSort(s string) (config.SortConfig, error) {
	id, dir, _ := strings.Cut(s, ":")
	if id == "" {
		return config.SortConfig{}, fmt.Errorf("%w: --sort %q", errBadFlag, s)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return config.SortConfig{Column: id}, nil
	case "desc":
		return config.SortConfig{Column: id, Desc: true}, nil
	default:
		return config.SortConfig{}, fmt.Errorf("%w: --sort %q, direction must be asc or desc", errBadFlag, s)
	}
}

func exportRows(log logrus.FieldLogger, m *datatable.TableModel[datatable.Record], path, scope string) error {
	var rows []datatable.Record
	switch scope {
	case scopePage:
		rows = m.View().Rows
	case scopeFiltered:
		rows = m.FilteredRows()
	case scopeSelected:
		rows = m.SelectedRows()
	default:
		return fmt.Errorf("%w: --scope %q", errBadFlag, scope)
	}

	columns, err := visibleColumns(m)
	if err != nil {
		return err
	}
	if err := export.ToFile(path, columns, rows); err != nil {
		return err
	}

	fields := logrus.Fields{"file": filepath.Base(path), "rows": len(rows), "scope": scope}
	if info, err := os.Stat(path); err == nil {
		fields["size"] = humanize.Bytes(uint64(info.Size()))
	}
	log.WithFields(fields).Info("exported rows")
	return nil
}

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(err)
	}
	return r
}

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}
