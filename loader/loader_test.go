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

package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachboard/datatable"
	"coachboard/export"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newLoader() (*Loader, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(logger), hook
}

func TestDetectFileType(t *testing.T) {
	cases := map[string]FileType{
		"clients.csv":     FileTypeCSV,
		"clients.TSV":     FileTypeCSV,
		"clients.parquet": FileTypeParquet,
		"clients.json":    FileTypeJSON,
		"clients.xlsx":    FileTypeXLSX,
		"clients.bin":     FileTypeUnknown,
		"clients":         FileTypeUnknown,
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectFileType(path), path)
	}
	assert.Equal(t, "Parquet", FileTypeParquet.String())
	assert.Equal(t, "Unknown", FileTypeUnknown.String())
}

func TestDetectCSVSeparator(t *testing.T) {
	cases := []struct {
		header string
		want   rune
		name   string
	}{
		{"name,status,age", ',', "comma"},
		{"name;status;age", ';', "semicolon"},
		{"name\tstatus\tage", '\t', "tab"},
		{"name|status|age", '|', "pipe"},
		{"name", ',', "comma"},
	}
	for _, tc := range cases {
		path := writeFile(t, "data.csv", tc.header+"\nx\n")
		sep, err := DetectCSVSeparator(path)
		require.NoError(t, err)
		assert.Equal(t, tc.want, sep, tc.header)
		assert.Equal(t, tc.name, SeparatorName(sep))
	}

	_, err := DetectCSVSeparator(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "clients.csv", "name;status;sessions\nAlice;active;12\nBob;inactive;3\n")
	l, hook := newLoader()

	ds, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, 3, ds.ColumnCount())

	typ, err := ds.ColumnType(2)
	require.NoError(t, err)
	assert.Equal(t, datatable.TypeInt, typ)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "loaded data file", last.Message)
	assert.Equal(t, 2, last.Data["rows"])
	assert.Equal(t, "CSV", last.Data["type"])
}

func TestLoadJSON(t *testing.T) {
	l, _ := newLoader()

	path := writeFile(t, "clients.json", `[{"name":"Alice","sessions":12},{"name":"Bob"}]`)
	ds, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())

	name, err := ds.ColumnName(0)
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	missing, err := ds.Cell(1, 1)
	require.NoError(t, err)
	assert.True(t, missing.IsNull)

	path = writeFile(t, "client.json", `{"name":"Alice"}`)
	ds, err = l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.RowCount())

	path = writeFile(t, "empty.json", `[]`)
	_, err = l.Load(context.Background(), path)
	assert.ErrorIs(t, err, datatable.ErrEmptyData)

	path = writeFile(t, "broken.json", `{"name":`)
	_, err = l.Load(context.Background(), path)
	assert.Error(t, err)
}

type client struct {
	Name     string
	Sessions int
}

func clientColumns() []datatable.Column[client] {
	return []datatable.Column[client]{
		{ID: "name", Accessor: func(c client) any { return c.Name }, Type: datatable.TypeString},
		{ID: "sessions", Accessor: func(c client) any { return c.Sessions }, Type: datatable.TypeInt},
	}
}

func TestLoadExportedFiles(t *testing.T) {
	rows := []client{{"Alice", 12}, {"Bob", 3}, {"Carol", 7}}
	l, _ := newLoader()

	for _, name := range []string{"clients.parquet", "clients.xlsx", "clients.csv", "clients.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, export.ToFile(path, clientColumns(), rows), name)

		ds, err := l.Load(context.Background(), path)
		require.NoError(t, err, name)
		assert.Equal(t, 3, ds.RowCount(), name)
		assert.Equal(t, 2, ds.ColumnCount(), name)

		cell, err := ds.Cell(2, 0)
		require.NoError(t, err, name)
		assert.Equal(t, "Carol", cell.Formatted, name)
	}
}

func TestLoadUnsupported(t *testing.T) {
	l, _ := newLoader()

	path := writeFile(t, "clients.bin", "x")
	_, err := l.Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
