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

// Package loader turns data files into datatable.DataSource values. It is
// the entry point for datasets that arrive as uploads.
package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	arrowadapter "coachboard/adapters/arrow"
	csvadapter "coachboard/adapters/csv"
	sliceadapter "coachboard/adapters/slice"
	xlsxadapter "coachboard/adapters/xlsx"
	"coachboard/datatable"
)

// FileType represents the type of data file
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeParquet
	FileTypeJSON
	FileTypeXLSX
)

// String returns the string representation of a FileType.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "CSV"
	case FileTypeParquet:
		return "Parquet"
	case FileTypeJSON:
		return "JSON"
	case FileTypeXLSX:
		return "XLSX"
	default:
		return "Unknown"
	}
}

// ErrUnsupportedFile is returned for files of unknown type.
var ErrUnsupportedFile = errors.New("unsupported file type")

// DetectFileType determines the type of file based on its extension
func DetectFileType(filePath string) FileType {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv", ".tsv", ".txt":
		return FileTypeCSV
	case ".parquet":
		return FileTypeParquet
	case ".json":
		return FileTypeJSON
	case ".xlsx":
		return FileTypeXLSX
	default:
		return FileTypeUnknown
	}
}

// DetectCSVSeparator tries to detect the CSV separator from the first line
func DetectCSVSeparator(filePath string) (rune, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return ',', fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return ',', nil
	}

	firstLine := scanner.Text()
	if firstLine == "" {
		return ',', nil
	}

	// Fixed order so ties resolve the same way every time.
	candidates := []rune{',', ';', '\t', '|'}
	maxCount := 0
	detectedSep := ','
	for _, sep := range candidates {
		if count := strings.Count(firstLine, string(sep)); count > maxCount {
			maxCount = count
			detectedSep = sep
		}
	}

	return detectedSep, nil
}

// SeparatorName returns a human-readable name for the separator
func SeparatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(sep)
	}
}

// Loader reads data files and logs what it loaded.
type Loader struct {
	log logrus.FieldLogger
}

// New returns a Loader logging to log.
func New(log logrus.FieldLogger) *Loader {
	return &Loader{log: log}
}

// Load reads filePath with the adapter matching its type.
func (l *Loader) Load(ctx context.Context, filePath string) (datatable.DataSource, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}

	fileType := DetectFileType(filePath)
	log := l.log.WithFields(logrus.Fields{
		"file": filepath.Base(filePath),
		"type": fileType.String(),
		"size": humanize.Bytes(uint64(info.Size())),
	})
	log.Debug("loading data file")

	var ds datatable.DataSource
	switch fileType {
	case FileTypeCSV:
		ds, err = l.loadCSVFile(filePath, log)
	case FileTypeParquet:
		ds, err = loadParquetFile(ctx, filePath)
	case FileTypeJSON:
		ds, err = loadJSONFile(filePath)
	case FileTypeXLSX:
		ds, err = xlsxadapter.NewFromFile(filePath, xlsxadapter.DefaultConfig())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(filePath))
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"rows":    ds.RowCount(),
		"columns": ds.ColumnCount(),
	}).Info("loaded data file")
	return ds, nil
}

// loadCSVFile loads a CSV file using the CSV adapter
func (l *Loader) loadCSVFile(filePath string, log logrus.FieldLogger) (datatable.DataSource, error) {
	separator, err := DetectCSVSeparator(filePath)
	if err != nil {
		log.WithError(err).Warn("separator detection failed, using comma")
		separator = ','
	}
	log.WithField("separator", SeparatorName(separator)).Debug("detected CSV separator")

	config := csvadapter.DefaultConfig()
	config.Delimiter = separator

	dataSource, err := csvadapter.NewFromFile(filePath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load CSV file: %w", err)
	}
	return dataSource, nil
}

// loadParquetFile loads a Parquet file using the Arrow adapter
func loadParquetFile(ctx context.Context, filePath string) (datatable.DataSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer table.Release()

	dataSource, err := arrowadapter.NewFromArrowTable(table)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow data source: %w", err)
	}
	return dataSource, nil
}

// loadJSONFile loads an array of objects (or a single object) using the
// slice adapter
func loadJSONFile(filePath string) (datatable.DataSource, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var data []map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		var singleObj map[string]interface{}
		if err := json.Unmarshal(content, &singleObj); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		data = []map[string]interface{}{singleObj}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: JSON file has no records", datatable.ErrEmptyData)
	}

	dataSource, err := sliceadapter.NewFromMaps(data)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source from JSON: %w", err)
	}
	return dataSource, nil
}
