package datatable

import (
	"fmt"
	"strconv"
)

// DataSource provides read-only access to tabular data.
// Implementations must be thread-safe for concurrent reads.
// All methods should return errors rather than panic.
type DataSource interface {
	// RowCount returns the total number of rows in the data source.
	RowCount() int

	// ColumnCount returns the total number of columns in the data source.
	ColumnCount() int

	// ColumnName returns the name of the column at the given index.
	// Returns ErrInvalidColumn if col is out of range.
	ColumnName(col int) (string, error)

	// ColumnType returns the data type of the column at the given index.
	// Returns ErrInvalidColumn if col is out of range.
	ColumnType(col int) (DataType, error)

	// Cell returns the value at the specified row and column.
	// Returns ErrInvalidRow if row is out of range.
	// Returns ErrInvalidColumn if col is out of range.
	Cell(row, col int) (Value, error)

	// Row returns all values for the specified row.
	// Returns ErrInvalidRow if row is out of range.
	Row(row int) ([]Value, error)

	// Metadata returns optional metadata about the data source.
	// Returns an empty Metadata map if no metadata is available.
	Metadata() Metadata
}

// Record is one row materialized from a DataSource, usable as the row type
// of a TableModel.
type Record struct {
	// Index is the row position in the source snapshot.
	Index int
	// Values holds one value per source column.
	Values []Value
}

// Cell returns the value of column col, or a null string value when col is
// out of range.
func (r Record) Cell(col int) Value {
	if col < 0 || col >= len(r.Values) {
		return NewNullValue(TypeString)
	}
	return r.Values[col]
}

// ReadRecords materializes every row of ds.
func ReadRecords(ds DataSource) ([]Record, error) {
	if ds == nil {
		return nil, ErrNoDataSource
	}

	records := make([]Record, ds.RowCount())
	for i := range records {
		values, err := ds.Row(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", i, err)
		}
		records[i] = Record{Index: i, Values: values}
	}
	return records, nil
}

// SourceColumns derives one column per source column. Every column is
// sortable; string columns are searchable; string and bool columns are
// filterable.
func SourceColumns(ds DataSource) ([]Column[Record], error) {
	if ds == nil {
		return nil, ErrNoDataSource
	}

	columns := make([]Column[Record], ds.ColumnCount())
	for i := range columns {
		name, err := ds.ColumnName(i)
		if err != nil {
			return nil, err
		}
		dataType, err := ds.ColumnType(i)
		if err != nil {
			return nil, err
		}

		col := i
		columns[i] = Column[Record]{
			ID:         name,
			Accessor:   func(r Record) any { return r.Cell(col) },
			Type:       dataType,
			Sortable:   true,
			Filterable: dataType.Discrete(),
			Searchable: dataType == TypeString,
		}
	}
	return columns, nil
}

// RecordIndexKey identifies a record by its position in the source. It is
// only stable while the same snapshot is bound; prefer RecordKey when the
// data has a primary key column.
func RecordIndexKey(r Record) string {
	return strconv.Itoa(r.Index)
}

// RecordKey returns a key function reading the named source column.
func RecordKey(ds DataSource, column string) (func(Record) string, error) {
	if ds == nil {
		return nil, ErrNoDataSource
	}
	for i := 0; i < ds.ColumnCount(); i++ {
		name, err := ds.ColumnName(i)
		if err != nil {
			return nil, err
		}
		if name == column {
			col := i
			return func(r Record) string { return r.Cell(col).Formatted }, nil
		}
	}
	return nil, columnError("row key", column, ErrUnknownColumn)
}
