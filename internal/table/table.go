// Package table holds the in-memory model of a table read from a data
// source: ordered column names, an optional primary key and rows of
// native Go values.
//
// Values are kept as the data source produced them. Classification and
// normalization happen later, in the value and compare packages.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// Table is a snapshot of the rows of a table or of a query result.
type Table struct {
	Name       string
	Columns    []string
	PrimaryKey []string
	Rows       [][]any
}

// New returns an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// WithPrimaryKey sets the primary key columns and returns t.
func (t *Table) WithPrimaryKey(columns ...string) *Table {
	t.PrimaryKey = columns
	return t
}

// AddRow appends a row. The number of values must match the columns.
func (t *Table) AddRow(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values for %d columns", len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.Columns) }

// ColumnName returns the name of the i-th column.
func (t *Table) ColumnName(i int) (string, error) {
	if err := checkIndex(i, len(t.Columns)); err != nil {
		return "", err
	}
	return t.Columns[i], nil
}

// ColumnIndex finds a column by name, ignoring case.
func (t *Table) ColumnIndex(name string) (int, error) {
	return IndexOf(t.Columns, name)
}

// IndexOf finds name in columns, ignoring case.
func IndexOf(columns []string, name string) (int, error) {
	if name == "" {
		return -1, errors.New("Column name must be not null")
	}
	for i, c := range columns {
		if strings.EqualFold(c, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("Column <%s> does not exist", name)
}

// Row returns a copy of the i-th row.
func (t *Table) Row(i int) ([]any, error) {
	if err := checkIndex(i, len(t.Rows)); err != nil {
		return nil, err
	}
	return append([]any(nil), t.Rows[i]...), nil
}

// Column returns the values of the i-th column, one per row.
func (t *Table) Column(i int) ([]any, error) {
	if err := checkIndex(i, len(t.Columns)); err != nil {
		return nil, err
	}
	values := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values, nil
}

// Value returns the value at a row and column.
func (t *Table) Value(row, col int) (any, error) {
	if err := checkIndex(row, len(t.Rows)); err != nil {
		return nil, err
	}
	if err := checkIndex(col, len(t.Columns)); err != nil {
		return nil, err
	}
	return t.Rows[row][col], nil
}

// PrimaryKeyIndexes resolves the primary key columns to column indexes.
func (t *Table) PrimaryKeyIndexes() ([]int, error) {
	idx := make([]int, len(t.PrimaryKey))
	for i, name := range t.PrimaryKey {
		c, err := t.ColumnIndex(name)
		if err != nil {
			return nil, fmt.Errorf("primary key of %s: %w", t.Name, err)
		}
		idx[i] = c
	}
	return idx, nil
}

// Clone returns a deep copy of the table structure. Values are shared.
func (t *Table) Clone() *Table {
	c := &Table{
		Name:       t.Name,
		Columns:    append([]string(nil), t.Columns...),
		PrimaryKey: append([]string(nil), t.PrimaryKey...),
		Rows:       make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]any(nil), row...)
	}
	return c
}

func checkIndex(i, size int) error {
	if i < 0 || i >= size {
		return fmt.Errorf("Index %d out of the limits [0, %d[", i, size)
	}
	return nil
}
