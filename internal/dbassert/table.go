package dbassert

import (
	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/table"
)

// TableAssert is the entry point of the navigation of a table.
type TableAssert struct {
	table *table.Table
	desc  string
	err   error

	rows       map[int]*RowAssert
	columns    map[int]*ColumnAssert
	nextRow    int
	nextColumn int
}

// AssertThat starts the navigation of t.
func AssertThat(t *table.Table) *TableAssert {
	a := &TableAssert{
		table:   t,
		rows:    make(map[int]*RowAssert),
		columns: make(map[int]*ColumnAssert),
	}
	if t == nil {
		a.err = report.Usage("Table must be not null")
		return a
	}
	a.desc = t.Name + " table"
	return a
}

// As replaces the description of the table.
func (a *TableAssert) As(desc string) *TableAssert {
	a.desc = desc
	return a
}

// Description returns the description used in failures.
func (a *TableAssert) Description() string { return a.desc }

// HasRowsSize fails unless the table has n rows.
func (a *TableAssert) HasRowsSize(n int) error {
	if a.err != nil {
		return a.err
	}
	if got := a.table.RowCount(); got != n {
		return check(a.desc, report.SizeMismatch(report.UnitRows, n, got))
	}
	return nil
}

// HasColumnsSize fails unless the table has n columns.
func (a *TableAssert) HasColumnsSize(n int) error {
	if a.err != nil {
		return a.err
	}
	if got := a.table.ColumnCount(); got != n {
		return check(a.desc, report.SizeMismatch(report.UnitColumns, n, got))
	}
	return nil
}

// Row navigates to the row after the last one navigated to.
func (a *TableAssert) Row() *RowAssert {
	return a.RowAt(a.nextRow)
}

// RowAt navigates to the i-th row.
func (a *TableAssert) RowAt(i int) *RowAssert {
	if a.err != nil {
		return &RowAssert{table: a, err: a.err}
	}
	a.nextRow = i + 1
	if r, ok := a.rows[i]; ok {
		r.nextValue = 0
		return r
	}
	values, err := a.table.Row(i)
	if err != nil {
		return &RowAssert{table: a, err: navigationError(err)}
	}
	r := newRow(indexDescription("Row", i, a.desc), a.table.Columns, values, true)
	r.table = a
	a.rows[i] = r
	return r
}

// Column navigates to the column after the last one navigated to.
func (a *TableAssert) Column() *ColumnAssert {
	return a.ColumnAt(a.nextColumn)
}

// ColumnNamed navigates to the column called name, ignoring case.
func (a *TableAssert) ColumnNamed(name string) *ColumnAssert {
	if a.err != nil {
		return &ColumnAssert{table: a, err: a.err}
	}
	i, err := a.table.ColumnIndex(name)
	if err != nil {
		return &ColumnAssert{table: a, err: navigationError(err)}
	}
	return a.ColumnAt(i)
}

// ColumnAt navigates to the i-th column.
func (a *TableAssert) ColumnAt(i int) *ColumnAssert {
	if a.err != nil {
		return &ColumnAssert{table: a, err: a.err}
	}
	a.nextColumn = i + 1
	if c, ok := a.columns[i]; ok {
		c.nextValue = 0
		return c
	}
	values, err := a.table.Column(i)
	if err != nil {
		return &ColumnAssert{table: a, err: navigationError(err)}
	}
	name := a.table.Columns[i]
	c := &ColumnAssert{
		table:  a,
		name:   name,
		values: values,
		desc:   namedDescription("Column", i, name, a.desc),
		cache:  make(map[int]*ValueAssert),
	}
	a.columns[i] = c
	return c
}
