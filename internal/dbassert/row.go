package dbassert

import (
	"github.com/roach88/dbcheck/internal/compare"
	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/table"
)

// RowAssert checks a row of a table, or the row of a change at its start or
// end point. The row of a change may not exist at that point.
type RowAssert struct {
	table  *TableAssert
	change *ChangeAssert

	columns []string
	values  []any
	exists  bool
	desc    string
	err     error

	cache     map[int]*ValueAssert
	nextValue int
}

func newRow(desc string, columns []string, values []any, exists bool) *RowAssert {
	return &RowAssert{
		columns: columns,
		values:  values,
		exists:  exists,
		desc:    desc,
		cache:   make(map[int]*ValueAssert),
	}
}

// As replaces the description of the row.
func (r *RowAssert) As(desc string) *RowAssert {
	r.desc = desc
	return r
}

// Description returns the description used in failures.
func (r *RowAssert) Description() string { return r.desc }

// Values returns the values of the row, nil when the row does not exist.
func (r *RowAssert) Values() []any { return r.values }

// ReturnToTable goes back to the table the row was navigated from. It is
// nil for the row of a change.
func (r *RowAssert) ReturnToTable() *TableAssert { return r.table }

// ReturnToChange goes back to the change the row was navigated from. It is
// nil for the row of a table.
func (r *RowAssert) ReturnToChange() *ChangeAssert { return r.change }

func (r *RowAssert) usable() error {
	if r.err != nil {
		return r.err
	}
	if !r.exists {
		return check(r.desc, report.ExistenceMismatch(false))
	}
	return nil
}

// Exists fails unless the row exists.
func (r *RowAssert) Exists() error {
	if r.err != nil {
		return r.err
	}
	if !r.exists {
		return check(r.desc, report.ExistenceMismatch(false))
	}
	return nil
}

// DoesNotExist fails if the row exists.
func (r *RowAssert) DoesNotExist() error {
	if r.err != nil {
		return r.err
	}
	if r.exists {
		return check(r.desc, report.ExistenceMismatch(true))
	}
	return nil
}

// HasColumnsSize fails unless the row has n values.
func (r *RowAssert) HasColumnsSize(n int) error {
	if err := r.usable(); err != nil {
		return err
	}
	if len(r.values) != n {
		return check(r.desc, report.SizeMismatch(report.UnitColumns, n, len(r.values)))
	}
	return nil
}

// HasValuesEqualTo compares the values of the row with expected, in column
// order.
func (r *RowAssert) HasValuesEqualTo(expected ...any) error {
	if err := r.usable(); err != nil {
		return err
	}
	return check(r.desc, compare.RowValuesEqual(r.values, expected))
}

// Value navigates to the value after the last one navigated to.
func (r *RowAssert) Value() *ValueAssert {
	return r.ValueAt(r.nextValue)
}

// ValueNamed navigates to the value of the column called name.
func (r *RowAssert) ValueNamed(name string) *ValueAssert {
	if err := r.usable(); err != nil {
		return &ValueAssert{row: r, err: err}
	}
	i, err := table.IndexOf(r.columns, name)
	if err != nil {
		return &ValueAssert{row: r, err: navigationError(err)}
	}
	return r.ValueAt(i)
}

// ValueAt navigates to the value of the i-th column.
func (r *RowAssert) ValueAt(i int) *ValueAssert {
	if err := r.usable(); err != nil {
		return &ValueAssert{row: r, err: err}
	}
	r.nextValue = i + 1
	if v, ok := r.cache[i]; ok {
		return v
	}
	if i < 0 || i >= len(r.values) {
		return &ValueAssert{row: r, err: report.Usage("Index %d out of the limits [0, %d[", i, len(r.values))}
	}
	v := &ValueAssert{
		row:   r,
		value: r.values[i],
		desc:  namedDescription("Value", i, r.columns[i], r.desc),
	}
	r.cache[i] = v
	return v
}
