package dbassert

import (
	"github.com/roach88/dbcheck/internal/compare"
	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/value"
)

// ColumnAssert checks the values of a column of a table, one per row.
type ColumnAssert struct {
	table  *TableAssert
	name   string
	values []any
	desc   string
	err    error

	cache     map[int]*ValueAssert
	nextValue int
}

// As replaces the description of the column.
func (c *ColumnAssert) As(desc string) *ColumnAssert {
	c.desc = desc
	return c
}

// Description returns the description used in failures.
func (c *ColumnAssert) Description() string { return c.desc }

// Name returns the column name.
func (c *ColumnAssert) Name() string { return c.name }

// ReturnToTable goes back to the table the column was navigated from.
func (c *ColumnAssert) ReturnToTable() *TableAssert { return c.table }

// HasRowsSize fails unless the column has n values.
func (c *ColumnAssert) HasRowsSize(n int) error {
	if c.err != nil {
		return c.err
	}
	if len(c.values) != n {
		return check(c.desc, report.SizeMismatch(report.UnitRows, n, len(c.values)))
	}
	return nil
}

// HasValuesEqualTo compares the values of the column with expected, in row
// order.
func (c *ColumnAssert) HasValuesEqualTo(expected ...any) error {
	if c.err != nil {
		return c.err
	}
	return check(c.desc, compare.ValuesEqual(c.values, expected))
}

// IsOfType fails unless every value of the column has tag. With
// lenientForNull, null values are accepted too.
func (c *ColumnAssert) IsOfType(tag value.Tag, lenientForNull bool) error {
	if c.err != nil {
		return c.err
	}
	return check(c.desc, compare.ValuesAreOfType(c.values, tag, lenientForNull))
}

// Value navigates to the value after the last one navigated to.
func (c *ColumnAssert) Value() *ValueAssert {
	return c.ValueAt(c.nextValue)
}

// ValueAt navigates to the value of the i-th row.
func (c *ColumnAssert) ValueAt(i int) *ValueAssert {
	if c.err != nil {
		return &ValueAssert{column: c, err: c.err}
	}
	c.nextValue = i + 1
	if v, ok := c.cache[i]; ok {
		return v
	}
	if i < 0 || i >= len(c.values) {
		return &ValueAssert{column: c, err: report.Usage("Index %d out of the limits [0, %d[", i, len(c.values))}
	}
	v := &ValueAssert{
		column: c,
		value:  c.values[i],
		desc:   indexDescription("Value", i, c.desc),
	}
	c.cache[i] = v
	return v
}
