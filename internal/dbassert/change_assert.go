package dbassert

import (
	"slices"

	"github.com/roach88/dbcheck/internal/compare"
	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

// ChangesAssert is the entry point of the navigation of changes.
type ChangesAssert struct {
	changes []Change
	desc    string

	cache map[int]*ChangeAssert
	next  int
}

// AssertThatChanges starts the navigation of changes. The default
// description names the table when every change is on the same one.
func AssertThatChanges(changes []Change) *ChangesAssert {
	desc := "Changes"
	if len(changes) > 0 {
		name := changes[0].Table
		same := true
		for _, c := range changes[1:] {
			same = same && c.Table == name
		}
		if same && name != "" {
			desc = "Changes on " + name + " table"
		}
	}
	return &ChangesAssert{changes: changes, desc: desc, cache: make(map[int]*ChangeAssert)}
}

// As replaces the description of the changes.
func (a *ChangesAssert) As(desc string) *ChangesAssert {
	a.desc = desc
	return a
}

// Description returns the description used in failures.
func (a *ChangesAssert) Description() string { return a.desc }

// HasNumberOfChanges fails unless there are n changes.
func (a *ChangesAssert) HasNumberOfChanges(n int) error {
	if len(a.changes) != n {
		return check(a.desc, report.SizeMismatch(report.UnitChanges, n, len(a.changes)))
	}
	return nil
}

// Change navigates to the change after the last one navigated to.
func (a *ChangesAssert) Change() *ChangeAssert {
	return a.ChangeAt(a.next)
}

// ChangeAt navigates to the i-th change.
func (a *ChangesAssert) ChangeAt(i int) *ChangeAssert {
	a.next = i + 1
	if c, ok := a.cache[i]; ok {
		c.nextColumn = 0
		return c
	}
	if i < 0 || i >= len(a.changes) {
		return &ChangeAssert{changes: a, err: report.Usage("Index %d out of the limits [0, %d[", i, len(a.changes))}
	}
	c := &ChangeAssert{
		changes: a,
		change:  a.changes[i],
		desc:    indexDescription("Change", i, a.desc),
		columns: make(map[int]*ChangeColumnAssert),
	}
	a.cache[i] = c
	return c
}

// ChangeAssert checks a single change.
type ChangeAssert struct {
	changes *ChangesAssert
	change  Change
	desc    string
	err     error

	columns    map[int]*ChangeColumnAssert
	nextColumn int
	start, end *RowAssert
}

// As replaces the description of the change.
func (c *ChangeAssert) As(desc string) *ChangeAssert {
	c.desc = desc
	return c
}

// Description returns the description used in failures.
func (c *ChangeAssert) Description() string { return c.desc }

// ReturnToChanges goes back to the changes the change was navigated from.
func (c *ChangeAssert) ReturnToChanges() *ChangesAssert { return c.changes }

// IsOfType fails unless the change is of type t.
func (c *ChangeAssert) IsOfType(t ChangeType) error {
	if c.err != nil {
		return c.err
	}
	if c.change.Type != t {
		return check(c.desc, report.ChangeTypeMismatch(t.String(), c.change.Type.String()))
	}
	return nil
}

// IsCreation fails unless the change is a creation.
func (c *ChangeAssert) IsCreation() error { return c.IsOfType(Creation) }

// IsModification fails unless the change is a modification.
func (c *ChangeAssert) IsModification() error { return c.IsOfType(Modification) }

// IsDeletion fails unless the change is a deletion.
func (c *ChangeAssert) IsDeletion() error { return c.IsOfType(Deletion) }

// HasNumberOfModifiedColumns fails unless n columns are modified.
func (c *ChangeAssert) HasNumberOfModifiedColumns(n int) error {
	if c.err != nil {
		return c.err
	}
	if got := len(c.change.ModifiedColumns()); got != n {
		return check(c.desc, report.SizeMismatch(report.UnitModifiedColumns, n, got))
	}
	return nil
}

// HasModifiedColumns fails unless the modified columns are exactly names,
// in any order and ignoring case.
func (c *ChangeAssert) HasModifiedColumns(names ...string) error {
	if c.err != nil {
		return c.err
	}
	want := make([]int, 0, len(names))
	for _, name := range names {
		i, err := table.IndexOf(c.change.Columns, name)
		if err != nil {
			return navigationError(err)
		}
		want = append(want, i)
	}
	slices.Sort(want)
	want = slices.Compact(want)

	got := c.change.ModifiedColumns()
	if !slices.Equal(want, got) {
		wantNames := make([]string, len(want))
		for i, col := range want {
			wantNames[i] = c.change.Columns[col]
		}
		return check(c.desc, report.ModifiedColumnsMismatch(wantNames, c.change.ModifiedColumnNames()))
	}
	return nil
}

// RowAtStartPoint navigates to the row of the change at the start point.
// It does not exist for a creation.
func (c *ChangeAssert) RowAtStartPoint() *RowAssert {
	if c.err != nil {
		return &RowAssert{change: c, err: c.err}
	}
	if c.start == nil {
		c.start = newRow("Row at start point of "+c.desc, c.change.Columns, c.change.Start, c.change.Start != nil)
		c.start.change = c
	}
	c.start.nextValue = 0
	return c.start
}

// RowAtEndPoint navigates to the row of the change at the end point.
// It does not exist for a deletion.
func (c *ChangeAssert) RowAtEndPoint() *RowAssert {
	if c.err != nil {
		return &RowAssert{change: c, err: c.err}
	}
	if c.end == nil {
		c.end = newRow("Row at end point of "+c.desc, c.change.Columns, c.change.End, c.change.End != nil)
		c.end.change = c
	}
	c.end.nextValue = 0
	return c.end
}

// Column navigates to the column after the last one navigated to.
func (c *ChangeAssert) Column() *ChangeColumnAssert {
	return c.ColumnAt(c.nextColumn)
}

// ColumnNamed navigates to the column called name, ignoring case.
func (c *ChangeAssert) ColumnNamed(name string) *ChangeColumnAssert {
	if c.err != nil {
		return &ChangeColumnAssert{change: c, err: c.err}
	}
	i, err := table.IndexOf(c.change.Columns, name)
	if err != nil {
		return &ChangeColumnAssert{change: c, err: navigationError(err)}
	}
	return c.ColumnAt(i)
}

// ColumnAt navigates to the i-th column of the change.
func (c *ChangeAssert) ColumnAt(i int) *ChangeColumnAssert {
	if c.err != nil {
		return &ChangeColumnAssert{change: c, err: c.err}
	}
	c.nextColumn = i + 1
	if col, ok := c.columns[i]; ok {
		return col
	}
	if i < 0 || i >= len(c.change.Columns) {
		return &ChangeColumnAssert{change: c, err: report.Usage("Index %d out of the limits [0, %d[", i, len(c.change.Columns))}
	}
	name := c.change.Columns[i]
	col := &ChangeColumnAssert{
		change: c,
		name:   name,
		desc:   namedDescription("Column", i, name, c.desc),
	}
	if c.change.Start != nil {
		col.start = c.change.Start[i]
	}
	if c.change.End != nil {
		col.end = c.change.End[i]
	}
	c.columns[i] = col
	return col
}

// ChangeColumnAssert checks the values of a column of a change at the start
// point and at the end point. A value is null at a point where the row does
// not exist.
type ChangeColumnAssert struct {
	change     *ChangeAssert
	name       string
	start, end any
	desc       string
	err        error
}

// As replaces the description of the column.
func (c *ChangeColumnAssert) As(desc string) *ChangeColumnAssert {
	c.desc = desc
	return c
}

// Description returns the description used in failures.
func (c *ChangeColumnAssert) Description() string { return c.desc }

// Name returns the column name.
func (c *ChangeColumnAssert) Name() string { return c.name }

// ReturnToChange goes back to the change the column was navigated from.
func (c *ChangeColumnAssert) ReturnToChange() *ChangeAssert { return c.change }

// HasValues fails unless the column has expectedStart at the start point and
// expectedEnd at the end point.
func (c *ChangeColumnAssert) HasValues(expectedStart, expectedEnd any) error {
	if c.err != nil {
		return c.err
	}
	return check(c.desc, compare.StartEndEqual(c.start, c.end, expectedStart, expectedEnd))
}

// IsOfType fails unless the values at both points have tag. With
// lenientForNull, null values are accepted too.
func (c *ChangeColumnAssert) IsOfType(tag value.Tag, lenientForNull bool) error {
	if c.err != nil {
		return c.err
	}
	return check(c.desc, compare.StartEndIsOfType(c.start, c.end, tag, lenientForNull))
}

// IsModified fails unless the values at both points differ.
func (c *ChangeColumnAssert) IsModified() error {
	if c.err != nil {
		return c.err
	}
	if compare.Same(c.start, c.end) {
		return check(c.desc, report.ModificationMismatch(c.start, c.end, false))
	}
	return nil
}

// IsNotModified fails if the values at both points differ.
func (c *ChangeColumnAssert) IsNotModified() error {
	if c.err != nil {
		return c.err
	}
	if !compare.Same(c.start, c.end) {
		return check(c.desc, report.ModificationMismatch(c.start, c.end, true))
	}
	return nil
}

// ValueAtStartPoint navigates to the value of the column at the start point.
func (c *ChangeColumnAssert) ValueAtStartPoint() *ValueAssert {
	return &ValueAssert{changeColumn: c, value: c.start, desc: "Value at start point of " + c.desc, err: c.err}
}

// ValueAtEndPoint navigates to the value of the column at the end point.
func (c *ChangeColumnAssert) ValueAtEndPoint() *ValueAssert {
	return &ValueAssert{changeColumn: c, value: c.end, desc: "Value at end point of " + c.desc, err: c.err}
}
