package dbassert

import (
	"fmt"
	"strings"

	"github.com/roach88/dbcheck/internal/compare"
	"github.com/roach88/dbcheck/internal/table"
)

// ChangeType classifies a change between a start point and an end point.
type ChangeType int

const (
	Creation ChangeType = iota
	Modification
	Deletion
)

func (c ChangeType) String() string {
	switch c {
	case Creation:
		return "CREATION"
	case Modification:
		return "MODIFICATION"
	case Deletion:
		return "DELETION"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(c))
	}
}

// ParseChangeType parses a change type name, ignoring case.
func ParseChangeType(s string) (ChangeType, error) {
	for _, c := range []ChangeType{Creation, Modification, Deletion} {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown change type %q", s)
}

// Change is a row created, modified or deleted between two points.
// Start is nil for a creation and End is nil for a deletion.
type Change struct {
	Table      string
	Type       ChangeType
	Columns    []string
	PrimaryKey []string
	Start      []any
	End        []any
}

// ModifiedColumns returns the indexes of the columns whose value differs
// between the start and the end point. Every column of a creation or a
// deletion is modified.
func (c Change) ModifiedColumns() []int {
	var idx []int
	for i := range c.Columns {
		if c.Start == nil || c.End == nil || !compare.Same(c.Start[i], c.End[i]) {
			idx = append(idx, i)
		}
	}
	return idx
}

// ModifiedColumnNames returns the names of the modified columns.
func (c Change) ModifiedColumnNames() []string {
	idx := c.ModifiedColumns()
	names := make([]string, len(idx))
	for i, col := range idx {
		names[i] = c.Columns[col]
	}
	return names
}

// ComputeChanges compares two points of the same table. Rows are matched by
// primary key when one is declared at either point, and by equality of
// every value otherwise; without a primary key no modification can be
// detected, only creations and deletions.
//
// Changes are ordered by type (creations, modifications, deletions), then
// by row order at the end point, or at the start point for deletions.
func ComputeChanges(start, end *table.Table) ([]Change, error) {
	if start == nil || end == nil {
		return nil, fmt.Errorf("start and end point must be not null")
	}
	if !sameColumns(start.Columns, end.Columns) {
		return nil, fmt.Errorf("columns of %s differ between start point %v and end point %v", end.Name, start.Columns, end.Columns)
	}

	pk := end.PrimaryKey
	if len(pk) == 0 {
		pk = start.PrimaryKey
	}
	keyed := &table.Table{Name: end.Name, Columns: end.Columns, PrimaryKey: pk}
	keyIdx, err := keyed.PrimaryKeyIndexes()
	if err != nil {
		return nil, err
	}

	match := func(a, b []any) bool {
		if len(keyIdx) == 0 {
			return sameRow(a, b)
		}
		for _, i := range keyIdx {
			if !compare.Same(a[i], b[i]) {
				return false
			}
		}
		return true
	}

	newChange := func(t ChangeType, s, e []any) Change {
		return Change{Table: end.Name, Type: t, Columns: end.Columns, PrimaryKey: pk, Start: s, End: e}
	}

	var creations, modifications, deletions []Change
	matched := make([]bool, len(start.Rows))
	for _, e := range end.Rows {
		found := -1
		for s, row := range start.Rows {
			if !matched[s] && match(row, e) {
				found = s
				break
			}
		}
		if found < 0 {
			creations = append(creations, newChange(Creation, nil, e))
			continue
		}
		matched[found] = true
		if !sameRow(start.Rows[found], e) {
			modifications = append(modifications, newChange(Modification, start.Rows[found], e))
		}
	}
	for s, row := range start.Rows {
		if !matched[s] {
			deletions = append(deletions, newChange(Deletion, row, nil))
		}
	}

	changes := make([]Change, 0, len(creations)+len(modifications)+len(deletions))
	changes = append(changes, creations...)
	changes = append(changes, modifications...)
	return append(changes, deletions...), nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameRow(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !compare.Same(a[i], b[i]) {
			return false
		}
	}
	return true
}
