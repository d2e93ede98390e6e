package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/dbcheck/internal/dbassert"
	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

// describer is a navigation handle whose description can be replaced.
type describer[T any] interface {
	As(desc string) T
}

// as applies the description of c to h when c sets one.
func as[T describer[T]](h T, c Check) T {
	if c.As != "" {
		return h.As(c.As)
	}
	return h
}

// evaluate runs one check. A nil error means the check passed.
func (h *Harness) evaluate(ctx context.Context, c Check) error {
	if c.IsChange() {
		return h.evaluateChange(ctx, c)
	}

	t, err := h.subject(ctx, c)
	if err != nil {
		return err
	}
	ta := dbassert.AssertThat(t)

	switch c.Type {
	case CheckRowsSize:
		if c.Column != "" {
			return as(ta.ColumnNamed(c.Column), c).HasRowsSize(*c.Count)
		}
		return as(ta, c).HasRowsSize(*c.Count)
	case CheckColumnsSize:
		if c.Row != nil {
			return as(ta.RowAt(*c.Row), c).HasColumnsSize(*c.Count)
		}
		return as(ta, c).HasColumnsSize(*c.Count)
	case CheckColumnValues:
		return as(ta.ColumnNamed(c.Column), c).HasValuesEqualTo(c.Values...)
	case CheckRowValues:
		return as(ta.RowAt(*c.Row), c).HasValuesEqualTo(c.Values...)
	case CheckValueEqual:
		return as(valueOf(ta, c), c).IsEqualTo(c.Value)
	case CheckValueNotEqual:
		return as(valueOf(ta, c), c).IsNotEqualTo(c.Value)
	case CheckValueNull:
		return as(valueOf(ta, c), c).IsNull()
	case CheckValueNotNull:
		return as(valueOf(ta, c), c).IsNotNull()
	case CheckValueOfType:
		tag, err := value.ParseTag(c.Tag)
		if err != nil {
			return err
		}
		if c.Row == nil {
			return as(ta.ColumnNamed(c.Column), c).IsOfType(tag, c.Lenient)
		}
		return as(valueOf(ta, c), c).IsOfType(tag)
	}
	return fmt.Errorf("unknown check type %q", c.Type)
}

func (h *Harness) evaluateChange(ctx context.Context, c Check) error {
	changes, err := h.changesOf(ctx, c.Table)
	if err != nil {
		return err
	}
	ca := dbassert.AssertThatChanges(changes).As("Changes on " + c.Table + " table")

	switch c.Type {
	case CheckChangeCount:
		return as(ca, c).HasNumberOfChanges(*c.Count)
	case CheckChangeType:
		ct, err := dbassert.ParseChangeType(c.ChangeType)
		if err != nil {
			return err
		}
		return as(ca.ChangeAt(*c.Change), c).IsOfType(ct)
	case CheckChangeModifiedColumns:
		return as(ca.ChangeAt(*c.Change), c).HasModifiedColumns(c.Columns...)
	case CheckChangeValues:
		return as(ca.ChangeAt(*c.Change).ColumnNamed(c.Column), c).HasValues(c.Start, c.End)
	}
	return fmt.Errorf("unknown check type %q", c.Type)
}

// subject returns the table a check reads: the result of its query, or
// the end point of its table.
func (h *Harness) subject(ctx context.Context, c Check) (*table.Table, error) {
	if c.Query != "" {
		return h.store.Query(ctx, c.Table, c.Query)
	}
	return h.endPoint(ctx, c.Table)
}

func valueOf(ta *dbassert.TableAssert, c Check) *dbassert.ValueAssert {
	return ta.RowAt(*c.Row).ValueNamed(c.Column)
}

// fmtError formats a failed check as a single line. Multi-line messages
// are indented under the header.
func fmtError(index int, checkType, message string) string {
	return fmt.Sprintf("checks[%d] %s: %s", index, checkType, strings.ReplaceAll(message, "\n", "\n  "))
}
