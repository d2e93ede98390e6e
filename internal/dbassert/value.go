package dbassert

import (
	"reflect"

	"github.com/roach88/dbcheck/internal/compare"
	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/value"
)

// ValueAssert checks a single value.
type ValueAssert struct {
	row          *RowAssert
	column       *ColumnAssert
	changeColumn *ChangeColumnAssert

	value any
	desc  string
	err   error
}

// AssertThatValue checks a value that was not navigated to.
func AssertThatValue(v any) *ValueAssert {
	return &ValueAssert{value: v}
}

// As replaces the description of the value.
func (v *ValueAssert) As(desc string) *ValueAssert {
	v.desc = desc
	return v
}

// Description returns the description used in failures.
func (v *ValueAssert) Description() string { return v.desc }

// Get returns the value.
func (v *ValueAssert) Get() any { return v.value }

// ReturnToRow goes back to the row the value was navigated from, if any.
func (v *ValueAssert) ReturnToRow() *RowAssert { return v.row }

// ReturnToColumn goes back to the column the value was navigated from, if any.
func (v *ValueAssert) ReturnToColumn() *ColumnAssert { return v.column }

// ReturnToChangeColumn goes back to the column of a change the value was
// navigated from, if any.
func (v *ValueAssert) ReturnToChangeColumn() *ChangeColumnAssert { return v.changeColumn }

func (v *ValueAssert) run(fn func() error) error {
	if v.err != nil {
		return v.err
	}
	return check(v.desc, fn())
}

// IsEqualTo fails unless the value equals expected.
func (v *ValueAssert) IsEqualTo(expected any) error {
	return v.run(func() error { return compare.ValueEquals(v.value, expected) })
}

// IsNotEqualTo fails if the value equals expected.
func (v *ValueAssert) IsNotEqualTo(expected any) error {
	return v.run(func() error { return compare.ValueNotEquals(v.value, expected) })
}

// IsZero fails unless the value is a number equal to zero.
func (v *ValueAssert) IsZero() error {
	return v.run(func() error { return compare.IsZero(v.value) })
}

// IsTrue fails unless the value is the boolean true.
func (v *ValueAssert) IsTrue() error {
	return v.isBoolean(true)
}

// IsFalse fails unless the value is the boolean false.
func (v *ValueAssert) IsFalse() error {
	return v.isBoolean(false)
}

func (v *ValueAssert) isBoolean(want bool) error {
	return v.run(func() error {
		if tag := value.Classify(v.value); tag != value.TagBoolean {
			return report.TypeMismatch(report.Position{}, v.value, tag, []value.Tag{value.TagBoolean})
		}
		return compare.ValueEquals(v.value, want)
	})
}

// IsNull fails unless the value is null.
func (v *ValueAssert) IsNull() error {
	return v.run(func() error {
		if !value.IsNull(v.value) {
			return report.NullExpected(v.value)
		}
		return nil
	})
}

// IsNotNull fails if the value is null.
func (v *ValueAssert) IsNotNull() error {
	return v.run(func() error {
		if value.IsNull(v.value) {
			return report.NotNull()
		}
		return nil
	})
}

// IsOfType fails unless the value has tag. Null values never fail.
func (v *ValueAssert) IsOfType(tag value.Tag) error {
	return v.run(func() error { return compare.ValueIsOfType(v.value, tag) })
}

// IsOfAnyType fails unless the value has one of tags. Null values never fail.
func (v *ValueAssert) IsOfAnyType(tags ...value.Tag) error {
	return v.run(func() error { return compare.ValueIsOfAnyType(v.value, tags...) })
}

// IsOfClass fails unless the value has the Go type class.
func (v *ValueAssert) IsOfClass(class reflect.Type) error {
	return v.run(func() error { return compare.IsOfClass(v.value, class) })
}

// IsBefore fails unless the value sorts strictly before expected.
func (v *ValueAssert) IsBefore(expected any) error {
	return v.run(func() error { return compare.IsBefore(v.value, expected) })
}

// IsBeforeOrEqualTo fails unless the value sorts before or with expected.
func (v *ValueAssert) IsBeforeOrEqualTo(expected any) error {
	return v.run(func() error { return compare.IsBeforeOrEqualTo(v.value, expected) })
}

// IsAfter fails unless the value sorts strictly after expected.
func (v *ValueAssert) IsAfter(expected any) error {
	return v.run(func() error { return compare.IsAfter(v.value, expected) })
}

// IsAfterOrEqualTo fails unless the value sorts after or with expected.
func (v *ValueAssert) IsAfterOrEqualTo(expected any) error {
	return v.run(func() error { return compare.IsAfterOrEqualTo(v.value, expected) })
}
