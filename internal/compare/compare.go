package compare

import (
	"reflect"
	"slices"

	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/value"
)

// Equal reports whether actual equals expected. The error is a type
// mismatch or an incomparable failure; it is never a value mismatch.
func Equal(actual, expected any) (bool, error) {
	eq, _, f := equal(report.Position{}, actual, expected)
	if f != nil {
		return false, f
	}
	return eq, nil
}

// ValueEquals fails unless actual equals expected.
func ValueEquals(actual, expected any) error {
	return valueEqualsAt(report.Position{}, actual, expected)
}

// ValueNotEquals fails if actual equals expected. Type mismatches and
// incomparable text fail as they do for ValueEquals.
func ValueNotEquals(actual, expected any) error {
	eq, asText, f := equal(report.Position{}, actual, expected)
	if f != nil {
		return f
	}
	if eq {
		return report.NotEqualMismatch(report.Position{}, actual, expected, asText)
	}
	return nil
}

func valueEqualsAt(pos report.Position, actual, expected any) error {
	eq, asText, f := equal(pos, actual, expected)
	if f != nil {
		return f
	}
	if !eq {
		return report.ValueMismatch(pos, actual, expected, asText)
	}
	return nil
}

// ValuesEqual compares the values of a column with the expected values.
// A length difference fails before any value is compared; otherwise the
// first failing index is reported.
func ValuesEqual(actual, expected []any) error {
	return valuesEqual(report.UnitRows, actual, expected)
}

// RowValuesEqual is ValuesEqual for the values of a row.
func RowValuesEqual(actual, expected []any) error {
	return valuesEqual(report.UnitColumns, actual, expected)
}

func valuesEqual(unit report.SizeUnit, actual, expected []any) error {
	if len(actual) != len(expected) {
		return report.SizeMismatch(unit, len(expected), len(actual))
	}
	for i := range actual {
		if err := valueEqualsAt(report.Index(i), actual[i], expected[i]); err != nil {
			return err
		}
	}
	return nil
}

// StartEndEqual compares the values of a change at its start point and end
// point. The start point is checked first.
func StartEndEqual(atStart, atEnd, expectedStart, expectedEnd any) error {
	if err := valueEqualsAt(report.StartPoint, atStart, expectedStart); err != nil {
		return err
	}
	return valueEqualsAt(report.EndPoint, atEnd, expectedEnd)
}

// ValueIsOfType fails unless actual is classified as tag. NOT_IDENTIFIED
// values never fail.
func ValueIsOfType(actual any, tag value.Tag) error {
	return ValueIsOfAnyType(actual, tag)
}

// ValueIsOfAnyType fails unless actual is classified as one of tags.
// NOT_IDENTIFIED values never fail.
func ValueIsOfAnyType(actual any, tags ...value.Tag) error {
	actualTag := value.Classify(actual)
	if actualTag == value.TagNotIdentified || slices.Contains(tags, actualTag) {
		return nil
	}
	return report.TypeMismatch(report.Position{}, actual, actualTag, tags)
}

// StartEndIsOfType checks the type of both values of a change. With
// lenientForNull a NOT_IDENTIFIED value is accepted at either point.
func StartEndIsOfType(atStart, atEnd any, tag value.Tag, lenientForNull bool) error {
	if err := isOfTypeAt(report.StartPoint, atStart, tag, lenientForNull); err != nil {
		return err
	}
	return isOfTypeAt(report.EndPoint, atEnd, tag, lenientForNull)
}

func isOfTypeAt(pos report.Position, actual any, tag value.Tag, lenientForNull bool) error {
	accepted := []value.Tag{tag}
	if lenientForNull {
		accepted = append(accepted, value.TagNotIdentified)
	}
	actualTag := value.Classify(actual)
	if slices.Contains(accepted, actualTag) {
		return nil
	}
	return report.TypeMismatch(pos, actual, actualTag, accepted)
}

// IsOfClass fails unless actual has the Go type class, or implements it when
// class is an interface type. A nil actual fails with a not-null failure,
// never a class mismatch. A nil class is a usage error.
func IsOfClass(actual any, class reflect.Type) error {
	if class == nil {
		return report.Usage("Class of the value is null")
	}
	if value.IsNull(actual) {
		return report.NotNull()
	}
	actualClass := reflect.TypeOf(actual)
	if actualClass == class || (class.Kind() == reflect.Interface && actualClass.Implements(class)) {
		return nil
	}
	return report.ClassMismatch(actual, class.String(), actualClass.String())
}

// IsZero fails unless actual is a number equal to zero.
func IsZero(actual any) error {
	if err := isOfTypeAt(report.Position{}, actual, value.TagNumber, false); err != nil {
		return err
	}
	return valueEqualsAt(report.Position{}, actual, 0)
}

// ValuesAreOfType checks the type of every value of a column or row and
// reports the first offending index.
func ValuesAreOfType(values []any, tag value.Tag, lenientForNull bool) error {
	for i, v := range values {
		if err := isOfTypeAt(report.Index(i), v, tag, lenientForNull); err != nil {
			return err
		}
	}
	return nil
}

// Same reports whether a and b are the same value: both null, or of the same
// tag and equal. Free text is never parsed, so "8" and 8 are different.
// Values that cannot be classified are the same only when they are ==.
func Same(a, b any) bool {
	aNull, bNull := value.IsNull(a), value.IsNull(b)
	if aNull || bNull {
		return aNull && bNull
	}
	aNorm, aTag := value.Normalize(a)
	bNorm, bTag := value.Normalize(b)
	if aTag != bTag {
		return false
	}
	if aTag == value.TagNotIdentified {
		return reflect.TypeOf(a).Comparable() && reflect.TypeOf(a) == reflect.TypeOf(b) && a == b
	}
	return equalTyped(aNorm, aTag, bNorm, bTag)
}
