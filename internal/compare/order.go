package compare

import (
	"slices"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/value"
)

var orderable = []value.Tag{value.TagNumber, value.TagDate, value.TagTime, value.TagDateTime}

// Order returns -1, 0 or +1 as actual sorts before, with or after expected.
// Numbers and temporal values can be ordered; a Date orders as midnight of
// that date against a DateTime.
func Order(actual, expected any) (int, error) {
	c, _, f := order(actual, expected)
	if f != nil {
		return 0, f
	}
	return c, nil
}

func order(actual, expected any) (int, bool, *report.Failure) {
	if value.IsNull(actual) {
		return 0, false, report.NotNull()
	}
	if value.IsNull(expected) {
		return 0, false, report.Usage("Expected value to compare to must be not null")
	}
	exp, f := resolve(expected)
	if f != nil {
		return 0, false, f
	}

	actualNorm, actualTag := value.Normalize(actual)
	if !slices.Contains(exp.accepted, actualTag) || !slices.Contains(orderable, actualTag) {
		accepted := make([]value.Tag, 0, len(exp.accepted))
		for _, t := range exp.accepted {
			if slices.Contains(orderable, t) {
				accepted = append(accepted, t)
			}
		}
		return 0, false, report.TypeMismatch(report.Position{}, actual, actualTag, accepted)
	}

	expNorm, expTag := exp.norm, exp.tag
	if exp.free {
		var ok bool
		expNorm, expTag, ok = parseAs(actualTag, expNorm.(string))
		if !ok {
			return 0, true, incomparable(report.Position{}, exp.norm.(string), actualTag)
		}
	}
	return orderTyped(actualNorm, expNorm, expTag), exp.free, nil
}

func orderTyped(actual, expected any, expectedTag value.Tag) int {
	switch expectedTag {
	case value.TagNumber:
		return actual.(*apd.Decimal).Cmp(expected.(*apd.Decimal))
	case value.TagTime:
		return actual.(value.Time).Compare(expected.(value.Time))
	}
	return asDateTime(actual).Compare(asDateTime(expected))
}

func asDateTime(v any) value.DateTime {
	if d, ok := v.(value.Date); ok {
		return value.DateTimeOfDate(d)
	}
	return v.(value.DateTime)
}

// IsBefore fails unless actual sorts strictly before expected.
func IsBefore(actual, expected any) error {
	return checkOrder(actual, expected, "before", func(c int) bool { return c < 0 })
}

// IsBeforeOrEqualTo fails unless actual sorts before or with expected.
func IsBeforeOrEqualTo(actual, expected any) error {
	return checkOrder(actual, expected, "before or equal to", func(c int) bool { return c <= 0 })
}

// IsAfter fails unless actual sorts strictly after expected.
func IsAfter(actual, expected any) error {
	return checkOrder(actual, expected, "after", func(c int) bool { return c > 0 })
}

// IsAfterOrEqualTo fails unless actual sorts after or with expected.
func IsAfterOrEqualTo(actual, expected any) error {
	return checkOrder(actual, expected, "after or equal to", func(c int) bool { return c >= 0 })
}

func checkOrder(actual, expected any, relation string, holds func(int) bool) error {
	c, asText, f := order(actual, expected)
	if f != nil {
		return f
	}
	if !holds(c) {
		return report.OrderMismatch(actual, expected, relation, asText)
	}
	return nil
}
