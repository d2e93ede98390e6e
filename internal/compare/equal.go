package compare

import (
	"bytes"
	"slices"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/value"
)

// Text is expected text compared literally. Unlike a plain string it is
// never parsed into a number or a temporal value.
type Text string

// Accepted actual tags per expected kind.
var (
	acceptDate     = []value.Tag{value.TagDate, value.TagDateTime, value.TagNotIdentified}
	acceptTime     = []value.Tag{value.TagTime, value.TagNotIdentified}
	acceptDateTime = []value.Tag{value.TagDate, value.TagDateTime, value.TagNotIdentified}
	acceptFreeText = []value.Tag{value.TagText, value.TagNumber, value.TagDate, value.TagTime, value.TagDateTime, value.TagNotIdentified}
)

// expectation is an expected value resolved to its comparison shape.
type expectation struct {
	norm     any
	tag      value.Tag
	free     bool // free-form text parsed against the actual
	accepted []value.Tag
}

func resolve(expected any) (expectation, *report.Failure) {
	switch x := expected.(type) {
	case string:
		return expectation{norm: x, tag: value.TagText, free: true, accepted: acceptFreeText}, nil
	case Text:
		return expectation{norm: string(x), tag: value.TagText, accepted: []value.Tag{value.TagText, value.TagNotIdentified}}, nil
	}

	norm, tag := value.Normalize(expected)
	exp := expectation{norm: norm, tag: tag}
	switch tag {
	case value.TagDate:
		exp.accepted = acceptDate
	case value.TagTime:
		exp.accepted = acceptTime
	case value.TagDateTime:
		exp.accepted = acceptDateTime
	case value.TagNumber, value.TagBoolean, value.TagBytes:
		exp.accepted = []value.Tag{tag, value.TagNotIdentified}
	case value.TagText:
		// Named string types and valid sql.NullString read as free-form text.
		exp.free = true
		exp.accepted = acceptFreeText
	default:
		return exp, report.Incomparable("Expected value of type %T is not supported", expected)
	}
	return exp, nil
}

// equal is the single-value decision shared by every entry point. asText
// reports whether the actual must be rendered as text in a diagnostic.
func equal(pos report.Position, actual, expected any) (eq, asText bool, f *report.Failure) {
	if value.IsNull(expected) {
		return value.IsNull(actual), false, nil
	}
	exp, f := resolve(expected)
	if f != nil {
		return false, false, f
	}

	actualNorm, actualTag := value.Normalize(actual)
	if !slices.Contains(exp.accepted, actualTag) {
		return false, false, report.TypeMismatch(pos, actual, actualTag, exp.accepted)
	}
	if actualTag == value.TagNotIdentified {
		return false, exp.free, nil
	}
	if exp.free {
		eq, f := equalFreeText(pos, actualNorm, actualTag, exp.norm.(string))
		return eq, true, f
	}
	return equalTyped(actualNorm, actualTag, exp.norm, exp.tag), false, nil
}

// equalTyped compares normalized values whose tags are already compatible.
func equalTyped(actual any, actualTag value.Tag, expected any, expectedTag value.Tag) bool {
	switch expectedTag {
	case value.TagDate:
		d := expected.(value.Date)
		switch a := actual.(type) {
		case value.Date:
			return a == d
		case value.DateTime:
			return a.Time().IsMidnight() && a.Date() == d
		}
	case value.TagDateTime:
		dt := expected.(value.DateTime)
		switch a := actual.(type) {
		case value.DateTime:
			return a == dt
		case value.Date:
			return value.DateTimeOfDate(a) == dt
		}
	case value.TagTime:
		return actual.(value.Time) == expected.(value.Time)
	case value.TagNumber:
		return actual.(*apd.Decimal).Cmp(expected.(*apd.Decimal)) == 0
	case value.TagBoolean:
		return actual.(bool) == expected.(bool)
	case value.TagBytes:
		return bytes.Equal(actual.([]byte), expected.([]byte))
	case value.TagText:
		return actual.(string) == expected.(string)
	}
	return false
}

// equalFreeText parses s against the shape of the actual value.
func equalFreeText(pos report.Position, actual any, actualTag value.Tag, s string) (bool, *report.Failure) {
	parsed, tag, ok := parseAs(actualTag, s)
	if !ok {
		return false, incomparable(pos, s, actualTag)
	}
	return equalTyped(actual, actualTag, parsed, tag), nil
}

// parseAs parses free-form text into a value comparable with actualTag.
// Dates and date/times accept both a DateTime and a Date literal.
func parseAs(actualTag value.Tag, s string) (any, value.Tag, bool) {
	switch actualTag {
	case value.TagText:
		return s, value.TagText, true
	case value.TagNumber:
		if d, err := value.ParseNumber(s); err == nil {
			return d, value.TagNumber, true
		}
	case value.TagDate, value.TagDateTime:
		if dt, err := value.ParseDateTime(s); err == nil {
			return dt, value.TagDateTime, true
		}
		if d, err := value.ParseDate(s); err == nil {
			return d, value.TagDate, true
		}
	case value.TagTime:
		if t, err := value.ParseTime(s); err == nil {
			return t, value.TagTime, true
		}
	}
	return nil, value.TagNotIdentified, false
}

func incomparable(pos report.Position, s string, actualTag value.Tag) *report.Failure {
	subject := "the value"
	if pos.IsSet() {
		subject += " at " + pos.String()
	}
	return report.Incomparable("Expected <%s> cannot be compared to %s of type %s", strconv.Quote(s), subject, actualTag)
}
