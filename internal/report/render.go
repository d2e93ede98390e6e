package report

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/dbcheck/internal/value"
)

// Render formats f as diagnostic text. It is a pure function of f.
func Render(f *Failure) string {
	var b strings.Builder
	if f.Description != "" && f.IsAssertion() {
		fmt.Fprintf(&b, "[%s] \n", f.Description)
	}

	switch f.Kind {
	case KindValueMismatch, KindNotEqualMismatch:
		verb := "to be equal to"
		if f.Kind == KindNotEqualMismatch {
			verb = "not to be equal to"
		}
		fmt.Fprintf(&b, "Expecting%s:\n  <%s>\n%s: \n  <%s>",
			valueSubject(f.Position), Literal(f.Actual, f.ActualAsText), verb, Literal(f.Expected, false))
	case KindOrderMismatch:
		fmt.Fprintf(&b, "Expecting:\n  <%s>\nto be %s \n  <%s>",
			Literal(f.Actual, f.ActualAsText), f.Relation, Literal(f.Expected, false))
	case KindTypeMismatch:
		fmt.Fprintf(&b, "Expecting%s:\n  <%s>\nto be of type\n  <%s>\nbut was of type\n  <%s>",
			typeSubject(f.Position), Literal(f.Actual, false), Tags(f.Accepted), f.ActualTag)
	case KindSizeMismatch:
		fmt.Fprintf(&b, "Expecting size (%s) to be equal to :\n   <%d>\nbut was:\n   <%d>",
			f.Unit, f.ExpectedSize, f.ActualSize)
	case KindClassMismatch:
		fmt.Fprintf(&b, "Expecting:\n  <%s>\nto be of class\n  <%s>\nbut was of class\n  <%s>",
			Literal(f.Actual, false), f.ExpectedClass, f.ActualClass)
	case KindChangeTypeMismatch:
		fmt.Fprintf(&b, "Expecting:\nto be of type\n  <%s>\nbut was of type\n  <%s>", f.ExpectedChange, f.ActualChange)
	case KindModifiedColumnsMismatch:
		fmt.Fprintf(&b, "Expecting modified columns:\n  <%s>\nbut was:\n  <%s>", names(f.Expected), names(f.Actual))
	case KindModification:
		verb := "to be modified"
		if f.Negated {
			verb = "not to be modified"
		}
		fmt.Fprintf(&b, "Expecting:\n  <%s> at start point and <%s> at end point\n%s",
			Literal(f.Start, false), Literal(f.End, false), verb)
	case KindExistence:
		if f.Negated {
			b.WriteString("Expecting not exist but exist")
		} else {
			b.WriteString("Expecting exist but do not exist")
		}
	case KindNotNull:
		b.WriteString("Expecting actual not to be null")
	case KindNullExpected:
		fmt.Fprintf(&b, "Expecting:\n  <%s>\nto be null", Literal(f.Actual, false))
	default:
		b.WriteString(f.Message)
	}
	return b.String()
}

// valueSubject words the position of an equality failure:
// "" for a single value, " that the value at index 1", " that start point".
func valueSubject(p Position) string {
	switch p.kind {
	case posIndex:
		return " that the value at " + p.String()
	case posStart, posEnd:
		return " that " + p.String()
	default:
		return ""
	}
}

// typeSubject words the position of a type failure. Unlike equality
// failures, start and end points read "the value at start point".
func typeSubject(p Position) string {
	if !p.IsSet() {
		return ""
	}
	return " that the value at " + p.String()
}

// Tags renders an accepted tag set: a single tag bare, several as [A, B].
func Tags(tags []value.Tag) string {
	if len(tags) == 1 {
		return tags[0].String()
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func names(v any) string {
	ns, _ := v.([]string)
	return "[" + strings.Join(ns, ", ") + "]"
}

// Literal renders v the way it appears between angle brackets. With asText
// the canonical text of v is quoted, as when v was compared to free text.
func Literal(v any, asText bool) string {
	if value.IsNull(v) {
		return "null"
	}
	if asText {
		return strconv.Quote(Text(v))
	}
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return Text(v)
}

// Text returns the canonical text of v: temporal values and native times in
// their canonical layout, numbers in shortest decimal form.
func Text(v any) string {
	// Typed nil pointers satisfy fmt.Stringer but cannot be called.
	if value.IsNull(v) {
		return "null"
	}
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return fmt.Sprint(x)
	case time.Time:
		return value.DateTimeFromTime(x).String()
	case *time.Time:
		return value.DateTimeFromTime(*x).String()
	case fmt.Stringer:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return Text(dv)
	}
	return fmt.Sprintf("%v", v)
}
