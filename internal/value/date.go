package value

import (
	"database/sql"
	"fmt"
	"time"
)

const dateLayoutLen = len("2006-01-02")

// Date is a calendar date without time of day or zone.
type Date struct {
	year  int
	month int
	day   int
}

// DateOf builds a Date from its components. Components are not range checked.
func DateOf(year, month, day int) Date {
	return Date{year: year, month: month, day: day}
}

// DateFromTime takes the calendar date of t in t's own location.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: int(m), day: d}
}

// DateFromNullTime is DateFromTime for a nullable native value.
func DateFromNullTime(t sql.NullTime) (Date, error) {
	if !t.Valid {
		return Date{}, &NullValueError{Kind: "date"}
	}
	return DateFromTime(t.Time), nil
}

// ParseDate parses the fixed layout YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, &ParseError{Kind: "date", Cause: CauseNull}
	}
	if len(s) != dateLayoutLen {
		return Date{}, &ParseError{Kind: "date", Input: s, Cause: CauseLength}
	}
	return parseDateAt("date", s)
}

// parseDateAt reads a date from the first 10 bytes of s. kind names the
// literal being parsed so errors from DateTime parsing say "date/time".
func parseDateAt(kind, s string) (Date, error) {
	year, err := field(kind, s, 0, 4)
	if err != nil {
		return Date{}, err
	}
	if err := separator(kind, s, 4, '-'); err != nil {
		return Date{}, err
	}
	month, err := field(kind, s, 5, 7)
	if err != nil {
		return Date{}, err
	}
	if err := separator(kind, s, 7, '-'); err != nil {
		return Date{}, err
	}
	day, err := field(kind, s, 8, 10)
	if err != nil {
		return Date{}, err
	}
	return Date{year: year, month: month, day: day}, nil
}

func (d Date) Year() int  { return d.year }
func (d Date) Month() int { return d.month }
func (d Date) Day() int   { return d.day }

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Equal reports structural equality. Values of any other type are not equal.
func (d Date) Equal(other any) bool {
	switch o := other.(type) {
	case Date:
		return d == o
	case *Date:
		return o != nil && d == *o
	default:
		return false
	}
}

// Compare returns -1, 0 or +1 ordering by year, month then day.
func (d Date) Compare(o Date) int {
	if c := compareInts(d.year, o.year); c != 0 {
		return c
	}
	if c := compareInts(d.month, o.month); c != 0 {
		return c
	}
	return compareInts(d.day, o.day)
}

func (d Date) IsBefore(o Date) bool { return d.Compare(o) < 0 }
func (d Date) IsAfter(o Date) bool  { return d.Compare(o) > 0 }

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
