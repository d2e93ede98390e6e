package value

import (
	"database/sql"
	"time"
)

// DateTime combines one Date with one Time.
type DateTime struct {
	date Date
	time Time
}

// DateTimeOf builds a DateTime from a date and a time of day.
func DateTimeOf(d Date, t Time) DateTime {
	return DateTime{date: d, time: t}
}

// DateTimeOfDate builds a DateTime at midnight of d.
func DateTimeOfDate(d Date) DateTime {
	return DateTime{date: d, time: Midnight}
}

// DateTimeFromTime takes the date and wall clock of t in t's own location.
func DateTimeFromTime(t time.Time) DateTime {
	return DateTime{date: DateFromTime(t), time: TimeFromTime(t)}
}

// DateTimeFromNullTime is DateTimeFromTime for a nullable native value.
func DateTimeFromNullTime(t sql.NullTime) (DateTime, error) {
	if !t.Valid {
		return DateTime{}, &NullValueError{Kind: "date/time"}
	}
	return DateTimeFromTime(t.Time), nil
}

// ParseDateTime parses YYYY-MM-DDTHH:MM[:SS[.fffffffff]].
func ParseDateTime(s string) (DateTime, error) {
	const kind = "date/time"
	if s == "" {
		return DateTime{}, &ParseError{Kind: kind, Cause: CauseNull}
	}
	switch len(s) - dateLayoutLen - 1 {
	case timeShortLen, timeSecLen, timeNanoLen:
	default:
		return DateTime{}, &ParseError{Kind: kind, Input: s, Cause: CauseLength}
	}
	d, err := parseDateAt(kind, s)
	if err != nil {
		return DateTime{}, err
	}
	if err := separator(kind, s, dateLayoutLen, 'T'); err != nil {
		return DateTime{}, err
	}
	t, err := parseTimeAt(kind, s, dateLayoutLen+1)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{date: d, time: t}, nil
}

func (dt DateTime) Date() Date { return dt.date }
func (dt DateTime) Time() Time { return dt.time }

// String returns the canonical YYYY-MM-DDTHH:MM:SS.nnnnnnnnn form.
func (dt DateTime) String() string {
	return dt.date.String() + "T" + dt.time.String()
}

// Equal reports structural equality. Values of any other type are not equal.
func (dt DateTime) Equal(other any) bool {
	switch o := other.(type) {
	case DateTime:
		return dt == o
	case *DateTime:
		return o != nil && dt == *o
	default:
		return false
	}
}

// Compare orders by date, then by time.
func (dt DateTime) Compare(o DateTime) int {
	if c := dt.date.Compare(o.date); c != 0 {
		return c
	}
	return dt.time.Compare(o.time)
}

func (dt DateTime) IsBefore(o DateTime) bool { return dt.Compare(o) < 0 }
func (dt DateTime) IsAfter(o DateTime) bool  { return dt.Compare(o) > 0 }

// MarshalText implements encoding.TextMarshaler.
func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (dt *DateTime) UnmarshalText(b []byte) error {
	parsed, err := ParseDateTime(string(b))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
