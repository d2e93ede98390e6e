package value

import (
	"database/sql"
	"fmt"
	"time"
)

// Accepted Time literal lengths: HH:MM, HH:MM:SS and HH:MM:SS.fffffffff.
const (
	timeShortLen = 5
	timeSecLen   = 8
	timeNanoLen  = 18
)

// Time is a time of day with nanosecond precision and no zone.
type Time struct {
	hour        int
	minutes     int
	seconds     int
	nanoseconds int
}

// Midnight is 00:00:00.000000000.
var Midnight = Time{}

// TimeOf builds a Time from hour and minutes plus optional seconds and
// nanoseconds, in that order. Components are not range checked and any
// component after the nanoseconds is ignored.
func TimeOf(hour, minutes int, secondsAndNanos ...int) Time {
	t := Time{hour: hour, minutes: minutes}
	if len(secondsAndNanos) > 0 {
		t.seconds = secondsAndNanos[0]
	}
	if len(secondsAndNanos) > 1 {
		t.nanoseconds = secondsAndNanos[1]
	}
	return t
}

// TimeFromTime takes the wall clock of t in t's own location.
func TimeFromTime(t time.Time) Time {
	return Time{hour: t.Hour(), minutes: t.Minute(), seconds: t.Second(), nanoseconds: t.Nanosecond()}
}

// TimeFromNullTime is TimeFromTime for a nullable native value.
func TimeFromNullTime(t sql.NullTime) (Time, error) {
	if !t.Valid {
		return Time{}, &NullValueError{Kind: "time"}
	}
	return TimeFromTime(t.Time), nil
}

// ParseTime parses HH:MM, HH:MM:SS or HH:MM:SS.fffffffff.
func ParseTime(s string) (Time, error) {
	if s == "" {
		return Time{}, &ParseError{Kind: "time", Cause: CauseNull}
	}
	switch len(s) {
	case timeShortLen, timeSecLen, timeNanoLen:
	default:
		return Time{}, &ParseError{Kind: "time", Input: s, Cause: CauseLength}
	}
	return parseTimeAt("time", s, 0)
}

// parseTimeAt reads a time literal starting at offset off. The remaining
// length of s must already be one of the accepted lengths.
func parseTimeAt(kind, s string, off int) (Time, error) {
	var t Time
	var err error
	if t.hour, err = field(kind, s, off, off+2); err != nil {
		return Time{}, err
	}
	if err := separator(kind, s, off+2, ':'); err != nil {
		return Time{}, err
	}
	if t.minutes, err = field(kind, s, off+3, off+5); err != nil {
		return Time{}, err
	}
	rest := len(s) - off
	if rest >= timeSecLen {
		if err := separator(kind, s, off+5, ':'); err != nil {
			return Time{}, err
		}
		if t.seconds, err = field(kind, s, off+6, off+8); err != nil {
			return Time{}, err
		}
	}
	if rest == timeNanoLen {
		if err := separator(kind, s, off+8, '.'); err != nil {
			return Time{}, err
		}
		if t.nanoseconds, err = field(kind, s, off+9, off+18); err != nil {
			return Time{}, err
		}
	}
	return t, nil
}

func (t Time) Hour() int        { return t.hour }
func (t Time) Minutes() int     { return t.minutes }
func (t Time) Seconds() int     { return t.seconds }
func (t Time) Nanoseconds() int { return t.nanoseconds }

// IsMidnight reports whether every component is zero.
func (t Time) IsMidnight() bool {
	return t == Midnight
}

// String returns the canonical HH:MM:SS.nnnnnnnnn form.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%09d", t.hour, t.minutes, t.seconds, t.nanoseconds)
}

// Equal reports structural equality. Values of any other type are not equal.
func (t Time) Equal(other any) bool {
	switch o := other.(type) {
	case Time:
		return t == o
	case *Time:
		return o != nil && t == *o
	default:
		return false
	}
}

// Compare orders lexicographically by hour, minutes, seconds, nanoseconds.
func (t Time) Compare(o Time) int {
	if c := compareInts(t.hour, o.hour); c != 0 {
		return c
	}
	if c := compareInts(t.minutes, o.minutes); c != 0 {
		return c
	}
	if c := compareInts(t.seconds, o.seconds); c != 0 {
		return c
	}
	return compareInts(t.nanoseconds, o.nanoseconds)
}

func (t Time) IsBefore(o Time) bool { return t.Compare(o) < 0 }
func (t Time) IsAfter(o Time) bool  { return t.Compare(o) > 0 }

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := ParseTime(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
