package value

import (
	"errors"
	"fmt"
)

// ParseCause identifies why a textual temporal literal was rejected.
type ParseCause string

const (
	// CauseNull is reported for an empty input, the only way a Go string can be absent.
	CauseNull ParseCause = "null"
	// CauseLength is reported when the input length matches no accepted layout.
	CauseLength ParseCause = "length"
	// CauseCharacter is reported when a digit or separator is missing at Offset.
	CauseCharacter ParseCause = "character"
)

// ParseError reports a malformed Date, Time or DateTime literal.
type ParseError struct {
	Kind   string // "date", "time" or "date/time"
	Input  string
	Cause  ParseCause
	Offset int // only meaningful for CauseCharacter
}

func (e *ParseError) Error() string {
	switch e.Cause {
	case CauseNull:
		return fmt.Sprintf("%s must be not null", e.Kind)
	case CauseLength:
		return fmt.Sprintf("%q is not correct to be a %s (wrong length %d)", e.Input, e.Kind, len(e.Input))
	default:
		return fmt.Sprintf("%q is not correct to be a %s (unexpected character at offset %d)", e.Input, e.Kind, e.Offset)
	}
}

// NullValueError reports a null native value passed to a construction path
// that requires one.
type NullValueError struct {
	Kind string
}

func (e *NullValueError) Error() string {
	return fmt.Sprintf("%s should be not null", e.Kind)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsNullValueError reports whether err is or wraps a *NullValueError.
func IsNullValueError(err error) bool {
	var ne *NullValueError
	return errors.As(err, &ne)
}

// field reads the decimal number held in s[from:to]. Every byte must be a digit.
func field(kind, s string, from, to int) (int, error) {
	n := 0
	for i := from; i < to; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, &ParseError{Kind: kind, Input: s, Cause: CauseCharacter, Offset: i}
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// separator checks that s[at] is sep.
func separator(kind, s string, at int, sep byte) error {
	if s[at] != sep {
		return &ParseError{Kind: kind, Input: s, Cause: CauseCharacter, Offset: at}
	}
	return nil
}
