package report

import (
	"errors"
	"fmt"

	"github.com/roach88/dbcheck/internal/value"
)

// Kind categorizes a failure.
type Kind string

const (
	KindTypeMismatch     Kind = "type_mismatch"
	KindValueMismatch    Kind = "value_mismatch"
	KindNotEqualMismatch Kind = "not_equal_mismatch"
	KindSizeMismatch     Kind = "size_mismatch"
	KindClassMismatch    Kind = "class_mismatch"
	KindNotNull          Kind = "not_null"
	KindNullExpected     Kind = "null_expected"
	KindOrderMismatch    Kind = "order_mismatch"

	KindChangeTypeMismatch      Kind = "change_type_mismatch"
	KindModifiedColumnsMismatch Kind = "modified_columns_mismatch"
	KindModification            Kind = "modification"
	KindExistence               Kind = "existence"

	// The kinds below are not assertion failures: the check itself could
	// not be evaluated.
	KindParseError   Kind = "parse_error"
	KindNullValue    Kind = "null_value"
	KindIncomparable Kind = "incomparable"
	KindUsage        Kind = "usage"
)

// SizeUnit names what a size mismatch counted.
type SizeUnit string

const (
	UnitRows    SizeUnit = "number of rows"
	UnitColumns SizeUnit = "number of columns"
	UnitChanges SizeUnit = "number of changes"

	UnitModifiedColumns SizeUnit = "number of modified columns"
)

type positionKind int

const (
	posNone positionKind = iota
	posIndex
	posStart
	posEnd
)

// Position locates the offending value inside a compared sequence.
// The zero Position means the failure concerns a single value.
type Position struct {
	kind  positionKind
	index int
}

// Index is the position of the i-th value (0-based) of a sequence.
func Index(i int) Position { return Position{kind: posIndex, index: i} }

var (
	StartPoint = Position{kind: posStart}
	EndPoint   = Position{kind: posEnd}
)

// IsSet reports whether p names a position.
func (p Position) IsSet() bool { return p.kind != posNone }

func (p Position) String() string {
	switch p.kind {
	case posIndex:
		return fmt.Sprintf("index %d", p.index)
	case posStart:
		return "start point"
	case posEnd:
		return "end point"
	default:
		return ""
	}
}

// Failure is the structured payload of every dbcheck failure.
type Failure struct {
	Description string
	Kind        Kind
	Position    Position

	Actual   any
	Expected any
	// ActualAsText renders Actual as quoted text. Set when the expected
	// value was free-form text and the actual was parsed against it.
	ActualAsText bool

	Accepted  []value.Tag // type mismatch
	ActualTag value.Tag   // type mismatch

	ExpectedClass string // class mismatch
	ActualClass   string

	Unit         SizeUnit // size mismatch
	ExpectedSize int
	ActualSize   int

	Relation string // order mismatch: "before", "after or equal to", ...

	// Change assertions. Start and End are the values of a column at the
	// start and end point; Negated inverts modification and existence checks.
	ExpectedChange string
	ActualChange   string
	Start, End     any
	Negated        bool

	// Message is the text of non-assertion failures.
	Message string
	Err     error
}

func (f *Failure) Error() string { return Render(f) }

func (f *Failure) Unwrap() error { return f.Err }

// IsAssertion reports whether f is a genuine assertion failure rather than a
// check that could not be evaluated.
func (f *Failure) IsAssertion() bool {
	switch f.Kind {
	case KindParseError, KindNullValue, KindIncomparable, KindUsage:
		return false
	}
	return true
}

// WithDescription returns a copy of f carrying desc as its description.
func (f *Failure) WithDescription(desc string) *Failure {
	c := *f
	c.Description = desc
	return &c
}

// WithPosition returns a copy of f located at p.
func (f *Failure) WithPosition(p Position) *Failure {
	c := *f
	c.Position = p
	return &c
}

// TypeMismatch reports an actual value whose tag is not accepted.
func TypeMismatch(pos Position, actual any, actualTag value.Tag, accepted []value.Tag) *Failure {
	return &Failure{Kind: KindTypeMismatch, Position: pos, Actual: actual, ActualTag: actualTag, Accepted: accepted}
}

// ValueMismatch reports comparable values that are not equal.
func ValueMismatch(pos Position, actual, expected any, actualAsText bool) *Failure {
	return &Failure{Kind: KindValueMismatch, Position: pos, Actual: actual, Expected: expected, ActualAsText: actualAsText}
}

// NotEqualMismatch reports values that are equal when they should not be.
func NotEqualMismatch(pos Position, actual, expected any, actualAsText bool) *Failure {
	return &Failure{Kind: KindNotEqualMismatch, Position: pos, Actual: actual, Expected: expected, ActualAsText: actualAsText}
}

// OrderMismatch reports a value that is not in the expected relation to
// another, e.g. not before it.
func OrderMismatch(actual, expected any, relation string, actualAsText bool) *Failure {
	return &Failure{Kind: KindOrderMismatch, Actual: actual, Expected: expected, Relation: relation, ActualAsText: actualAsText}
}

// ChangeTypeMismatch reports a change of another type than expected.
func ChangeTypeMismatch(expected, actual string) *Failure {
	return &Failure{Kind: KindChangeTypeMismatch, ExpectedChange: expected, ActualChange: actual}
}

// ModifiedColumnsMismatch reports a change whose modified columns differ
// from the expected names.
func ModifiedColumnsMismatch(expected, actual []string) *Failure {
	return &Failure{Kind: KindModifiedColumnsMismatch, Expected: expected, Actual: actual}
}

// ModificationMismatch reports a column of a change that is modified when it
// should not be, or the reverse. notModified selects the second form.
func ModificationMismatch(start, end any, notModified bool) *Failure {
	return &Failure{Kind: KindModification, Start: start, End: end, Negated: notModified}
}

// ExistenceMismatch reports a row that exists when it should not, or the
// reverse. notExists selects the second form.
func ExistenceMismatch(notExists bool) *Failure {
	return &Failure{Kind: KindExistence, Negated: notExists}
}

// SizeMismatch reports sequences of different lengths.
func SizeMismatch(unit SizeUnit, expected, actual int) *Failure {
	return &Failure{Kind: KindSizeMismatch, Unit: unit, ExpectedSize: expected, ActualSize: actual}
}

// ClassMismatch reports a value whose Go type is not the expected one.
func ClassMismatch(actual any, expectedClass, actualClass string) *Failure {
	return &Failure{Kind: KindClassMismatch, Actual: actual, ExpectedClass: expectedClass, ActualClass: actualClass}
}

// NotNull reports a nil actual where a value was required.
func NotNull() *Failure {
	return &Failure{Kind: KindNotNull}
}

// NullExpected reports a value that should have been nil.
func NullExpected(actual any) *Failure {
	return &Failure{Kind: KindNullExpected, Actual: actual}
}

// Incomparable reports a comparison that is ill-posed, such as text that
// parses into no shape compatible with the actual value.
func Incomparable(format string, args ...any) *Failure {
	return &Failure{Kind: KindIncomparable, Message: fmt.Sprintf(format, args...)}
}

// Usage reports a check that was called with invalid arguments.
func Usage(format string, args ...any) *Failure {
	return &Failure{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

// FromError converts err into a *Failure. Value package errors keep their
// kind; any other error becomes a usage failure wrapping it.
func FromError(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	var pe *value.ParseError
	if errors.As(err, &pe) {
		return &Failure{Kind: KindParseError, Message: pe.Error(), Err: err}
	}
	var ne *value.NullValueError
	if errors.As(err, &ne) {
		return &Failure{Kind: KindNullValue, Message: ne.Error(), Err: err}
	}
	return &Failure{Kind: KindUsage, Message: err.Error(), Err: err}
}

// IsKind reports whether err is or wraps a *Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}

// IsAssertion reports whether err is or wraps an assertion *Failure.
func IsAssertion(err error) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.IsAssertion()
	}
	return false
}
