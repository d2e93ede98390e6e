package value

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/iancoleman/strcase"
)

// Tag is the closed classification of a raw value.
type Tag int

const (
	TagBoolean Tag = iota
	TagText
	TagNumber
	TagDate
	TagTime
	TagDateTime
	TagBytes
	TagNotIdentified
)

var tagNames = [...]string{
	TagBoolean:       "BOOLEAN",
	TagText:          "TEXT",
	TagNumber:        "NUMBER",
	TagDate:          "DATE",
	TagTime:          "TIME",
	TagDateTime:      "DATE_TIME",
	TagBytes:         "BYTES",
	TagNotIdentified: "NOT_IDENTIFIED",
}

// Tags lists every tag in declaration order.
var Tags = []Tag{TagBoolean, TagText, TagNumber, TagDate, TagTime, TagDateTime, TagBytes, TagNotIdentified}

// String returns the uppercase tag name, e.g. "DATE_TIME".
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// ParseTag resolves a tag name written in any case convention:
// "DATE_TIME", "date_time", "dateTime" and "DateTime" all name TagDateTime.
func ParseTag(s string) (Tag, error) {
	name := strcase.ToScreamingSnake(s)
	for i, n := range tagNames {
		if n == name {
			return Tag(i), nil
		}
	}
	return TagNotIdentified, fmt.Errorf("unknown value type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(b []byte) error {
	parsed, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Classify returns the tag of v. It never panics: nil, nil pointers and
// unrecognised shapes are TagNotIdentified.
//
// driver.Valuer implementations such as sql.NullString are classified by the
// value they report, so an invalid NullString is TagNotIdentified.
func Classify(v any) (tag Tag) {
	defer func() {
		// A user supplied Valuer may panic on a nil receiver.
		if recover() != nil {
			tag = TagNotIdentified
		}
	}()

	if tag, ok := classifyKnown(v); ok {
		return tag
	}
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return TagNotIdentified
		}
		if tag, ok := classifyKnown(dv); ok {
			return tag
		}
		return classifyKind(reflect.ValueOf(dv))
	}
	return classifyKind(reflect.ValueOf(v))
}

// classifyKnown handles the concrete types whose tag does not follow from
// their reflect.Kind.
func classifyKnown(v any) (Tag, bool) {
	switch x := v.(type) {
	case nil:
		return TagNotIdentified, true
	case json.Number:
		return TagNumber, true
	case []byte:
		return TagBytes, true
	case Date, *Date:
		return nonNil(x, TagDate), true
	case Time, *Time:
		return nonNil(x, TagTime), true
	case DateTime, *DateTime, time.Time, *time.Time:
		return nonNil(x, TagDateTime), true
	case apd.Decimal, *apd.Decimal, *big.Int, *big.Float:
		return nonNil(x, TagNumber), true
	}
	return 0, false
}

func nonNil(v any, tag Tag) Tag {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return TagNotIdentified
	}
	return tag
}

func classifyKind(rv reflect.Value) Tag {
	switch rv.Kind() {
	case reflect.Invalid:
		return TagNotIdentified
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return TagNotIdentified
		}
		return Classify(rv.Elem().Interface())
	case reflect.Bool:
		return TagBoolean
	case reflect.String:
		return TagText
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TagNumber
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return TagNotIdentified
		}
		return TagNumber
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return TagBytes
		}
	}
	return TagNotIdentified
}
