package value

import (
	"database/sql/driver"
	"math/big"
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Normalize classifies v and converts it to the canonical Go form of its tag:
//
//	BOOLEAN   bool
//	TEXT      string
//	NUMBER    *apd.Decimal
//	DATE      Date
//	TIME      Time
//	DATE_TIME DateTime (time.Time is converted)
//	BYTES     []byte
//
// NOT_IDENTIFIED values are returned unchanged.
func Normalize(v any) (norm any, tag Tag) {
	defer func() {
		if recover() != nil {
			norm, tag = v, TagNotIdentified
		}
	}()

	tag = Classify(v)
	if tag == TagNotIdentified {
		return v, tag
	}
	u := unwrap(v)
	switch tag {
	case TagBoolean:
		return reflect.ValueOf(u).Bool(), tag
	case TagText:
		return reflect.ValueOf(u).String(), tag
	case TagNumber:
		d, ok := ToDecimal(u)
		if !ok {
			return v, TagNotIdentified
		}
		return d, tag
	case TagBytes:
		return reflect.ValueOf(u).Bytes(), tag
	case TagDateTime:
		if t, ok := u.(time.Time); ok {
			return DateTimeFromTime(t), tag
		}
	}
	return u, tag
}

// IsNull reports whether v is absent: nil, a nil pointer, or a driver.Valuer
// reporting a nil value.
func IsNull(v any) (null bool) {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return true
		}
	}
	if valuer, ok := v.(driver.Valuer); ok {
		defer func() {
			if recover() != nil {
				null = false
			}
		}()
		dv, err := valuer.Value()
		return err == nil && dv == nil
	}
	return false
}

// unwrap dereferences pointers and driver.Valuer wrappers until it reaches a
// value whose tag is decided by its own type.
func unwrap(v any) any {
	for {
		switch v.(type) {
		case *apd.Decimal, *big.Int, *big.Float:
			return v
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && !rv.IsNil() {
			v = rv.Elem().Interface()
			continue
		}
		if _, known := classifyKnown(v); known {
			return v
		}
		valuer, ok := v.(driver.Valuer)
		if !ok {
			return v
		}
		dv, err := valuer.Value()
		if err != nil {
			return v
		}
		// Valuers report plain driver values; one step is enough.
		return dv
	}
}
