package value

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// ParseNumber parses a decimal literal such as "8", "007", "-6.60" or "1e3".
func ParseNumber(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number: %w", s, err)
	}
	return d, nil
}

// ToDecimal converts any value classified as TagNumber to a decimal. The
// second result is false when v is not a number.
func ToDecimal(v any) (*apd.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case *apd.Decimal:
		if x == nil {
			return nil, false
		}
		return new(apd.Decimal).Set(x), true
	case apd.Decimal:
		return new(apd.Decimal).Set(&x), true
	case json.Number:
		d, err := ParseNumber(string(x))
		return d, err == nil
	case *big.Int:
		if x == nil {
			return nil, false
		}
		d, err := ParseNumber(x.String())
		return d, err == nil
	case *big.Float:
		if x == nil || x.IsInf() {
			return nil, false
		}
		d, err := ParseNumber(x.Text('g', -1))
		return d, err == nil
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return nil, false
		}
		return ToDecimal(dv)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		return ToDecimal(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return apd.New(rv.Int(), 0), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		d, err := ParseNumber(strconv.FormatUint(rv.Uint(), 10))
		return d, err == nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		// Format at the value's own precision so float32(6.6) reads back as 6.6.
		d, err := ParseNumber(strconv.FormatFloat(f, 'g', -1, rv.Type().Bits()))
		return d, err == nil
	}
	return nil, false
}
