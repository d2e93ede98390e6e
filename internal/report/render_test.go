package report

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbcheck/internal/value"
)

var dateAccepted = []value.Tag{value.TagDate, value.TagDateTime, value.TagNotIdentified}

func TestRender_ValueMismatchAtIndex(t *testing.T) {
	f := ValueMismatch(Index(1), value.DateOf(2002, 7, 25), value.DateOf(2002, 7, 26), false).WithDescription("description")

	assert.Equal(t, "[description] \nExpecting that the value at index 1:\n  <2002-07-25>\nto be equal to: \n  <2002-07-26>", f.Error())
}

func TestRender_DateTimeAgainstDate(t *testing.T) {
	actual := value.DateTimeOf(value.DateOf(2002, 7, 25), value.TimeOf(0, 0, 5))
	f := ValueMismatch(Index(1), actual, value.DateOf(2002, 7, 25), false).WithDescription("description")

	assert.Equal(t, "[description] \nExpecting that the value at index 1:\n  <2002-07-25T00:00:05.000000000>\nto be equal to: \n  <2002-07-25>", f.Error())
}

func TestRender_TypeMismatchAtIndex(t *testing.T) {
	f := TypeMismatch(Index(0), false, value.TagBoolean, dateAccepted).WithDescription("description")

	assert.Equal(t, "[description] \nExpecting that the value at index 0:\n  <false>\nto be of type\n  <[DATE, DATE_TIME, NOT_IDENTIFIED]>\nbut was of type\n  <BOOLEAN>", f.Error())
}

func TestRender_SizeMismatch(t *testing.T) {
	f := SizeMismatch(UnitRows, 3, 2).WithDescription("description")

	assert.Equal(t, "[description] \nExpecting size (number of rows) to be equal to :\n   <3>\nbut was:\n   <2>", f.Error())
}

func TestRender_StartAndEndPoints(t *testing.T) {
	typeErr := TypeMismatch(StartPoint, "test", value.TagText, []value.Tag{value.TagBytes}).WithDescription("description")
	assert.Equal(t, "[description] \nExpecting that the value at start point:\n  <\"test\">\nto be of type\n  <BYTES>\nbut was of type\n  <TEXT>", typeErr.Error())

	endErr := typeErr.WithPosition(EndPoint)
	assert.Equal(t, "[description] \nExpecting that the value at end point:\n  <\"test\">\nto be of type\n  <BYTES>\nbut was of type\n  <TEXT>", endErr.Error())

	valueErr := ValueMismatch(StartPoint, "test1", "test2", true).WithDescription("description")
	assert.Equal(t, "[description] \nExpecting that start point:\n  <\"test1\">\nto be equal to: \n  <\"test2\">", valueErr.Error())

	numberErr := ValueMismatch(EndPoint, 8, "9", true).WithDescription("description")
	assert.Equal(t, "[description] \nExpecting that end point:\n  <\"8\">\nto be equal to: \n  <\"9\">", numberErr.Error())
}

func TestRender_SingleValue(t *testing.T) {
	f := ValueMismatch(Position{}, 1, 0, false).WithDescription("Value at index 0 of Row at index 0 of test table")
	assert.Equal(t, "[Value at index 0 of Row at index 0 of test table] \nExpecting:\n  <1>\nto be equal to: \n  <0>", f.Error())

	typeErr := TypeMismatch(Position{}, true, value.TagBoolean, []value.Tag{value.TagNumber}).WithDescription("var2")
	assert.Equal(t, "[var2] \nExpecting:\n  <true>\nto be of type\n  <NUMBER>\nbut was of type\n  <BOOLEAN>", typeErr.Error())
}

func TestRender_WithoutDescription(t *testing.T) {
	f := ValueMismatch(Position{}, "a", "b", false)
	assert.Equal(t, "Expecting:\n  <\"a\">\nto be equal to: \n  <\"b\">", f.Error())
}

func TestRender_ClassAndNull(t *testing.T) {
	class := ClassMismatch(8, "string", "int").WithDescription("description")
	assert.Equal(t, "[description] \nExpecting:\n  <8>\nto be of class\n  <string>\nbut was of class\n  <int>", class.Error())

	assert.Equal(t, "[description] \nExpecting actual not to be null", NotNull().WithDescription("description").Error())
	assert.Equal(t, "Expecting:\n  <2002-07-25>\nto be null", NullExpected(value.DateOf(2002, 7, 25)).Error())
}

func TestRender_NonAssertionIgnoresDescription(t *testing.T) {
	f := Incomparable("Expected <%s> is not comparable to a %s", `"***"`, value.TagNumber).WithDescription("description")

	assert.False(t, f.IsAssertion())
	assert.Equal(t, `Expected <"***"> is not comparable to a NUMBER`, f.Error())
}

func TestLiteral(t *testing.T) {
	native := time.Date(2014, time.May, 24, 9, 46, 30, 0, time.UTC)

	tests := []struct {
		name   string
		input  any
		asText bool
		want   string
	}{
		{"nil", nil, false, "null"},
		{"string", "text", false, `"text"`},
		{"number", 8, false, "8"},
		{"float", 6.6, false, "6.6"},
		{"bool", true, false, "true"},
		{"bytes", []byte{1, 2}, false, "[1 2]"},
		{"date", value.DateOf(2014, 5, 24), false, "2014-05-24"},
		{"time", value.TimeOf(9, 1), false, "09:01:00.000000000"},
		{"native time", native, false, "2014-05-24T09:46:30.000000000"},
		{"time as text", value.TimeOf(9, 1), true, `"09:01:00.000000000"`},
		{"number as text", 8, true, `"8"`},
		{"large float", 1e21, false, "1000000000000000000000"},
		{"small float", float32(0.000015), false, "0.000015"},
		{"nil date", (*value.Date)(nil), false, "null"},
		{"nil decimal", (*apd.Decimal)(nil), false, "null"},
		{"nil native time", (*time.Time)(nil), false, "null"},
		{"nil date as text", (*value.Date)(nil), true, "null"},
		{"null valuer", sql.NullString{}, false, "null"},
		{"null valuer as text", sql.NullInt64{}, true, "null"},
		{"valid valuer", sql.NullString{String: "x", Valid: true}, false, "x"},
		{"nil bytes", []byte(nil), false, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.input, tt.asText))
		})
	}
}

func TestRender_NullActuals(t *testing.T) {
	tests := []struct {
		name   string
		actual any
		want   string
	}{
		{"nil date", (*value.Date)(nil), "Expecting:\n  <null>\nto be equal to: \n  <2007-12-23>"},
		{"nil decimal", (*apd.Decimal)(nil), "Expecting:\n  <null>\nto be equal to: \n  <2007-12-23>"},
		{"nil native time", (*time.Time)(nil), "Expecting:\n  <null>\nto be equal to: \n  <2007-12-23>"},
		{"null valuer", sql.NullTime{}, "Expecting:\n  <null>\nto be equal to: \n  <2007-12-23>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ValueMismatch(Position{}, tt.actual, value.DateOf(2007, 12, 23), false)
			require.NotPanics(t, func() { _ = f.Error() })
			assert.Equal(t, tt.want, f.Error())
		})
	}

	typeErr := TypeMismatch(Index(2), (*value.Time)(nil), value.TagNotIdentified, []value.Tag{value.TagTime})
	assert.Equal(t, "Expecting that the value at index 2:\n  <null>\nto be of type\n  <TIME>\nbut was of type\n  <NOT_IDENTIFIED>", typeErr.Error())
}

func TestFromError(t *testing.T) {
	_, err := value.ParseTime("a9:01")
	f := FromError(err)
	require.NotNil(t, f)
	assert.Equal(t, KindParseError, f.Kind)
	assert.True(t, errors.Is(f, err))
	assert.False(t, IsAssertion(f))

	_, err = value.DateFromNullTime(sql.NullTime{})
	assert.Equal(t, KindNullValue, FromError(err).Kind)

	wrapped := fmt.Errorf("check 3: %w", SizeMismatch(UnitRows, 3, 2))
	assert.True(t, IsKind(wrapped, KindSizeMismatch))
	assert.True(t, IsAssertion(wrapped))
	assert.Equal(t, KindUsage, FromError(errors.New("boom")).Kind)
	assert.Nil(t, FromError(nil))
}

// TestRender_Golden pins the complete text of composite failures.
func TestRender_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	cases := map[string]*Failure{
		"column_type_mismatch": TypeMismatch(Index(2), []byte{0, 1}, value.TagBytes, dateAccepted).
			WithDescription("Column at index 9 (column name : VAR10) of test table"),
		"change_value_mismatch": ValueMismatch(EndPoint, value.TimeOf(9, 1), "09:02", true).
			WithDescription("Column at index 3 (column name : VAR4) of Change at index 0 of Changes on test table"),
	}

	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			g.Assert(t, name, []byte(Render(f)+"\n"))
		})
	}
}
