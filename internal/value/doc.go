// Package value defines the value model used by every comparison in dbcheck.
//
// It provides three immutable temporal kinds and a closed classification of
// raw values read from a data source.
//
// # Temporal Values
//
//   - Date: year, month, day. Textual form YYYY-MM-DD.
//   - Time: hour, minutes, seconds, nanoseconds. Textual form HH:MM[:SS[.fffffffff]],
//     canonical form always HH:MM:SS.nnnnnnnnn.
//   - DateTime: one Date and one Time. Textual form YYYY-MM-DDTHH:MM[:SS[.fffffffff]].
//
// All three are plain comparable structs. Equality is structural and the
// canonical String() output round-trips through the matching Parse function.
// Components passed to the *Of constructors are not range checked: a month of
// 13 produces the canonical string "2007-13-01" rather than an error.
//
// # Classification
//
// Classify maps any raw value to exactly one Tag:
//
//	BOOLEAN, TEXT, NUMBER, DATE, TIME, DATE_TIME, BYTES, NOT_IDENTIFIED
//
// NOT_IDENTIFIED covers nil and every shape that is not recognised. Classify
// never panics.
//
// # Numbers
//
// Numeric values of any width are normalised to *apd.Decimal by ToDecimal so
// that "007", 7 and 7.0 compare as equal.
package value
