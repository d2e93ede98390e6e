// Package compare decides whether an actual value read from a data source
// equals an expected value supplied by a caller.
//
// The actual value is classified with value.Classify. The expected value
// decides which actual tags are acceptable:
//
//	expected                    accepted actual tags
//	value.Date                  DATE, DATE_TIME, NOT_IDENTIFIED
//	value.Time                  TIME, NOT_IDENTIFIED
//	value.DateTime, time.Time   DATE, DATE_TIME, NOT_IDENTIFIED
//	number                      NUMBER, NOT_IDENTIFIED
//	bool                        BOOLEAN, NOT_IDENTIFIED
//	[]byte                      BYTES, NOT_IDENTIFIED
//	compare.Text                TEXT, NOT_IDENTIFIED
//	string (free-form text)     TEXT, NUMBER, DATE, TIME, DATE_TIME, NOT_IDENTIFIED
//
// Any other actual tag is a type mismatch. Free-form text is parsed against
// the shape of the actual value; text that parses into no compatible shape
// makes the comparison incomparable, which is reported separately from a
// plain inequality.
//
// A DATE_TIME actual equals a DATE expected only when its time of day is
// midnight. Numbers compare by decimal value, so 7, "007" and 7.0 are equal.
//
// Every function is pure and safe for concurrent use. Failures are returned
// as *report.Failure values.
package compare
