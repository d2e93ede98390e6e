// Package report turns comparison failures into deterministic diagnostic text.
//
// Every failure produced by dbcheck is a *Failure value carrying the kind of
// failure, the position of the offending value and the values themselves.
// Render formats a Failure without consulting any global state, so identical
// failures always produce byte-identical text:
//
//	[Column at index 0 (column name : VAR9) of test table]
//	Expecting that the value at index 1:
//	  <2002-07-25>
//	to be equal to:
//	  <2002-07-26>
//
// Tests assert on this text directly, usually through golden files.
//
// MarshalCanonical produces RFC 8785 canonical JSON for result snapshots.
package report
