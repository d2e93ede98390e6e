// Package dbassert navigates tables and changes down to single values and
// runs the checks of the compare package on them.
//
// Navigation goes from a table to its rows and columns, and from a row or a
// column to its values:
//
//	t := dbassert.AssertThat(movies)
//	err := t.Column().Value().IsEqualTo(1)
//	err = t.RowAt(1).HasValuesEqualTo(2, "The Village", 2004)
//
// Changes between a start point and an end point of a table are computed by
// ComputeChanges and navigated the same way:
//
//	changes, _ := dbassert.ComputeChanges(before, after)
//	err := dbassert.AssertThatChanges(changes).ChangeAt(0).IsModification()
//
// # Errors
//
// Every assertion returns an error, nil when it holds. Failures are
// *report.Failure values carrying the description of the handle they were
// raised on. A navigation error (an index out of range, an unknown column)
// is kept by the handle it produced and returned by that handle's next
// assertion; handles navigated from it inherit it.
//
// # Caching
//
// Handles are cached by position: navigating twice to the same row returns
// the same *RowAssert. Each handle keeps a cursor used by the argument-less
// navigation methods (Row, Column, Value); navigating to an explicit index
// moves the cursor past it, and reusing a cached handle resets the cursor
// of that handle.
package dbassert
