// Package harness runs declarative database check scenarios.
//
// A scenario prepares a sqlite database, records the start point of the
// tables its change checks read, applies changes and evaluates checks
// through the dbassert navigation layer.
//
// # Scenario Format
//
// Scenarios are YAML files (or CUE files with the same fields):
//
//	name: movie_rating
//	description: "Rating a movie modifies one row"
//	run_id: run-0001
//	setup: |
//	  CREATE TABLE movie (id INTEGER PRIMARY KEY, title TEXT, rating REAL);
//	  INSERT INTO movie VALUES (1, 'Alien', NULL);
//	changes: |
//	  UPDATE movie SET rating = 8.5 WHERE id = 1;
//	checks:
//	  - type: rows_size
//	    table: movie
//	    count: 1
//	  - type: value_equal
//	    table: movie
//	    row: 0
//	    column: rating
//	    value: 8.5
//	  - type: change_values
//	    table: movie
//	    change: 0
//	    column: rating
//	    start: null
//	    end: 8.5
//
// # Check Types
//
//   - rows_size, columns_size: size of a table, a column or a row
//   - column_values, row_values: every value of a column or a row
//   - value_equal, value_not_equal, value_null, value_not_null: one value
//   - value_of_type: type of one value, or of a whole column
//   - change_count, change_type, change_modified_columns, change_values:
//     changes between the start point and the end point of a table
//
// Expected values are compared with the coercion rules of package compare,
// so a date can be written as "2007-12-23" and a number as 8.5 or "8.50".
//
// # Deterministic Results
//
// A failing check is recorded with its rendered diagnostic and does not stop
// the run. Results serialize to canonical JSON, so a scenario with a fixed
// run id produces byte-identical results across runs, suitable for golden
// file comparison.
package harness
