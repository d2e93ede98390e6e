// Package store reads SQLite tables and query results into table.Table
// values, the data source of dbcheck.
//
// # Value mapping
//
// Values are mapped from the declared type of their column, so that the
// classifier sees the Go type a reader expects:
//
//	DATE                  value.Date
//	DATETIME, TIMESTAMP   value.DateTime
//	TIME                  value.Time when the text parses, text otherwise
//	BOOLEAN, BOOL         bool
//	TEXT-like             string, even when the driver returns bytes
//	BLOB                  []byte
//	INTEGER, REAL         int64, float64 as returned by the driver
//
// NULL is nil whatever the declared type.
//
// # Row order
//
// Tables are read in primary key order, or in rowid order when the table has
// no primary key, so that two reads of the same data are identical.
//
// # Database Configuration
//
//   - WAL mode for file databases
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
