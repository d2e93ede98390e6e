package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

// Tables returns the names of the user tables, sorted.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return names, nil
}

// PrimaryKey returns the primary key columns of a table in key order. It is
// empty for a table without a declared primary key.
func (s *Store) PrimaryKey(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, pk FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk ASC", name)
	if err != nil {
		return nil, fmt.Errorf("query primary key of %s: %w", name, err)
	}
	defer rows.Close()

	pk := []string{}
	for rows.Next() {
		var col string
		var pos int
		if err := rows.Scan(&col, &pos); err != nil {
			return nil, fmt.Errorf("scan primary key of %s: %w", name, err)
		}
		pk = append(pk, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate primary key of %s: %w", name, err)
	}
	return pk, nil
}

// LoadTable reads every row of a table, in primary key order.
func (s *Store) LoadTable(ctx context.Context, name string) (*table.Table, error) {
	pk, err := s.PrimaryKey(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(pk) == 0 {
		exists, err := s.tableExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("table %q does not exist", name)
		}
	}

	order := "rowid"
	if len(pk) > 0 {
		quoted := make([]string, len(pk))
		for i, col := range pk {
			quoted[i] = quoteIdent(col)
		}
		order = strings.Join(quoted, ", ")
	}

	t, err := s.Query(ctx, name, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quoteIdent(name), order))
	if err != nil {
		return nil, err
	}
	t.PrimaryKey = pk
	return t, nil
}

// Query runs a query and reads its result as a table called name. The
// result has no primary key.
func (s *Store) Query(ctx context.Context, name, query string, args ...any) (*table.Table, error) {
	s.logger.Debug("load table", "table", name, "db", s.path)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types of %s: %w", name, err)
	}
	columns := make([]string, len(types))
	for i, ct := range types {
		columns[i] = strings.ToUpper(ct.Name())
	}

	t := table.New(name, columns...)
	t.Rows = [][]any{}
	for rows.Next() {
		raw := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", name, err)
		}
		for i, ct := range types {
			raw[i] = mapValue(ct.DatabaseTypeName(), raw[i])
		}
		t.Rows = append(t.Rows, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %s: %w", name, err)
	}
	return t, nil
}

func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", name, err)
	}
	return n > 0, nil
}

// mapValue converts a value scanned from a column to the Go type of its
// declared type.
func mapValue(declType string, v any) any {
	if v == nil {
		return nil
	}
	decl := baseType(declType)

	switch x := v.(type) {
	case time.Time:
		if decl == "DATE" {
			return value.DateFromTime(x)
		}
		return value.DateTimeFromTime(x)
	case []byte:
		if isText(decl) {
			return mapText(decl, string(x))
		}
		return x
	case string:
		return mapText(decl, x)
	case int64:
		if decl == "BOOLEAN" || decl == "BOOL" {
			return x != 0
		}
	}
	return v
}

func mapText(decl, s string) any {
	switch decl {
	case "TIME":
		if t, err := value.ParseTime(s); err == nil {
			return t
		}
	case "DATE":
		if d, err := value.ParseDate(s); err == nil {
			return d
		}
	case "DATETIME", "TIMESTAMP":
		if dt, err := value.ParseDateTime(strings.Replace(s, " ", "T", 1)); err == nil {
			return dt
		}
	}
	return s
}

// baseType strips the size of a declared type: "VARCHAR(20)" is "VARCHAR".
func baseType(decl string) string {
	decl = strings.ToUpper(strings.TrimSpace(decl))
	if i := strings.IndexByte(decl, '('); i >= 0 {
		decl = strings.TrimSpace(decl[:i])
	}
	return decl
}

// isText follows the SQLite type affinity rule for text.
func isText(decl string) bool {
	return strings.Contains(decl, "CHAR") || strings.Contains(decl, "CLOB") || strings.Contains(decl, "TEXT") ||
		decl == "TIME" || decl == "DATE" || decl == "DATETIME" || decl == "TIMESTAMP"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
