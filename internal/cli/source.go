package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dbcheck/internal/store"
	"github.com/roach88/dbcheck/internal/table"
)

// SourceOptions selects the table a command reads.
type SourceOptions struct {
	DB    string // database path
	Table string // table name
	Query string // optional SELECT producing the table
}

func (s *SourceOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.DB, "db", "", "path to the SQLite database (required)")
	cmd.Flags().StringVar(&s.Table, "table", "", "table name (required)")
	cmd.Flags().StringVar(&s.Query, "query", "", "SELECT statement read instead of the whole table")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("table")
}

// load reads the selected table. A missing database file is a command
// error, so that a typo does not silently create an empty database.
func (s *SourceOptions) load(ctx context.Context, logger *slog.Logger) (*table.Table, error) {
	if s.DB != store.MemoryPath {
		if _, err := os.Stat(s.DB); os.IsNotExist(err) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", s.DB))
		}
	}

	st, err := store.Open(s.DB, store.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var t *table.Table
	if s.Query != "" {
		t, err = st.Query(ctx, s.Table, s.Query)
	} else {
		t, err = st.LoadTable(ctx, s.Table)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read table", err)
	}
	logger.Debug("table loaded", "table", t.Name, "rows", t.RowCount(), "columns", t.ColumnCount())
	return t, nil
}

// expectedValues decodes command line values as YAML scalars, the way
// scenario files are read: "true" is a boolean, "8.5" a number and "null"
// or "~" a null value. Quoted values stay text, and so do dates, which are
// coerced to the type of each actual value when compared.
func expectedValues(args []string) []any {
	values := make([]any, len(args))
	for i, a := range args {
		if a == "" {
			values[i] = a
			continue
		}
		var v any
		if err := yaml.Unmarshal([]byte(a), &v); err != nil {
			v = a
		}
		switch v.(type) {
		case map[string]any, []any:
			// Only scalars are expected values.
			v = a
		}
		values[i] = v
	}
	return values
}
