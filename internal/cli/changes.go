package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcheck/internal/dbassert"
	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/snapshot"
)

// ChangesOptions holds flags for the changes command.
type ChangesOptions struct {
	*RootOptions
	SourceOptions
	Start string // start point snapshot
}

// ChangeSummary describes one change in the JSON payload of the changes
// command. Values are canonical text, null being "null".
type ChangeSummary struct {
	Type     string   `json:"type"`
	Modified []string `json:"modified_columns"`
	Start    []string `json:"start,omitempty"`
	End      []string `json:"end,omitempty"`
}

// ChangesResult is the JSON payload of the changes command.
type ChangesResult struct {
	Table   string          `json:"table"`
	Columns []string        `json:"columns"`
	Changes []ChangeSummary `json:"changes"`
}

// NewChangesCommand creates the changes command.
func NewChangesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChangesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "List the changes made to a table since a snapshot",
		Long: `List the rows created, modified and deleted between a start point
recorded with "dbcheck snapshot" and the current content of the table.

Changes are listed creations first, then modifications, then deletions,
each group in row order.

Examples:
  dbcheck snapshot --db movies.db --table movie -o movie.snap
  sqlite3 movies.db "UPDATE movie SET rating = 8.5 WHERE id = 1"
  dbcheck changes --db movies.db --table movie --start movie.snap`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChanges(opts, cmd)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.Start, "start", "", "start point snapshot file (required)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runChanges(opts *ChangesOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	start, err := snapshot.ReadFile(opts.Start)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read start point", err)
	}
	end, err := opts.load(cmd.Context(), out.Logger())
	if err != nil {
		return err
	}
	// A snapshot written from a query result has no name of its own.
	start.Name = end.Name

	changes, err := dbassert.ComputeChanges(start, end)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compute changes", err)
	}
	out.VerboseLog("%d change(s) on %s table", len(changes), end.Name)

	result := ChangesResult{Table: end.Name, Columns: end.Columns, Changes: make([]ChangeSummary, len(changes))}
	for i, c := range changes {
		result.Changes[i] = ChangeSummary{
			Type:     c.Type.String(),
			Modified: c.ModifiedColumnNames(),
			Start:    texts(c.Start),
			End:      texts(c.End),
		}
	}

	if opts.Format == "json" {
		return out.Success(result)
	}

	w := out.Writer
	if len(changes) == 0 {
		fmt.Fprintf(w, "No changes on %s table.\n", result.Table)
		return nil
	}
	for i, c := range changes {
		fmt.Fprintf(w, "change %d: %s\n", i, c.Type)
		for _, col := range c.ModifiedColumns() {
			fmt.Fprintf(w, "  %s: %s -> %s\n", c.Columns[col], literalAt(c.Start, col), literalAt(c.End, col))
		}
	}
	fmt.Fprintf(w, "\n%d change(s) on %s table\n", len(changes), result.Table)
	return nil
}

func texts(row []any) []string {
	if row == nil {
		return nil
	}
	s := make([]string, len(row))
	for i, v := range row {
		s[i] = report.Text(v)
	}
	return s
}

// literalAt renders the i-th value of a row, or "-" when the row does not
// exist at that point.
func literalAt(row []any, i int) string {
	if row == nil {
		return "-"
	}
	return report.Literal(row[i], false)
}
