package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	SourceOptions
}

// InspectedValue is one value of an inspected table with its type.
type InspectedValue struct {
	Value string    `json:"value"`
	Type  value.Tag `json:"type"`
}

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	Table      string             `json:"table"`
	Columns    []string           `json:"columns"`
	PrimaryKey []string           `json:"primary_key,omitempty"`
	Rows       [][]InspectedValue `json:"rows"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the values of a table and their types",
		Long: `Show every value of a table as the checks see it: its canonical
text and the type it is compared as.

Examples:
  dbcheck inspect --db movies.db --table movie
  dbcheck inspect --db movies.db --table rated --query "SELECT id FROM movie WHERE rating IS NOT NULL"
  dbcheck inspect --db movies.db --table movie --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	t, err := opts.load(cmd.Context(), out.Logger())
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return out.Success(inspect(t))
	}

	w := out.Writer
	fmt.Fprintf(w, "%s table (%d rows, %d columns)\n", t.Name, t.RowCount(), t.ColumnCount())
	if len(t.PrimaryKey) > 0 {
		fmt.Fprintf(w, "primary key: %s\n", strings.Join(t.PrimaryKey, ", "))
	}
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%s=%s (%s)", t.Columns[j], report.Literal(v, false), value.Classify(v))
		}
		fmt.Fprintf(w, "row %d: %s\n", i, strings.Join(cells, ", "))
	}
	return nil
}

func inspect(t *table.Table) *InspectResult {
	result := &InspectResult{
		Table:      t.Name,
		Columns:    t.Columns,
		PrimaryKey: t.PrimaryKey,
		Rows:       make([][]InspectedValue, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cells := make([]InspectedValue, len(row))
		for j, v := range row {
			cells[j] = InspectedValue{Value: report.Text(v), Type: value.Classify(v)}
		}
		result.Rows[i] = cells
	}
	return result
}
