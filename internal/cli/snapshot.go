package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcheck/internal/snapshot"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	SourceOptions
	Output string // snapshot file path
}

// SnapshotResult is the JSON payload of the snapshot command.
type SnapshotResult struct {
	Table   string `json:"table"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Path    string `json:"path"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record the start point of a table",
		Long: `Record the content of a table in a snapshot file, to be used later as
the start point of the changes made to the table.

A path ending in .arrow is written as an Arrow IPC stream, any other path
as a compressed snapshot.

Examples:
  dbcheck snapshot --db movies.db --table movie -o movie.snap
  dbcheck snapshot --db movies.db --table movie -o movie.arrow`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, cmd)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "snapshot file path (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runSnapshot(opts *SnapshotOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	t, err := opts.load(cmd.Context(), out.Logger())
	if err != nil {
		return err
	}
	if err := snapshot.WriteFile(opts.Output, t); err != nil {
		return WrapExitError(ExitCommandError, "failed to write snapshot", err)
	}

	result := SnapshotResult{Table: t.Name, Rows: t.RowCount(), Columns: t.ColumnCount(), Path: opts.Output}
	if opts.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintf(out.Writer, "✓ %s table (%d rows) written to %s\n", result.Table, result.Rows, result.Path)
	return nil
}
