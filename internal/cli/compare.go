package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcheck/internal/dbassert"
	"github.com/roach88/dbcheck/internal/report"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	SourceOptions
	Column string   // column to compare
	Row    int      // row to compare, -1 for none
	Values []string // expected values
}

// CompareResult is the JSON payload of the compare command.
type CompareResult struct {
	Subject string `json:"subject"`
	Pass    bool   `json:"pass"`
	Message string `json:"message,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the values of a column, a row or a single value",
		Long: `Compare the values of a table with expected values.

With --column the values of the column are compared, with --row the values
of the row, and with both the single value at their crossing. Expected
values are read as in scenario files: true and false are booleans, numbers
are numbers, null is a null value and anything else is text, coerced to
the type of each actual value. Put a value in single quotes to keep it
text, as in '8.5'.

Exit codes:
  0 - The values are equal
  1 - The values differ
  2 - Command error (missing database, unknown column, etc.)

Examples:
  dbcheck compare --db movies.db --table movie --column title --values Alien,"The Village"
  dbcheck compare --db movies.db --table movie --row 0 --column released --values 1979-05-25
  dbcheck compare --db movies.db --table movie --row 1 --values 2,"The Village",2004-07-30,6.5,true`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, cmd)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.Column, "column", "", "column name")
	cmd.Flags().IntVar(&opts.Row, "row", -1, "row index")
	cmd.Flags().StringSliceVar(&opts.Values, "values", nil, "expected values, comma separated (required)")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}

func runCompare(opts *CompareOptions, cmd *cobra.Command) error {
	if opts.Column == "" && opts.Row < 0 {
		return NewExitError(ExitCommandError, "one of --column or --row is required")
	}
	if opts.Column != "" && opts.Row >= 0 && len(opts.Values) != 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("a single value is compared, got %d values", len(opts.Values)))
	}

	out := opts.formatter(cmd)
	t, err := opts.load(cmd.Context(), out.Logger())
	if err != nil {
		return err
	}

	expected := expectedValues(opts.Values)
	tab := dbassert.AssertThat(t)
	subject := tab.Description()

	switch {
	case opts.Column != "" && opts.Row >= 0:
		v := tab.RowAt(opts.Row).ValueNamed(opts.Column)
		subject = v.Description()
		err = v.IsEqualTo(expected[0])
	case opts.Column != "":
		c := tab.ColumnNamed(opts.Column)
		subject = c.Description()
		err = c.HasValuesEqualTo(expected...)
	default:
		r := tab.RowAt(opts.Row)
		subject = r.Description()
		err = r.HasValuesEqualTo(expected...)
	}

	result := CompareResult{Subject: subject, Pass: err == nil}
	if err != nil && !report.IsAssertion(err) {
		// Navigation and usage errors are not comparisons.
		return WrapExitError(ExitCommandError, "cannot compare", err)
	}
	if err != nil {
		result.Message = err.Error()
	}

	if opts.Format == "json" {
		if result.Pass {
			return out.Success(result)
		}
		if err := out.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: CodeCheckFailed, Message: "values differ"},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "values differ")
	}

	if result.Pass {
		fmt.Fprintf(out.Writer, "✓ %s\n", subject)
		return nil
	}
	printFailure(out.Writer, subject, result.Message)
	return NewExitError(ExitFailure, "values differ")
}
