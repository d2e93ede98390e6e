package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcheck/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run check scenarios",
		Long: `Run every check scenario of a directory.

Each scenario prepares a database, applies its changes and evaluates its
checks. When the directory holds a golden/ subdirectory, the result of each
scenario is compared with golden/<name>.golden instead, so that expected
failures are part of the recorded result.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  dbcheck test ./scenarios
  dbcheck test ./scenarios --filter "movie_*"
  dbcheck test ./scenarios --update
  dbcheck test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}

	suiteOpts := harness.SuiteOptions{
		Options: harness.Options{Logger: out.Logger()},
		Filter:  opts.Filter,
		Update:  opts.Update,
		Golden:  hasGoldenDir(dir),
	}
	out.VerboseLog("Running scenarios in %s (golden: %v)", dir, suiteOpts.Golden || suiteOpts.Update)

	result, err := harness.RunSuite(cmd.Context(), dir, suiteOpts)
	var notFound *harness.ScenarioNotFoundError
	if errors.As(err, &notFound) {
		if opts.Format == "json" {
			return out.Success(&harness.SuiteResult{})
		}
		fmt.Fprintln(out.Writer, "No scenarios found.")
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	if opts.Format == "json" {
		return outputTestJSON(out, result)
	}
	return outputTestText(out, result, opts.Update)
}

func hasGoldenDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "golden"))
	return err == nil && info.IsDir()
}

// outputTestJSON outputs the suite result as JSON.
func outputTestJSON(out *OutputFormatter, result *harness.SuiteResult) error {
	resp := CLIResponse{Status: "ok", Data: result, RunID: sharedRunID(result.Results)}
	if result.Failed == 0 {
		return out.encode(resp)
	}

	msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
	resp.Status = "error"
	resp.Error = &CLIError{Code: CodeTestFailed, Message: msg}
	if err := out.encode(resp); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

// sharedRunID returns the run id of results when they all share one.
func sharedRunID(results []*harness.Result) string {
	if len(results) == 0 {
		return ""
	}
	id := results[0].RunID
	for _, r := range results[1:] {
		if r.RunID != id {
			return ""
		}
	}
	return id
}

// outputTestText outputs one line per scenario followed by a summary.
func outputTestText(out *OutputFormatter, result *harness.SuiteResult, updated bool) error {
	w := out.Writer

	failed := make(map[string]harness.ScenarioFailure, len(result.Failures))
	for _, f := range result.Failures {
		if f.Scenario != "" {
			failed[f.Scenario] = f
		}
	}

	ran := make(map[string]bool, len(result.Results))
	for _, r := range result.Results {
		ran[r.Scenario] = true
		if f, ok := failed[r.Scenario]; ok {
			printFailure(w, r.Scenario, f.Error)
			continue
		}
		if updated {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", r.Scenario)
			continue
		}
		fmt.Fprintf(w, "✓ %s\n", r.Scenario)
	}
	// Scenarios that could not be loaded or run have no result.
	for _, f := range result.Failures {
		if f.Scenario == "" || !ran[f.Scenario] {
			name := f.Scenario
			if name == "" {
				name = filepath.Base(f.ScenarioPath)
			}
			printFailure(w, name, f.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.TotalScenarios)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

func printFailure(w io.Writer, name, msg string) {
	fmt.Fprintf(w, "✗ %s\n", name)
	fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(msg, "\n", "\n  "))
}
