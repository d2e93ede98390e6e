package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/dbcheck/internal/report"
)

// GoldenDir is the fixture directory of golden result files.
const GoldenDir = "testdata/golden"

// toCanonicalMap converts a Result to a map[string]any for canonical JSON
// serialization, which only handles primitives, slices and maps.
func (r *Result) toCanonicalMap() map[string]any {
	checks := make([]any, len(r.Checks))
	for i, o := range r.Checks {
		m := map[string]any{
			"index": o.Index,
			"type":  o.Type,
			"table": o.Table,
			"pass":  o.Pass,
		}
		if o.Message != "" {
			m["message"] = o.Message
		}
		checks[i] = m
	}

	return map[string]any{
		"run_id":   r.RunID,
		"scenario": r.Scenario,
		"pass":     r.Pass,
		"checks":   checks,
	}
}

// Snapshot serializes the result as canonical JSON. Equal results produce
// byte-identical snapshots, which makes them suitable for golden files.
func (r *Result) Snapshot() ([]byte, error) {
	return report.MarshalCanonical(r.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the result snapshot against
// a golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the result doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, Options{RunIDs: NewFixedRunIDGenerator("")})
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running its scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := result.Snapshot()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
