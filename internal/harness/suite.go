package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioNotFoundError is returned when a suite directory holds no scenario
// matching the filter.
type ScenarioNotFoundError struct {
	Dir    string
	Filter string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	if e.Filter != "" {
		return fmt.Sprintf("no scenario matching %q in %s", e.Filter, e.Dir)
	}
	return fmt.Sprintf("no scenario in %s", e.Dir)
}

// GoldenMismatchError is returned when a result differs from its golden file.
type GoldenMismatchError struct {
	Path string
	Want []byte
	Got  []byte
}

// Error implements the error interface.
func (e *GoldenMismatchError) Error() string {
	return fmt.Sprintf("result differs from golden file %s\n  want: %s\n  got:  %s", e.Path, e.Want, e.Got)
}

// Discover returns the scenario files (.yaml, .yml and .cue) under dir whose
// base name without extension matches filter, sorted by path. An empty
// filter matches every scenario.
func Discover(dir, filter string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenarios directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Golden files live next to the scenarios.
			if d.Name() == "golden" && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" && ext != ".cue" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(d.Name(), ext)
			if ok, _ := filepath.Match(filter, name); !ok {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, &ScenarioNotFoundError{Dir: dir, Filter: filter}
	}
	sort.Strings(paths)
	return paths, nil
}

// SuiteResult summarizes the execution of every scenario of a directory.
type SuiteResult struct {
	TotalScenarios int               `json:"total_scenarios"`
	Passed         int               `json:"passed"`
	Failed         int               `json:"failed"`
	Failures       []ScenarioFailure `json:"failures,omitempty"`
	Results        []*Result         `json:"results,omitempty"`
}

// ScenarioFailure represents a scenario that could not be loaded or run,
// whose checks failed, or whose result differs from its golden file. With
// golden comparison a scenario passes when its result matches the file,
// failed checks included.
type ScenarioFailure struct {
	ScenarioPath string `json:"scenario_path"`
	Scenario     string `json:"scenario,omitempty"`
	Error        string `json:"error"`
}

// SuiteOptions configures RunSuite.
type SuiteOptions struct {
	Options

	// Filter selects scenarios by name; see Discover.
	Filter string

	// Golden compares each result with dir/golden/<name>.golden.
	Golden bool

	// Update rewrites golden files instead of comparing them.
	Update bool
}

// RunSuite discovers, loads and runs every scenario under dir.
//
// For each scenario:
// 1. Load the scenario file
// 2. Run it via Run
// 3. Compare its snapshot with the golden file when requested
// 4. Collect and report results
func RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	paths, err := Discover(dir, opts.Filter)
	if err != nil {
		return nil, err
	}
	if (opts.Golden || opts.Update) && opts.RunIDs == nil {
		// Golden results need a stable run id.
		opts.RunIDs = NewFixedRunIDGenerator("")
	}

	result := &SuiteResult{}
	fail := func(path, name, msg string) {
		result.Failed++
		result.Failures = append(result.Failures, ScenarioFailure{ScenarioPath: path, Scenario: name, Error: msg})
	}

	for _, path := range paths {
		result.TotalScenarios++

		scenario, err := LoadScenario(path)
		if err != nil {
			fail(path, "", fmt.Sprintf("failed to load scenario: %v", err))
			continue
		}

		runResult, err := Run(ctx, scenario, opts.Options)
		if err != nil {
			fail(path, scenario.Name, fmt.Sprintf("scenario execution failed: %v", err))
			continue
		}
		result.Results = append(result.Results, runResult)

		if opts.Golden || opts.Update {
			golden := filepath.Join(dir, "golden", scenario.Name+".golden")
			if err := CompareGolden(golden, runResult, opts.Update); err != nil {
				fail(path, scenario.Name, err.Error())
				continue
			}
			// The golden file records the expected failures too.
			result.Passed++
			continue
		}

		if !runResult.Pass {
			fail(path, scenario.Name, fmt.Sprintf("scenario checks failed:\n%s", strings.Join(runResult.Errors, "\n")))
			continue
		}
		result.Passed++
	}
	return result, nil
}

// CompareGolden compares the snapshot of result with the golden file at
// path, or rewrites the file when update is set.
func CompareGolden(path string, result *Result, update bool) error {
	got, err := result.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot result: %w", err)
	}

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create golden directory: %w", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			return fmt.Errorf("write golden file: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("golden file %s does not exist (run with --update to create it)", path)
	}
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, got) {
		return &GoldenMismatchError{Path: path, Want: want, Got: got}
	}
	return nil
}
