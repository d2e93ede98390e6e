package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dbcheck/internal/dbassert"
	"github.com/roach88/dbcheck/internal/value"
)

// Scenario defines a database check scenario.
// A scenario prepares a database, optionally records start points, applies
// changes and then evaluates its checks against the resulting state.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description"`

	// Database is an optional sqlite file. Empty means a fresh in-memory
	// database. Relative paths are resolved against the scenario file.
	Database string `yaml:"database,omitempty" json:"database,omitempty"`

	// Setup is a SQL script run before start points are recorded.
	Setup string `yaml:"setup,omitempty" json:"setup,omitempty"`

	// Changes is a SQL script run between the start and the end point.
	Changes string `yaml:"changes,omitempty" json:"changes,omitempty"`

	// StartSnapshot is an optional snapshot file holding the start point of
	// one table, written by "dbcheck snapshot". It replaces the start point
	// the harness would otherwise load after Setup.
	StartSnapshot string `yaml:"start_snapshot,omitempty" json:"start_snapshot,omitempty"`

	// RunID is an optional fixed run id for deterministic output.
	RunID string `yaml:"run_id,omitempty" json:"run_id,omitempty"`

	// Checks are evaluated in order. A failing check does not stop the run.
	Checks []Check `yaml:"checks" json:"checks"`
}

// Check is a single assertion of a scenario.
type Check struct {
	// Type selects the assertion; see the Check* constants.
	Type string `yaml:"type" json:"type"`

	// As overrides the default description of the checked subject.
	As string `yaml:"as,omitempty" json:"as,omitempty"`

	// Table is the table the check reads.
	Table string `yaml:"table" json:"table"`

	// Query optionally replaces the table contents with the result of a
	// SELECT. The table name then only names the result.
	Query string `yaml:"query,omitempty" json:"query,omitempty"`

	// Row and Column locate the checked row, column or value.
	Row    *int   `yaml:"row,omitempty" json:"row,omitempty"`
	Column string `yaml:"column,omitempty" json:"column,omitempty"`

	// Change is the index of the checked change (change_* checks).
	Change *int `yaml:"change,omitempty" json:"change,omitempty"`

	// Count is the expected size (rows_size, columns_size, change_count).
	Count *int `yaml:"count,omitempty" json:"count,omitempty"`

	// Values are the expected values of a column or a row.
	Values []any `yaml:"values,omitempty" json:"values,omitempty"`

	// Value is the expected value (value_equal, value_not_equal).
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Tag is the expected value type (value_of_type).
	Tag string `yaml:"tag,omitempty" json:"tag,omitempty"`

	// Lenient accepts null values in a column type check.
	Lenient bool `yaml:"lenient,omitempty" json:"lenient,omitempty"`

	// ChangeType is CREATION, MODIFICATION or DELETION (change_type).
	ChangeType string `yaml:"change_type,omitempty" json:"change_type,omitempty"`

	// Columns are the expected modified columns (change_modified_columns).
	Columns []string `yaml:"columns,omitempty" json:"columns,omitempty"`

	// Start and End are the expected values of a change column
	// (change_values).
	Start any `yaml:"start,omitempty" json:"start,omitempty"`
	End   any `yaml:"end,omitempty" json:"end,omitempty"`
}

// Check type constants.
const (
	CheckRowsSize              = "rows_size"
	CheckColumnsSize           = "columns_size"
	CheckColumnValues          = "column_values"
	CheckRowValues             = "row_values"
	CheckValueEqual            = "value_equal"
	CheckValueNotEqual         = "value_not_equal"
	CheckValueOfType           = "value_of_type"
	CheckValueNull             = "value_null"
	CheckValueNotNull          = "value_not_null"
	CheckChangeCount           = "change_count"
	CheckChangeType            = "change_type"
	CheckChangeModifiedColumns = "change_modified_columns"
	CheckChangeValues          = "change_values"
)

// IsChange reports whether the check reads the changes of its table.
func (c Check) IsChange() bool {
	return strings.HasPrefix(c.Type, "change_")
}

// LoadScenario reads and parses a scenario file. Files ending in .cue are
// evaluated with CUE, any other file is parsed as YAML.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Relative database and snapshot paths are resolved against the file's
// directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	if filepath.Ext(path) == ".cue" {
		scenario, err = parseCUE(path, data)
	} else {
		scenario, err = parseYAML(data)
	}
	if err != nil {
		return nil, err
	}

	// Resolve paths relative to the scenario file BEFORE validation
	base := filepath.Dir(path)
	scenario.Database = resolve(base, scenario.Database)
	scenario.StartSnapshot = resolve(base, scenario.StartSnapshot)

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

func parseYAML(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "check:" vs "checks:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

func parseCUE(path string, data []byte) (*Scenario, error) {
	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("scenario is not concrete: %w", err)
	}
	var scenario Scenario
	if err := v.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	return &scenario, nil
}

func resolve(base, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}
	if s.StartSnapshot != "" {
		if _, err := os.Stat(s.StartSnapshot); os.IsNotExist(err) {
			return fmt.Errorf("start snapshot not found: %s", s.StartSnapshot)
		}
	}
	for i := range s.Checks {
		if err := validateCheck(i, &s.Checks[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateCheck validates a single check based on its type.
func validateCheck(index int, c *Check) error {
	if c.Type == "" {
		return fmt.Errorf("checks[%d]: type is required", index)
	}
	if c.Table == "" {
		return fmt.Errorf("checks[%d]: table is required", index)
	}
	if c.IsChange() && c.Query != "" {
		return fmt.Errorf("checks[%d]: query is not supported for %s", index, c.Type)
	}

	need := func(ok bool, field string) error {
		if !ok {
			return fmt.Errorf("checks[%d]: %s is required for %s", index, field, c.Type)
		}
		return nil
	}
	needCount := func() error {
		if err := need(c.Count != nil, "count"); err != nil {
			return err
		}
		if *c.Count < 0 {
			return fmt.Errorf("checks[%d]: count must be non-negative for %s", index, c.Type)
		}
		return nil
	}
	needValue := func() error {
		if err := need(c.Row != nil, "row"); err != nil {
			return err
		}
		return need(c.Column != "", "column")
	}

	switch c.Type {
	case CheckRowsSize, CheckColumnsSize, CheckChangeCount:
		return needCount()
	case CheckColumnValues:
		return need(c.Column != "", "column")
	case CheckRowValues:
		return need(c.Row != nil, "row")
	case CheckValueEqual, CheckValueNotEqual, CheckValueNull, CheckValueNotNull:
		return needValue()
	case CheckValueOfType:
		if err := need(c.Column != "", "column"); err != nil {
			return err
		}
		if err := need(c.Tag != "", "tag"); err != nil {
			return err
		}
		if _, err := value.ParseTag(c.Tag); err != nil {
			return fmt.Errorf("checks[%d]: %w", index, err)
		}
	case CheckChangeType:
		if err := need(c.Change != nil, "change"); err != nil {
			return err
		}
		if _, err := dbassert.ParseChangeType(c.ChangeType); err != nil {
			return fmt.Errorf("checks[%d]: %w", index, err)
		}
	case CheckChangeModifiedColumns:
		return need(c.Change != nil, "change")
	case CheckChangeValues:
		if err := need(c.Change != nil, "change"); err != nil {
			return err
		}
		return need(c.Column != "", "column")
	default:
		return fmt.Errorf("checks[%d]: unknown check type %q", index, c.Type)
	}
	return nil
}
