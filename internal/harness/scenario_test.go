package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a scenario file into dir and returns its path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "movies.yaml", `
name: movies
description: "Movie table checks"
run_id: run-0001
setup: |
  CREATE TABLE movie (id INTEGER PRIMARY KEY, title TEXT);
checks:
  - type: rows_size
    table: movie
    count: 0
  - type: value_equal
    table: movie
    row: 0
    column: title
    value: "2007-12-23"
  - type: change_values
    table: movie
    change: 0
    column: title
    start: null
    end: 8.5
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "movies", scenario.Name)
	assert.Equal(t, "Movie table checks", scenario.Description)
	assert.Equal(t, "run-0001", scenario.RunID)
	assert.Contains(t, scenario.Setup, "CREATE TABLE movie")
	require.Len(t, scenario.Checks, 3)

	assert.Equal(t, CheckRowsSize, scenario.Checks[0].Type)
	assert.Equal(t, 0, *scenario.Checks[0].Count)
	// Timestamps stay text; the comparison parses them against the actual.
	assert.Equal(t, "2007-12-23", scenario.Checks[1].Value)
	assert.Nil(t, scenario.Checks[2].Start)
	assert.Equal(t, 8.5, scenario.Checks[2].End)
	assert.True(t, scenario.Checks[2].IsChange())
}

func TestLoadScenario_ValidCUE(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "movies.cue", `
name:        "movies"
description: "Movie table checks"
database:    "movies.db"
_movie: table: "movie"
checks: [
	_movie & {type: "rows_size", count: 2},
	_movie & {type: "column_values", column: "title", values: ["Alien", null]},
	_movie & {type: "change_type", change: 0, change_type: "CREATION"},
]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "movies", scenario.Name)
	assert.Equal(t, filepath.Join(dir, "movies.db"), scenario.Database)
	require.Len(t, scenario.Checks, 3)
	assert.Equal(t, "movie", scenario.Checks[0].Table)
	assert.Equal(t, 2, *scenario.Checks[0].Count)
	assert.Equal(t, []any{"Alien", nil}, scenario.Checks[1].Values)
	assert.Equal(t, "CREATION", scenario.Checks[2].ChangeType)
}

func TestLoadScenario_CUEErrors(t *testing.T) {
	dir := t.TempDir()

	path := writeScenario(t, dir, "bad.cue", `name: "movies`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile CUE")

	path = writeScenario(t, dir, "open.cue", `
name: string
description: "d"
checks: [{type: "rows_size", table: "t", count: 1}]
`)
	_, err = LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario is not concrete")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "typo.yaml", `
name: typo
description: "Typo in checks"
check:
  - type: rows_size
    table: movie
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "field check not found")
}

func TestLoadScenario_ResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "start.snap"), []byte("x"), 0o644))
	path := writeScenario(t, dir, "paths.yaml", `
name: paths
description: "Relative paths"
database: data/test.db
start_snapshot: start.snap
checks:
  - type: rows_size
    table: movie
    count: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "test.db"), scenario.Database)
	assert.Equal(t, filepath.Join(dir, "start.snap"), scenario.StartSnapshot)
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nchecks: [{type: rows_size, table: t, count: 1}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nchecks: [{type: rows_size, table: t, count: 1}]",
			wantErr: "description is required",
		},
		{
			name:    "no checks",
			content: "name: n\ndescription: d\nchecks: []",
			wantErr: "checks list is required and must be non-empty",
		},
		{
			name:    "missing start snapshot",
			content: "name: n\ndescription: d\nstart_snapshot: /nonexistent/start.snap\nchecks: [{type: rows_size, table: t, count: 1}]",
			wantErr: "start snapshot not found",
		},
		{
			name:    "missing type",
			content: "name: n\ndescription: d\nchecks: [{table: t}]",
			wantErr: "checks[0]: type is required",
		},
		{
			name:    "missing table",
			content: "name: n\ndescription: d\nchecks: [{type: rows_size, count: 1}]",
			wantErr: "checks[0]: table is required",
		},
		{
			name:    "unknown type",
			content: "name: n\ndescription: d\nchecks: [{type: trace_count, table: t}]",
			wantErr: `checks[0]: unknown check type "trace_count"`,
		},
		{
			name:    "missing count",
			content: "name: n\ndescription: d\nchecks: [{type: rows_size, table: t}]",
			wantErr: "checks[0]: count is required for rows_size",
		},
		{
			name:    "negative count",
			content: "name: n\ndescription: d\nchecks: [{type: change_count, table: t, count: -1}]",
			wantErr: "checks[0]: count must be non-negative for change_count",
		},
		{
			name:    "value without row",
			content: "name: n\ndescription: d\nchecks: [{type: value_null, table: t, column: c}]",
			wantErr: "checks[0]: row is required for value_null",
		},
		{
			name:    "value without column",
			content: "name: n\ndescription: d\nchecks: [{type: value_equal, table: t, row: 0, value: 1}]",
			wantErr: "checks[0]: column is required for value_equal",
		},
		{
			name:    "unknown tag",
			content: "name: n\ndescription: d\nchecks: [{type: value_of_type, table: t, column: c, tag: decimal}]",
			wantErr: `checks[0]: unknown value type "decimal"`,
		},
		{
			name:    "unknown change type",
			content: "name: n\ndescription: d\nchecks: [{type: change_type, table: t, change: 0, change_type: update}]",
			wantErr: `checks[0]: unknown change type "update"`,
		},
		{
			name:    "change without index",
			content: "name: n\ndescription: d\nchecks: [{type: change_modified_columns, table: t, columns: [a]}]",
			wantErr: "checks[0]: change is required for change_modified_columns",
		},
		{
			name:    "query on changes",
			content: "name: n\ndescription: d\nchecks: [{type: change_count, table: t, query: 'SELECT 1', count: 0}]",
			wantErr: "checks[0]: query is not supported for change_count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
