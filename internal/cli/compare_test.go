package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCommandColumn(t *testing.T) {
	db := movieDB(t)

	out, err := executeSub(NewCompareCommand, "text", "--db", db, "--table", "movie", "--column", "released", "--values", "1979-05-25,2004-07-30")
	require.NoError(t, err)
	assert.Equal(t, "✓ Column at index 2 (column name : RELEASED) of movie table\n", out)

	out, err = executeSub(NewCompareCommand, "text", "--db", db, "--table", "movie", "--column", "rating", "--values", "null,6.50")
	require.NoError(t, err, out)
}

func TestCompareCommandRow(t *testing.T) {
	out, err := executeSub(NewCompareCommand, "text", "--db", movieDB(t), "--table", "movie", "--row", "1",
		"--values", "2,The Village,2004-07-30,6.5,true")
	require.NoError(t, err, out)
	assert.Equal(t, "✓ Row at index 1 of movie table\n", out)
}

func TestCompareCommandValueMismatch(t *testing.T) {
	out, err := executeSub(NewCompareCommand, "text", "--db", movieDB(t), "--table", "movie", "--row", "0", "--column", "title", "--values", "Aliens")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	want := "✗ Value at index 1 (column name : TITLE) of Row at index 0 of movie table\n" +
		"  [Value at index 1 (column name : TITLE) of Row at index 0 of movie table] \n" +
		"  Expecting:\n" +
		"    <\"Alien\">\n" +
		"  to be equal to: \n" +
		"    <\"Aliens\">\n"
	assert.Equal(t, want, out)
}

func TestCompareCommandMismatchJSON(t *testing.T) {
	out, err := executeSub(NewCompareCommand, "json", "--db", movieDB(t), "--table", "movie", "--column", "id", "--values", "1,2,3")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string        `json:"status"`
		Data   CompareResult `json:"data"`
		Error  *CLIError     `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Pass)
	assert.Contains(t, resp.Data.Message, "Column at index 0 (column name : ID) of movie table")
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCheckFailed, resp.Error.Code)
}

func TestCompareCommandErrors(t *testing.T) {
	db := movieDB(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no subject",
			args:    []string{"--db", db, "--table", "movie", "--values", "1"},
			wantErr: "one of --column or --row is required",
		},
		{
			name:    "several values for one value",
			args:    []string{"--db", db, "--table", "movie", "--row", "0", "--column", "id", "--values", "1,2"},
			wantErr: "a single value is compared, got 2 values",
		},
		{
			name:    "unknown column",
			args:    []string{"--db", db, "--table", "movie", "--column", "director", "--values", "x"},
			wantErr: "Column <director> does not exist",
		},
		{
			name:    "row out of range",
			args:    []string{"--db", db, "--table", "movie", "--row", "5", "--values", "x"},
			wantErr: "Index 5 out of the limits [0, 2[",
		},
		{
			name:    "unparsable date",
			args:    []string{"--db", db, "--table", "movie", "--row", "0", "--column", "released", "--values", "yesterday"},
			wantErr: "cannot compare",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeSub(NewCompareCommand, "text", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpectedValues(t *testing.T) {
	got := expectedValues([]string{"Alien", "null", "~", "true", "8.50", "3", "2004-07-30", "'8.5'", "", "[a]"})
	assert.Equal(t, []any{"Alien", nil, nil, true, 8.5, 3, "2004-07-30", "8.5", "", "[a]"}, got)
	assert.Empty(t, expectedValues(nil))
}
