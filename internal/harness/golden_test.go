package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_MovieRating(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/movie_rating.yaml")
	require.NoError(t, err)

	// First run with -update to create golden file:
	//   go test ./internal/harness -run TestRunWithGolden_MovieRating -update
	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
}

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult("run-0001", "s")
	result.AddOutcome(CheckOutcome{Index: 0, Type: CheckRowsSize, Table: "t", Pass: true})
	result.AddOutcome(CheckOutcome{Index: 1, Type: CheckValueEqual, Table: "t", Message: "<\"a\"> & é"})

	data, err := result.Snapshot()
	require.NoError(t, err)

	// Sorted keys, no HTML escaping, no whitespace.
	assert.Equal(t, `{"checks":[{"index":0,"pass":true,"table":"t","type":"rows_size"},`+
		`{"index":1,"message":"<\"a\"> & é","pass":false,"table":"t","type":"value_equal"}],`+
		`"pass":false,"run_id":"run-0001","scenario":"s"}`, string(data))
}

func TestCompareGolden(t *testing.T) {
	scenario := movieScenario(Check{Type: CheckRowsSize, Table: "movie", Count: intp(3)})
	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)

	path := t.TempDir() + "/golden/movies.golden"

	err = CompareGolden(path, result, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	require.NoError(t, CompareGolden(path, result, true))
	require.NoError(t, CompareGolden(path, result, false))

	result.Checks[0].Pass = false
	err = CompareGolden(path, result, false)
	var mismatch *GoldenMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, path, mismatch.Path)
}
