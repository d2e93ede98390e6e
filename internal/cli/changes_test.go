package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startPoint records the movie table of db in a snapshot file.
func startPoint(t *testing.T, db, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	_, err := executeSub(NewSnapshotCommand, "text", "--db", db, "--table", "movie", "-o", path)
	require.NoError(t, err)
	return path
}

func TestChangesCommandText(t *testing.T) {
	for _, name := range []string{"movie.snap", "movie.arrow"} {
		t.Run(name, func(t *testing.T) {
			db := movieDB(t)
			start := startPoint(t, db, name)
			execSQL(t, db, `
UPDATE movie SET rating = 8.5, seen = 1 WHERE id = 1;
INSERT INTO movie VALUES (3, 'Unbreakable', '2000-11-22', NULL, 0);
`)

			out, err := executeSub(NewChangesCommand, "text", "--db", db, "--table", "movie", "--start", start)
			require.NoError(t, err)

			want := `change 0: CREATION
  ID: - -> 3
  TITLE: - -> "Unbreakable"
  RELEASED: - -> 2000-11-22
  RATING: - -> null
  SEEN: - -> false
change 1: MODIFICATION
  RATING: null -> 8.5
  SEEN: false -> true

2 change(s) on movie table
`
			assert.Equal(t, want, out)
		})
	}
}

func TestChangesCommandNoChanges(t *testing.T) {
	db := movieDB(t)
	start := startPoint(t, db, "movie.snap")

	out, err := executeSub(NewChangesCommand, "text", "--db", db, "--table", "movie", "--start", start)
	require.NoError(t, err)
	assert.Equal(t, "No changes on movie table.\n", out)
}

func TestChangesCommandJSON(t *testing.T) {
	db := movieDB(t)
	start := startPoint(t, db, "movie.snap")
	execSQL(t, db, "DELETE FROM movie WHERE id = 2;")

	out, err := executeSub(NewChangesCommand, "json", "--db", db, "--table", "movie", "--start", start)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ChangesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "movie", resp.Data.Table)
	require.Len(t, resp.Data.Changes, 1)

	c := resp.Data.Changes[0]
	assert.Equal(t, "DELETION", c.Type)
	assert.Equal(t, []string{"ID", "TITLE", "RELEASED", "RATING", "SEEN"}, c.Modified)
	assert.Equal(t, []string{"2", "The Village", "2004-07-30", "6.5", "true"}, c.Start)
	assert.Nil(t, c.End)
}

func TestChangesCommandErrors(t *testing.T) {
	db := movieDB(t)

	_, err := executeSub(NewChangesCommand, "text", "--db", db, "--table", "movie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "start" not set`)

	_, err = executeSub(NewChangesCommand, "text", "--db", db, "--table", "movie", "--start", filepath.Join(t.TempDir(), "none.snap"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to read start point")

	// A start point of another shape cannot be compared.
	start := startPoint(t, db, "movie.snap")
	_, err = executeSub(NewChangesCommand, "text", "--db", db, "--table", "titles", "--query", "SELECT title FROM movie", "--start", start)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to compute changes")
}
