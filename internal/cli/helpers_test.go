package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbcheck/internal/store"
)

const movieSchema = `
CREATE TABLE movie (id INTEGER PRIMARY KEY, title TEXT NOT NULL, released DATE, rating REAL, seen BOOLEAN);
INSERT INTO movie VALUES (1, 'Alien', '1979-05-25', NULL, 0);
INSERT INTO movie VALUES (2, 'The Village', '2004-07-30', 6.5, 1);
`

// movieDB creates a database file holding the movie table and returns its
// path.
func movieDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.db")
	execSQL(t, path, movieSchema)
	return path
}

func execSQL(t *testing.T, path, script string) {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Exec(context.Background(), script))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// execute runs the root command with args and returns its standard output.
func execute(args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// executeSub runs a subcommand built with its own root options, the way the
// root command wires it.
func executeSub(newCmd func(*RootOptions) *cobra.Command, format string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := newCmd(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
