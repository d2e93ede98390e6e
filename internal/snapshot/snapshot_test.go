package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbcheck/internal/compare"
	"github.com/roach88/dbcheck/internal/dbassert"
	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

func startPoint(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("test", "ID", "VAR1", "VAR2", "VAR3", "VAR4", "VAR5", "VAR6", "VAR7").WithPrimaryKey("ID")
	require.NoError(t, tbl.AddRow(int64(1), "test1", value.DateOf(2007, 12, 23), value.TimeOf(9, 1),
		value.DateTimeOf(value.DateOf(2007, 12, 23), value.TimeOf(9, 1, 0, 42)), true, 1.25, []byte{1, 2}))
	require.NoError(t, tbl.AddRow(int64(2), "", nil, nil, nil, false, int64(-7), []byte{}))
	return tbl
}

func assertSameTable(t *testing.T, want, got *table.Table) {
	t.Helper()
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Columns, got.Columns)
	assert.Equal(t, want.PrimaryKey, got.PrimaryKey)
	require.Len(t, got.Rows, len(want.Rows))
	for r := range want.Rows {
		for c := range want.Rows[r] {
			assert.True(t, compare.Same(want.Rows[r][c], got.Rows[r][c]),
				"row %d column %s: %v != %v", r, want.Columns[c], want.Rows[r][c], got.Rows[r][c])
		}
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)
	defer codec.Close()

	tbl := startPoint(t)
	data, err := codec.Encode(tbl)
	require.NoError(t, err)

	got, err := codec.Decode(data)
	require.NoError(t, err)
	assertSameTable(t, tbl, got)

	// A decoded start point yields no change against the original.
	changes, err := dbassert.ComputeChanges(got, tbl)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestCodec_Errors(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)
	defer codec.Close()

	_, err = codec.Decode(nil)
	assert.EqualError(t, err, "empty snapshot")

	_, err = codec.Decode([]byte("not zstd"))
	assert.ErrorContains(t, err, "failed to decompress")

	bad := table.New("bad", "V")
	require.NoError(t, bad.AddRow(struct{}{}))
	_, err = codec.Encode(bad)
	assert.ErrorContains(t, err, "cannot be stored in a snapshot")
}

func TestFile_Formats(t *testing.T) {
	for _, name := range []string{"start.snap", "start.arrow"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			tbl := startPoint(t)

			require.NoError(t, WriteFile(path, tbl))
			_, err := os.Stat(path)
			require.NoError(t, err)

			got, err := ReadFile(path)
			require.NoError(t, err)
			assertSameTable(t, tbl, got)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.snap"))
	assert.ErrorContains(t, err, "read snapshot")
}
