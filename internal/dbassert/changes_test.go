package dbassert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbcheck/internal/report"
	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

func points(t *testing.T) (start, end *table.Table) {
	t.Helper()
	start = table.New("test", "ID", "VAR1", "VAR2", "VAR3").WithPrimaryKey("ID")
	require.NoError(t, start.AddRow(int64(1), "test1", value.DateOf(2007, 12, 23), []byte{1}))
	require.NoError(t, start.AddRow(int64(2), "test2", value.DateOf(2002, 7, 25), []byte{2}))
	require.NoError(t, start.AddRow(int64(3), "test3", nil, []byte{3}))

	end = table.New("test", "ID", "VAR1", "VAR2", "VAR3").WithPrimaryKey("ID")
	require.NoError(t, end.AddRow(int64(1), "test1", value.DateOf(2007, 12, 23), []byte{1}))
	require.NoError(t, end.AddRow(int64(2), "test2-bis", value.DateOf(2002, 7, 26), []byte{2}))
	require.NoError(t, end.AddRow(int64(4), "test4", nil, nil))
	return start, end
}

func TestComputeChanges_PrimaryKey(t *testing.T) {
	start, end := points(t)

	changes, err := ComputeChanges(start, end)
	require.NoError(t, err)

	want := []Change{
		{Table: "test", Type: Creation, Columns: end.Columns, PrimaryKey: []string{"ID"}, End: end.Rows[2]},
		{Table: "test", Type: Modification, Columns: end.Columns, PrimaryKey: []string{"ID"}, Start: start.Rows[1], End: end.Rows[1]},
		{Table: "test", Type: Deletion, Columns: end.Columns, PrimaryKey: []string{"ID"}, Start: start.Rows[2]},
	}
	if diff := cmp.Diff(want, changes, cmp.AllowUnexported(value.Date{})); diff != "" {
		t.Errorf("ComputeChanges mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"VAR1", "VAR2"}, changes[1].ModifiedColumnNames())
	assert.Equal(t, []int{0, 1, 2, 3}, changes[0].ModifiedColumns())
}

func TestComputeChanges_WithoutPrimaryKey(t *testing.T) {
	start, end := points(t)
	start.PrimaryKey, end.PrimaryKey = nil, nil

	changes, err := ComputeChanges(start, end)
	require.NoError(t, err)

	var types []ChangeType
	for _, c := range changes {
		types = append(types, c.Type)
	}
	assert.Equal(t, []ChangeType{Creation, Creation, Deletion, Deletion}, types)
}

func TestComputeChanges_Errors(t *testing.T) {
	start, end := points(t)

	_, err := ComputeChanges(nil, end)
	assert.Error(t, err)

	other := table.New("test", "ID", "VAR1")
	_, err = ComputeChanges(start, other)
	assert.ErrorContains(t, err, "columns of test differ")

	end.PrimaryKey = []string{"KEY"}
	_, err = ComputeChanges(start, end)
	assert.ErrorContains(t, err, "Column <KEY> does not exist")
}

func TestChangesAssert(t *testing.T) {
	start, end := points(t)
	changes, err := ComputeChanges(start, end)
	require.NoError(t, err)

	a := AssertThatChanges(changes)
	require.NoError(t, a.HasNumberOfChanges(3))
	assert.EqualError(t, a.HasNumberOfChanges(2),
		"[Changes on test table] \nExpecting size (number of changes) to be equal to :\n   <2>\nbut was:\n   <3>")

	require.NoError(t, a.Change().IsCreation())
	require.NoError(t, a.Change().IsModification())
	require.NoError(t, a.Change().IsDeletion())

	err = a.ChangeAt(0).IsDeletion()
	assert.EqualError(t, err, "[Change at index 0 of Changes on test table] \n"+
		"Expecting:\nto be of type\n  <DELETION>\nbut was of type\n  <CREATION>")

	assert.EqualError(t, a.ChangeAt(5).IsCreation(), "Index 5 out of the limits [0, 3[")
	assert.Equal(t, "Changes", AssertThatChanges(nil).Description())
}

func TestChangeAssert_ModifiedColumns(t *testing.T) {
	start, end := points(t)
	changes, err := ComputeChanges(start, end)
	require.NoError(t, err)
	change := AssertThatChanges(changes).ChangeAt(1)

	require.NoError(t, change.HasNumberOfModifiedColumns(2))
	require.NoError(t, change.HasModifiedColumns("var2", "VAR1"))

	err = change.HasModifiedColumns("VAR1")
	assert.EqualError(t, err, "[Change at index 1 of Changes on test table] \n"+
		"Expecting modified columns:\n  <[VAR1]>\nbut was:\n  <[VAR1, VAR2]>")

	err = change.HasNumberOfModifiedColumns(1)
	assert.True(t, report.IsKind(err, report.KindSizeMismatch))

	assert.EqualError(t, change.HasModifiedColumns("VAR9"), "Column <VAR9> does not exist")
}

func TestChangeAssert_Rows(t *testing.T) {
	start, end := points(t)
	changes, err := ComputeChanges(start, end)
	require.NoError(t, err)
	a := AssertThatChanges(changes)

	creation := a.ChangeAt(0)
	require.NoError(t, creation.RowAtStartPoint().DoesNotExist())
	require.NoError(t, creation.RowAtEndPoint().Exists())
	require.NoError(t, creation.RowAtEndPoint().HasValuesEqualTo(4, "test4", nil, nil))

	err = creation.RowAtStartPoint().HasValuesEqualTo(4)
	assert.EqualError(t, err, "[Row at start point of Change at index 0 of Changes on test table] \n"+
		"Expecting exist but do not exist")

	deletion := a.ChangeAt(2)
	require.NoError(t, deletion.RowAtStartPoint().ValueNamed("VAR1").IsEqualTo("test3"))
	assert.EqualError(t, deletion.RowAtStartPoint().DoesNotExist(),
		"[Row at start point of Change at index 2 of Changes on test table] \nExpecting not exist but exist")
	assert.Same(t, deletion, deletion.RowAtStartPoint().ReturnToChange())
}

func TestChangeColumnAssert(t *testing.T) {
	start, end := points(t)
	changes, err := ComputeChanges(start, end)
	require.NoError(t, err)
	change := AssertThatChanges(changes).ChangeAt(1)

	require.NoError(t, change.Column().HasValues(2, 2))
	require.NoError(t, change.Column().HasValues("test2", "test2-bis"))
	require.NoError(t, change.ColumnAt(0).IsNotModified())
	require.NoError(t, change.ColumnNamed("VAR1").IsModified())
	require.NoError(t, change.ColumnNamed("VAR3").IsOfType(value.TagBytes, false))
	require.NoError(t, change.ColumnNamed("VAR2").ValueAtEndPoint().IsAfter("2002-07-25"))

	err = change.ColumnNamed("VAR1").HasValues("test2", "test2")
	assert.EqualError(t, err, "[Column at index 1 (column name : VAR1) of Change at index 1 of Changes on test table] \n"+
		"Expecting that end point:\n  <\"test2-bis\">\nto be equal to: \n  <\"test2\">")

	err = change.ColumnNamed("VAR3").IsModified()
	assert.EqualError(t, err, "[Column at index 3 (column name : VAR3) of Change at index 1 of Changes on test table] \n"+
		"Expecting:\n  <[2]> at start point and <[2]> at end point\nto be modified")

	err = change.ColumnNamed("VAR2").IsNotModified()
	assert.True(t, report.IsKind(err, report.KindModification))

	creation := AssertThatChanges(changes).ChangeAt(0)
	require.NoError(t, creation.ColumnNamed("VAR3").IsOfType(value.TagBytes, true))
	err = creation.ColumnNamed("VAR3").IsOfType(value.TagBytes, false)
	assert.EqualError(t, err, "[Column at index 3 (column name : VAR3) of Change at index 0 of Changes on test table] \n"+
		"Expecting that the value at start point:\n  <null>\nto be of type\n  <BYTES>\nbut was of type\n  <NOT_IDENTIFIED>")

	assert.EqualError(t, change.ColumnNamed("VAR7").IsModified(), "Column <VAR7> does not exist")
}
