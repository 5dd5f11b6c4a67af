package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	employees := filepath.Join(dir, "employees.csv")
	require.NoError(t, os.WriteFile(employees, []byte(
		"employe_id,branch_id,salary,join_date,resign_date\n"+
			"1,1,3000,2023-01-01,\n"+
			"2,1,4000,2023-03-10,\n"), 0o644))

	timesheets := filepath.Join(dir, "timesheets.csv")
	require.NoError(t, os.WriteFile(timesheets, []byte(
		"timesheet_id,employee_id,date,checkin,checkout\n"+
			"1,1,2023-03-01,09:00:00,17:00:00\n"+
			"2,1,2023-03-02,,17:00:00\n"+
			"3,2,2023-03-09,09:00:00,17:00:00\n"), 0o644))

	return employees, timesheets
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalculateCmd_CSVToStdout(t *testing.T) {
	employees, timesheets := writeInputs(t)

	out, err := execute(t, "calculate", "--employees", employees, "--timesheets", timesheets, "--as-of", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "year,month,branch_id,salary_per_hour\n2023,3,1,375.00\n", out)
}

func TestCalculateCmd_XLSXFile(t *testing.T) {
	employees, timesheets := writeInputs(t)
	output := filepath.Join(t.TempDir(), "salary_per_hour.xlsx")

	_, err := execute(t, "calculate", "--employees", employees, "--timesheets", timesheets, "-o", output)
	require.NoError(t, err)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("salary_per_hour")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2023", "3", "1", "375"}, rows[1])
}

func TestCalculateCmd_Errors(t *testing.T) {
	employees, timesheets := writeInputs(t)

	_, err := execute(t, "calculate", "--employees", employees)
	assert.Error(t, err)

	_, err = execute(t, "calculate", "--employees", employees, "--timesheets", timesheets, "--as-of", "soon")
	assert.ErrorContains(t, err, "--as-of")

	_, err = execute(t, "calculate", "--employees", employees, "--timesheets", timesheets, "--format", "pdf")
	assert.Error(t, err)

	_, err = execute(t, "calculate", "--employees", filepath.Join(t.TempDir(), "nope.csv"), "--timesheets", timesheets)
	assert.Error(t, err)
}

func TestOutputOptions_ResolveFormat(t *testing.T) {
	tests := []struct {
		opts outputOptions
		want string
	}{
		{outputOptions{}, "csv"},
		{outputOptions{path: "out.XLSX"}, "xlsx"},
		{outputOptions{path: "out.txt"}, "csv"},
		{outputOptions{path: "out.csv", format: "xlsx"}, "xlsx"},
	}
	for _, tt := range tests {
		got, err := tt.opts.resolveFormat()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
