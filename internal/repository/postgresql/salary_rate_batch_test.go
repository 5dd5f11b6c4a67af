package postgresql

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatchResults struct {
	execErrs []error
	closeErr error
	execs    int
	closed   int
}

func (f *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	var err error
	if f.execs < len(f.execErrs) {
		err = f.execErrs[f.execs]
	}
	f.execs++
	return pgconn.NewCommandTag("INSERT 0 1"), err
}

func (f *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not used") }
func (f *fakeBatchResults) QueryRow() pgx.Row        { return nil }

func (f *fakeBatchResults) Close() error {
	f.closed++
	return f.closeErr
}

var batchRates = []salaryrate.Rate{
	{Year: 2023, Month: 3, BranchID: "1"},
	{Year: 2023, Month: 3, BranchID: "2"},
}

func TestExecUpsertBatch_Success(t *testing.T) {
	br := &fakeBatchResults{}

	require.NoError(t, execUpsertBatch(br, batchRates))
	assert.Equal(t, 2, br.execs)
	assert.Equal(t, 1, br.closed)
}

func TestExecUpsertBatch_CloseError(t *testing.T) {
	closeErr := errors.New("connection reset")
	br := &fakeBatchResults{closeErr: closeErr}

	err := execUpsertBatch(br, batchRates)
	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.Equal(t, 1, br.closed)
}

func TestExecUpsertBatch_ExecErrorStillCloses(t *testing.T) {
	execErr := errors.New("unique violation")
	br := &fakeBatchResults{execErrs: []error{nil, execErr}, closeErr: errors.New("ignored")}

	err := execUpsertBatch(br, batchRates)
	require.Error(t, err)
	assert.ErrorIs(t, err, execErr)
	assert.Contains(t, err.Error(), "branch 2")
	assert.Equal(t, 1, br.closed)
}
