package salaryrate

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/employee"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepository struct {
	employees []employee.Employee
	err       error
}

func (f *fakeEmployeeRepository) ListAll(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, f.err
}

type fakeTimesheetRepository struct {
	entries []timesheet.Entry
	err     error
}

func (f *fakeTimesheetRepository) ListAll(ctx context.Context) ([]timesheet.Entry, error) {
	return f.entries, f.err
}

type fakeRateRepository struct {
	calculationID uuid.UUID
	rates         []salaryrate.Rate
	upsertErr     error
}

func (f *fakeRateRepository) UpsertRates(ctx context.Context, calculationID uuid.UUID, rates []salaryrate.Rate) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.calculationID = calculationID
	f.rates = rates
	return nil
}

func (f *fakeRateRepository) ListRates(ctx context.Context, filter salaryrate.RateFilter) ([]salaryrate.Rate, error) {
	var out []salaryrate.Rate
	for _, r := range f.rates {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memoryStorage struct {
	files map[string]string
	err   error
}

func (m *memoryStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if m.files == nil {
		m.files = map[string]string{}
	}
	m.files[path] = string(b)
	return path, nil
}

func (m *memoryStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (m *memoryStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) GetURL(ctx context.Context, path string) (string, error) {
	return "/" + path, nil
}

func (m *memoryStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func str(s string) *string { return &s }

func scenarioA() ([]employee.Employee, []timesheet.Entry) {
	employees := []employee.Employee{newEmployee("E1", "B1", 3000, "2023-01-01", nil)}
	entries := []timesheet.Entry{
		{EmployeeID: "E1", Date: day("2023-03-01"), CheckIn: str("09:00:00"), CheckOut: str("17:00:00")},
		{EmployeeID: "E1", Date: day("2023-03-02"), CheckIn: nil, CheckOut: str("17:00:00")},
	}
	return employees, entries
}

func newTestService(employees []employee.Employee, entries []timesheet.Entry) (*SalaryRateServiceImpl, *fakeRateRepository, *memoryStorage) {
	rates := &fakeRateRepository{}
	archive := &memoryStorage{}
	svc := NewSalaryRateService(nil,
		&fakeEmployeeRepository{employees: employees},
		&fakeTimesheetRepository{entries: entries},
		rates,
		archive,
	).(*SalaryRateServiceImpl)
	svc.now = func() time.Time { return testAsOf }
	return svc, rates, archive
}

func TestCalculate_ImputesMissingCheckInAndSumsSalaryPerEntry(t *testing.T) {
	employees, entries := scenarioA()
	svc, _, _ := newTestService(nil, nil)

	calc, err := svc.Calculate(context.Background(), employees, entries, testAsOf)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, calc.ID)
	assert.Equal(t, testAsOf, calc.AsOf)
	assert.Equal(t, testAsOf, calc.CalculatedAt)

	require.Len(t, calc.Rates, 1)
	r := calc.Rates[0]
	assert.Equal(t, 2023, r.Year)
	assert.Equal(t, 3, r.Month)
	assert.Equal(t, "B1", r.BranchID)
	require.True(t, r.SalaryPerHour.Valid)
	assert.Equal(t, "375.00", r.SalaryPerHour.Decimal.StringFixed(2))

	assert.Equal(t, salaryrate.Stats{
		Employees:        1,
		TimesheetEntries: 2,
		ImputedCheckIns:  1,
		IncludedEntries:  2,
	}, calc.Stats)

	// the caller's slice keeps its raw values
	assert.Nil(t, entries[1].CheckIn)
}

func TestCalculate_CountsDiscardedEntries(t *testing.T) {
	employees := []employee.Employee{newEmployee("E1", "B1", 1000, "2023-03-10", nil)}
	entries := []timesheet.Entry{
		{EmployeeID: "E1", Date: day("2023-03-09"), CheckIn: str("09:00:00"), CheckOut: str("17:00:00")},
		{EmployeeID: "E1", Date: day("2023-03-10"), CheckIn: str("18:00:00"), CheckOut: str("09:00:00")},
		{EmployeeID: "X9", Date: day("2023-03-10"), CheckIn: str("09:00:00"), CheckOut: str("17:00:00")},
		{EmployeeID: "X8", Date: day("2023-03-10"), CheckIn: nil, CheckOut: str("bad")},
	}
	svc, _, _ := newTestService(nil, nil)

	calc, err := svc.Calculate(context.Background(), employees, entries, testAsOf)
	require.NoError(t, err)

	assert.Empty(t, calc.Rates)
	assert.Equal(t, 4, calc.Stats.TimesheetEntries)
	assert.Equal(t, 2, calc.Stats.DroppedEntries)
	assert.Equal(t, 1, calc.Stats.OutOfTenure)
	assert.Equal(t, 1, calc.Stats.UnmatchedEntries)
	assert.Zero(t, calc.Stats.IncludedEntries)
}

func TestCalculate_RequiresAsOf(t *testing.T) {
	svc, _, _ := newTestService(nil, nil)
	_, err := svc.Calculate(context.Background(), nil, nil, time.Time{})
	assert.ErrorIs(t, err, salaryrate.ErrInvalidAsOf)
}

func TestRecalculateFromDatabase(t *testing.T) {
	employees, entries := scenarioA()
	svc, repo, archive := newTestService(employees, entries)

	calc, err := svc.RecalculateFromDatabase(context.Background(), testAsOf)
	require.NoError(t, err)

	assert.Equal(t, calc.ID, repo.calculationID)
	assert.Equal(t, calc.Rates, repo.rates)

	key := ArchivePath(calc)
	assert.True(t, strings.HasPrefix(key, "salary_per_hour/2024/01/"))
	assert.Equal(t, "year,month,branch_id,salary_per_hour\n2023,3,B1,375.00\n", archive.files[key])

	listed, err := svc.List(context.Background(), salaryrate.RateFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "B1", listed[0].BranchID)
}

func TestRecalculateFromDatabase_LoadError(t *testing.T) {
	svc, repo, _ := newTestService(nil, nil)
	svc.TimesheetRepository = &fakeTimesheetRepository{err: errors.New("connection refused")}

	_, err := svc.RecalculateFromDatabase(context.Background(), testAsOf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load timesheets")
	assert.Nil(t, repo.rates)
}

func TestRecalculateFromDatabase_UpsertError(t *testing.T) {
	employees, entries := scenarioA()
	svc, repo, archive := newTestService(employees, entries)
	repo.upsertErr = assert.AnError

	_, err := svc.RecalculateFromDatabase(context.Background(), testAsOf)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, archive.files)
}

func TestRecalculateFromDatabase_ArchiveFailureIsNotFatal(t *testing.T) {
	employees, entries := scenarioA()
	svc, repo, archive := newTestService(employees, entries)
	archive.err = assert.AnError

	calc, err := svc.RecalculateFromDatabase(context.Background(), testAsOf)
	require.NoError(t, err)
	assert.Len(t, calc.Rates, 1)
	assert.Len(t, repo.rates, 1)
}
