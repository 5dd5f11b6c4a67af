package salaryrate

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/employee"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsOf = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func newEmployee(id, branch string, salary int64, join string, resign *time.Time) employee.Employee {
	return employee.Employee{
		ID:         id,
		BranchID:   branch,
		Salary:     decimal.NewFromInt(salary),
		JoinDate:   day(join),
		ResignDate: resign,
	}
}

func worked(employeeID, date string, hours float64) timesheet.Entry {
	return timesheet.Entry{EmployeeID: employeeID, Date: day(date), WorkingHours: hours}
}

func TestAggregate_SumsSalaryOncePerEntry(t *testing.T) {
	employees := []employee.Employee{newEmployee("E1", "B1", 3000, "2023-01-01", nil)}
	entries := []timesheet.Entry{
		worked("E1", "2023-03-01", 8),
		worked("E1", "2023-03-02", 8),
	}

	rates, stats := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 1)
	r := rates[0]
	assert.Equal(t, salaryrate.Key{Year: 2023, Month: 3, BranchID: "B1"}, r.Key())
	assert.Equal(t, "6000", r.TotalSalary.String())
	assert.InDelta(t, 16.0, r.TotalHours, 1e-9)
	assert.Equal(t, 2, r.Entries)
	require.True(t, r.SalaryPerHour.Valid)
	assert.Equal(t, "375.00", r.SalaryPerHour.Decimal.StringFixed(2))
	assert.Equal(t, 2, stats.Included)
}

func TestAggregate_ExcludesEntriesBeforeJoinDate(t *testing.T) {
	employees := []employee.Employee{newEmployee("E2", "B1", 4000, "2023-03-10", nil)}
	entries := []timesheet.Entry{
		worked("E2", "2023-03-09", 8),
	}

	rates, stats := Aggregate(employees, entries, testAsOf)

	assert.Empty(t, rates)
	assert.Equal(t, 1, stats.OutOfTenure)
	assert.Zero(t, stats.Included)
}

func TestAggregate_TenureWindowIsInclusive(t *testing.T) {
	employees := []employee.Employee{
		newEmployee("E1", "B1", 1000, "2023-03-01", dayPtr("2023-03-31")),
	}
	entries := []timesheet.Entry{
		worked("E1", "2023-02-28", 8),
		worked("E1", "2023-03-01", 8),
		worked("E1", "2023-03-31", 8),
		worked("E1", "2023-04-01", 8),
	}

	rates, stats := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 1)
	assert.Equal(t, 2, rates[0].Entries)
	assert.Equal(t, 2, stats.OutOfTenure)
	assert.Equal(t, 2, stats.Included)
}

func TestAggregate_OpenEndedTenureUsesAsOf(t *testing.T) {
	employees := []employee.Employee{newEmployee("E1", "B1", 1000, "2023-01-01", nil)}
	entries := []timesheet.Entry{
		worked("E1", "2024-01-15", 8),
		worked("E1", "2024-01-16", 8),
	}

	rates, stats := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 1)
	assert.Equal(t, 1, rates[0].Entries)
	assert.Equal(t, 1, stats.OutOfTenure)
}

func TestAggregate_DropsUnknownEmployees(t *testing.T) {
	employees := []employee.Employee{newEmployee("E1", "B1", 1000, "2023-01-01", nil)}
	entries := []timesheet.Entry{
		worked("E1", "2023-03-01", 8),
		worked("ghost", "2023-03-01", 8),
	}

	rates, stats := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 1)
	assert.Equal(t, 1, rates[0].Entries)
	assert.Equal(t, 1, stats.Unmatched)
}

func TestAggregate_ZeroHoursYieldsNullRate(t *testing.T) {
	employees := []employee.Employee{newEmployee("E1", "B1", 1000, "2023-01-01", nil)}
	entries := []timesheet.Entry{
		worked("E1", "2023-03-01", 0),
	}

	var rates []salaryrate.Rate
	assert.NotPanics(t, func() {
		rates, _ = Aggregate(employees, entries, testAsOf)
	})

	require.Len(t, rates, 1)
	assert.False(t, rates[0].SalaryPerHour.Valid)
	assert.Equal(t, "1000", rates[0].TotalSalary.String())
}

func TestAggregate_GroupsByYearMonthBranchAndSorts(t *testing.T) {
	employees := []employee.Employee{
		newEmployee("E1", "10", 1000, "2022-01-01", nil),
		newEmployee("E2", "9", 2000, "2022-01-01", nil),
		newEmployee("E3", "9", 3000, "2022-01-01", nil),
	}
	entries := []timesheet.Entry{
		worked("E1", "2023-02-01", 8),
		worked("E2", "2023-01-05", 8),
		worked("E3", "2023-01-06", 4),
		worked("E1", "2023-01-07", 10),
		worked("E2", "2022-12-31", 8),
	}

	rates, _ := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 4)
	keys := make([]salaryrate.Key, len(rates))
	for i, r := range rates {
		keys[i] = r.Key()
	}
	assert.Equal(t, []salaryrate.Key{
		{Year: 2022, Month: 12, BranchID: "9"},
		{Year: 2023, Month: 1, BranchID: "9"},
		{Year: 2023, Month: 1, BranchID: "10"},
		{Year: 2023, Month: 2, BranchID: "10"},
	}, keys)

	// branch 9, January: (2000 + 3000) / (8 + 4)
	assert.Equal(t, "416.67", rates[1].SalaryPerHour.Decimal.StringFixed(2))
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	employees := []employee.Employee{newEmployee("E1", "B1", 1000, "2023-01-01", nil)}
	entries := []timesheet.Entry{worked("E1", "2023-03-01", 3)}

	rates, _ := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 1)
	assert.Equal(t, "333.33", rates[0].SalaryPerHour.Decimal.String())
}

func TestAggregate_DuplicateEmployeeRowsEachJoin(t *testing.T) {
	employees := []employee.Employee{
		newEmployee("E1", "B1", 1000, "2023-01-01", nil),
		newEmployee("E1", "B2", 2000, "2023-01-01", nil),
	}
	entries := []timesheet.Entry{worked("E1", "2023-03-01", 8)}

	rates, stats := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 2)
	assert.Equal(t, "B1", rates[0].BranchID)
	assert.Equal(t, "B2", rates[1].BranchID)
	assert.Equal(t, 2, stats.Included)
}

func TestAggregate_EmptyInput(t *testing.T) {
	rates, stats := Aggregate(nil, nil, testAsOf)

	assert.Empty(t, rates)
	assert.Equal(t, AggregateStats{}, stats)
}

func TestRatePerHour(t *testing.T) {
	assert.False(t, RatePerHour(decimal.NewFromInt(100), 0).Valid)

	r := RatePerHour(decimal.NewFromInt(6000), 16)
	require.True(t, r.Valid)
	assert.Equal(t, "375", r.Decimal.String())

	r = RatePerHour(decimal.NewFromInt(100), 0.3)
	require.True(t, r.Valid)
	assert.Equal(t, "333.33", r.Decimal.String())
}

func TestRatePerHour_HalfCentRoundsToEven(t *testing.T) {
	tests := map[int64]string{
		3001: "375.12",
		1:    "0.12",
		1005: "125.62",
		3003: "375.38",
	}
	for salary, want := range tests {
		r := RatePerHour(decimal.NewFromInt(salary), 8)
		require.True(t, r.Valid)
		assert.Equal(t, want, r.Decimal.StringFixed(2), "salary %d over 8 hours", salary)
	}
}

func TestAggregate_OddSalaryOverOneDay(t *testing.T) {
	employees := []employee.Employee{newEmployee("E1", "B1", 3001, "2023-01-01", nil)}
	entries := []timesheet.Entry{worked("E1", "2023-03-01", 8)}

	rates, _ := Aggregate(employees, entries, testAsOf)

	require.Len(t, rates, 1)
	assert.Equal(t, "375.12", rates[0].SalaryPerHour.Decimal.StringFixed(2))
}
