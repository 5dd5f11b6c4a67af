package salaryrate

import (
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/employee"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// AggregateStats summarizes one Aggregate call.
type AggregateStats struct {
	Included    int
	Unmatched   int
	OutOfTenure int
}

type rateTotals struct {
	salary  decimal.Decimal
	hours   float64
	entries int
}

// Aggregate joins repaired timesheet entries with employees and computes the
// salary per hour of each (year, month, branch). Entries of unknown
// employees and entries outside the employee's tenure window are skipped.
// An employee without a resignation date is considered employed until asOf.
//
// The salary is added once per included entry. A group with zero hours gets
// a null rate. Rates are returned sorted by year, month and branch.
func Aggregate(employees []employee.Employee, entries []timesheet.Entry, asOf time.Time) ([]salaryrate.Rate, AggregateStats) {
	var stats AggregateStats

	byID := make(map[string][]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = append(byID[emp.ID], emp)
	}

	totals := make(map[salaryrate.Key]*rateTotals)
	for _, e := range entries {
		matches, ok := byID[e.EmployeeID]
		if !ok {
			stats.Unmatched++
			continue
		}

		for _, emp := range matches {
			if !emp.EmployedOn(e.Date, asOf) {
				stats.OutOfTenure++
				continue
			}

			key := salaryrate.Key{Year: e.Date.Year(), Month: int(e.Date.Month()), BranchID: emp.BranchID}
			t, ok := totals[key]
			if !ok {
				t = &rateTotals{salary: decimal.Zero}
				totals[key] = t
			}
			t.salary = t.salary.Add(emp.Salary)
			t.hours += e.WorkingHours
			t.entries++
			stats.Included++
		}
	}

	rates := make([]salaryrate.Rate, 0, len(totals))
	for key, t := range totals {
		rates = append(rates, salaryrate.Rate{
			Year:          key.Year,
			Month:         key.Month,
			BranchID:      key.BranchID,
			TotalSalary:   t.salary,
			TotalHours:    t.hours,
			Entries:       t.entries,
			SalaryPerHour: RatePerHour(t.salary, t.hours),
		})
	}
	salaryrate.SortRates(rates)

	return rates, stats
}

// RatePerHour divides salary by hours rounded to two decimals, half to even.
// Zero hours yield an invalid (null) value instead of a division error.
func RatePerHour(salary decimal.Decimal, hours float64) decimal.NullDecimal {
	if hours == 0 {
		return decimal.NullDecimal{}
	}
	rate := salary.Div(decimal.NewFromFloat(hours)).RoundBank(2)
	return decimal.NewNullDecimal(rate)
}
