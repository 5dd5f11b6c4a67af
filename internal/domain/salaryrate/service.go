package salaryrate

import (
	"context"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/employee"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
)

type SalaryRateService interface {
	// Calculate runs imputation and aggregation over in-memory tables.
	Calculate(ctx context.Context, employees []employee.Employee, entries []timesheet.Entry, asOf time.Time) (Calculation, error)

	// RecalculateFromDatabase loads both tables from the datastore, calculates
	// and persists the resulting rates.
	RecalculateFromDatabase(ctx context.Context, asOf time.Time) (Calculation, error)

	// List returns persisted rates matching filter.
	List(ctx context.Context, filter RateFilter) ([]RateResponse, error)

	// ListRates is List without the response mapping, used by exporters.
	ListRates(ctx context.Context, filter RateFilter) ([]Rate, error)
}
