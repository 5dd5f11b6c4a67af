package salaryrate

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RateFilter narrows persisted rates. Nil fields match everything.
type RateFilter struct {
	Year     *int    `json:"year,omitempty"`
	Month    *int    `json:"month,omitempty"`
	BranchID *string `json:"branch_id,omitempty"`
}

// NewRateFilter builds a filter from raw query parameters. Empty strings are
// treated as absent.
func NewRateFilter(year, month, branchID string) (RateFilter, error) {
	var (
		f    RateFilter
		errs validator.ValidationErrors
	)

	if !validator.IsEmpty(year) {
		y, err := strconv.Atoi(year)
		if err != nil || y <= 0 {
			errs = append(errs, validator.ValidationError{Field: "year", Message: ErrInvalidYear.Error()})
		} else {
			f.Year = &y
		}
	}

	if !validator.IsEmpty(month) {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			errs = append(errs, validator.ValidationError{Field: "month", Message: ErrInvalidMonth.Error()})
		} else {
			f.Month = &m
		}
	}

	if !validator.IsEmpty(branchID) {
		f.BranchID = &branchID
	}

	if len(errs) > 0 {
		return RateFilter{}, errs
	}
	return f, nil
}

// Matches reports whether r satisfies the filter.
func (f RateFilter) Matches(r Rate) bool {
	if f.Year != nil && *f.Year != r.Year {
		return false
	}
	if f.Month != nil && *f.Month != r.Month {
		return false
	}
	if f.BranchID != nil && *f.BranchID != r.BranchID {
		return false
	}
	return true
}

type RateResponse struct {
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	BranchID      string              `json:"branch_id"`
	SalaryPerHour decimal.NullDecimal `json:"salary_per_hour"`
	TotalSalary   decimal.Decimal     `json:"total_salary"`
	TotalHours    float64             `json:"total_hours"`
}

func NewRateResponse(r Rate) RateResponse {
	return RateResponse{
		Year:          r.Year,
		Month:         r.Month,
		BranchID:      r.BranchID,
		SalaryPerHour: r.SalaryPerHour,
		TotalSalary:   r.TotalSalary,
		TotalHours:    r.TotalHours,
	}
}

func NewRateResponses(rates []Rate) []RateResponse {
	out := make([]RateResponse, 0, len(rates))
	for _, r := range rates {
		out = append(out, NewRateResponse(r))
	}
	return out
}

type StatsResponse struct {
	Employees        int `json:"employees"`
	TimesheetEntries int `json:"timesheet_entries"`
	ImputedCheckIns  int `json:"imputed_checkins"`
	ImputedCheckOuts int `json:"imputed_checkouts"`
	DroppedEntries   int `json:"dropped_entries"`
	UnmatchedEntries int `json:"unmatched_entries"`
	OutOfTenure      int `json:"out_of_tenure_entries"`
	IncludedEntries  int `json:"included_entries"`
}

type CalculationResponse struct {
	ID           string         `json:"id"`
	AsOf         string         `json:"as_of"`
	CalculatedAt time.Time      `json:"calculated_at"`
	Rates        []RateResponse `json:"rates"`
	Stats        StatsResponse  `json:"stats"`
}

func NewCalculationResponse(c Calculation) CalculationResponse {
	return CalculationResponse{
		ID:           c.ID.String(),
		AsOf:         c.AsOf.Format(time.DateOnly),
		CalculatedAt: c.CalculatedAt,
		Rates:        NewRateResponses(c.Rates),
		Stats:        StatsResponse(c.Stats),
	}
}
