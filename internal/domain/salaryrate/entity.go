package salaryrate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate is the salary cost per worked hour of one branch in one month.
type Rate struct {
	Year     int
	Month    int
	BranchID string

	// TotalSalary adds the employee salary once per included timesheet
	// entry, not once per employee-month.
	TotalSalary decimal.Decimal
	TotalHours  float64
	Entries     int

	// SalaryPerHour is invalid (null) when TotalHours is zero.
	SalaryPerHour decimal.NullDecimal
}

// Key identifies the group a Rate aggregates.
type Key struct {
	Year     int
	Month    int
	BranchID string
}

func (r Rate) Key() Key {
	return Key{Year: r.Year, Month: r.Month, BranchID: r.BranchID}
}

// Stats counts what each pipeline stage recovered from or discarded.
type Stats struct {
	Employees        int
	TimesheetEntries int
	ImputedCheckIns  int
	ImputedCheckOuts int
	DroppedEntries   int
	UnmatchedEntries int
	OutOfTenure      int
	IncludedEntries  int
}

// Calculation is the result of one pipeline run.
type Calculation struct {
	ID           uuid.UUID
	AsOf         time.Time
	CalculatedAt time.Time
	Rates        []Rate
	Stats        Stats
}
