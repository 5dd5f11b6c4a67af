package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the subset of an employee record needed to attribute salary
// cost to a branch.
type Employee struct {
	ID         string
	BranchID   string
	Salary     decimal.Decimal
	JoinDate   time.Time
	ResignDate *time.Time
}

// ResignedOn returns the upper bound of the tenure window. Employees without
// a resignation date are treated as employed until asOf.
func (e Employee) ResignedOn(asOf time.Time) time.Time {
	if e.ResignDate == nil {
		return asOf
	}
	return *e.ResignDate
}

// EmployedOn reports whether date falls inside join_date <= date <= resign_date.
func (e Employee) EmployedOn(date time.Time, asOf time.Time) bool {
	if date.Before(e.JoinDate) {
		return false
	}
	return !date.After(e.ResignedOn(asOf))
}
