package timesheet

import "time"

// Entry is one attendance record of an employee on a date. CheckIn and
// CheckOut hold the raw source values and may be nil or unparseable.
type Entry struct {
	EmployeeID string
	Date       time.Time
	CheckIn    *string
	CheckOut   *string

	// Set by the imputer
	ImputedCheckIn  string
	ImputedCheckOut string
	WorkingHours    float64
}
