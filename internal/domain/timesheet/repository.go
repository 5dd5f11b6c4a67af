package timesheet

import "context"

// TimesheetRepository reads raw timesheet entries from the datastore.
type TimesheetRepository interface {
	ListAll(ctx context.Context) ([]Entry, error)
}
