package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepository{db: db}
}

// ListAll returns raw entries. checkin and checkout are read as text so that
// both TIME and free-form TEXT columns reach the imputer unchanged.
func (r *timesheetRepository) ListAll(ctx context.Context) ([]timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id::text, date, checkin::text, checkout::text
		FROM timesheets
		WHERE employee_id IS NOT NULL
		ORDER BY employee_id, date
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		var e timesheet.Entry
		if err := rows.Scan(&e.EmployeeID, &e.Date, &e.CheckIn, &e.CheckOut); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheets: %w", err)
	}

	return entries, nil
}
