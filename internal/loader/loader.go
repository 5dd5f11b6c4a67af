package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/employee"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	EmployeeColumns  = []string{"employee_id", "branch_id", "salary", "join_date"}
	TimesheetColumns = []string{"employee_id", "date", "checkin", "checkout"}
)

// Dataset holds both inputs of one calculation.
type Dataset struct {
	Employees  []employee.Employee
	Timesheets []timesheet.Entry
}

// LoadFiles reads the employee and timesheet files, picking the format of
// each from its extension.
func LoadFiles(employeesPath, timesheetsPath string) (Dataset, error) {
	employees, err := LoadEmployeesFile(employeesPath)
	if err != nil {
		return Dataset{}, err
	}
	entries, err := LoadTimesheetsFile(timesheetsPath)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Employees: employees, Timesheets: entries}, nil
}

func LoadEmployeesFile(path string) ([]employee.Employee, error) {
	t, err := readFile(path)
	if err != nil {
		return nil, err
	}
	employees, err := ParseEmployees(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return employees, nil
}

func LoadTimesheetsFile(path string) ([]timesheet.Entry, error) {
	t, err := readFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := ParseTimesheets(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// LoadEmployees reads an employee table from r.
func LoadEmployees(r io.Reader, format Format) ([]employee.Employee, error) {
	t, err := ReadTable(r, format)
	if err != nil {
		return nil, err
	}
	return ParseEmployees(t)
}

// LoadTimesheets reads a timesheet table from r.
func LoadTimesheets(r io.Reader, format Format) ([]timesheet.Entry, error) {
	t, err := ReadTable(r, format)
	if err != nil {
		return nil, err
	}
	return ParseTimesheets(t)
}

func readFile(path string) (Table, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return Table{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f, format)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// ParseEmployees converts an employee table. Every malformed row is
// reported, not only the first one.
func ParseEmployees(t Table) ([]employee.Employee, error) {
	if err := requireColumns(t, EmployeeColumns); err != nil {
		return nil, err
	}

	var errs validator.ValidationErrors
	employees := make([]employee.Employee, 0, len(t.Rows))

	for i, row := range t.Rows {
		line := i + 2
		e := employee.Employee{
			ID:       t.Cell(row, "employee_id"),
			BranchID: t.Cell(row, "branch_id"),
		}

		if e.ID == "" {
			errs = append(errs, rowError(line, "employee_id", employee.ErrEmployeeIDRequired.Error()))
		}
		if e.BranchID == "" {
			errs = append(errs, rowError(line, "branch_id", "branch_id is required"))
		}

		salary, err := decimal.NewFromString(t.Cell(row, "salary"))
		if err != nil {
			errs = append(errs, rowError(line, "salary", employee.ErrInvalidSalary.Error()))
		}
		e.Salary = salary

		joinDate, err := validator.ParseDate(t.Cell(row, "join_date"))
		if err != nil {
			errs = append(errs, rowError(line, "join_date", employee.ErrInvalidJoinDate.Error()))
		}
		e.JoinDate = joinDate

		if raw := t.Cell(row, "resign_date"); raw != "" {
			resignDate, err := validator.ParseDate(raw)
			if err != nil {
				errs = append(errs, rowError(line, "resign_date", employee.ErrInvalidResignDate.Error()))
			} else {
				e.ResignDate = &resignDate
			}
		}

		employees = append(employees, e)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return employees, nil
}

// ParseTimesheets converts a timesheet table. Check-in and check-out values
// are kept raw; blank cells become nil. Rows without an employee id are
// skipped.
func ParseTimesheets(t Table) ([]timesheet.Entry, error) {
	if err := requireColumns(t, TimesheetColumns); err != nil {
		return nil, err
	}

	var errs validator.ValidationErrors
	entries := make([]timesheet.Entry, 0, len(t.Rows))

	for i, row := range t.Rows {
		line := i + 2
		entry := timesheet.Entry{
			EmployeeID: t.Cell(row, "employee_id"),
			CheckIn:    optional(t.Cell(row, "checkin")),
			CheckOut:   optional(t.Cell(row, "checkout")),
		}

		// no owner to join against
		if entry.EmployeeID == "" {
			continue
		}

		date, err := validator.ParseDate(t.Cell(row, "date"))
		if err != nil {
			errs = append(errs, rowError(line, "date", timesheet.ErrInvalidDate.Error()))
		}
		entry.Date = date

		entries = append(entries, entry)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return entries, nil
}

func requireColumns(t Table, columns []string) error {
	var errs validator.ValidationErrors
	for _, c := range columns {
		if !t.Has(c) {
			errs = append(errs, validator.ValidationError{Field: c, Message: "column is required"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func rowError(line int, column, message string) validator.ValidationError {
	return validator.ValidationError{
		Field:   fmt.Sprintf("row %d.%s", line, column),
		Message: message,
	}
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
