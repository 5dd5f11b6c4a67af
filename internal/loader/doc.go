// Package loader reads the employee and timesheet tables from CSV or XLSX
// sources and normalizes them into domain values.
//
// Header names are normalized (trimmed, lower-cased, spaces and dashes
// replaced by underscores) and the legacy employe_id column is renamed to
// employee_id. Check-in and check-out values are passed through raw: an
// unparseable time is not a loader error, it is treated as missing later on.
// Dates, salaries and identifiers are structural and reported as
// validator.ValidationErrors naming the offending row.
package loader
