package salaryrate

import "errors"

var (
	ErrInvalidYear       = errors.New("year must be a positive integer")
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidAsOf       = errors.New("as_of must be a valid date")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrMissingInputFile  = errors.New("both employees and timesheets files are required")
	ErrNoRatesFound      = errors.New("no salary per hour rates found")
)
