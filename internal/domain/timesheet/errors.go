package timesheet

import "errors"

var ErrInvalidDate = errors.New("date must be a valid date")
