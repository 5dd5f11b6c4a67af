package employee

import "errors"

var (
	ErrInvalidSalary      = errors.New("salary must be a number")
	ErrInvalidJoinDate    = errors.New("join_date must be a valid date")
	ErrInvalidResignDate  = errors.New("resign_date must be a valid date")
	ErrResignBeforeJoin   = errors.New("resign_date must not be before join_date")
	ErrEmployeeIDRequired = errors.New("employee_id is required")
)
