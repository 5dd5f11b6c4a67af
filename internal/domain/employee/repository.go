package employee

import "context"

// EmployeeRepository reads employee records from the datastore.
type EmployeeRepository interface {
	// ListAll returns every employee, including resigned ones. Tenure
	// filtering happens in the aggregator, not in the query.
	ListAll(ctx context.Context) ([]Employee, error)
}
