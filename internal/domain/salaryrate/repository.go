package salaryrate

import (
	"context"

	"github.com/google/uuid"
)

// SalaryRateRepository persists calculated rates keyed by (year, month, branch_id).
type SalaryRateRepository interface {
	// UpsertRates inserts new rates and overwrites existing rows for the same key.
	UpsertRates(ctx context.Context, calculationID uuid.UUID, rates []Rate) error

	// ListRates returns persisted rates ordered by year, month and branch_id.
	ListRates(ctx context.Context, filter RateFilter) ([]Rate, error)
}
