package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryRateRepository struct {
	db *database.DB
}

func NewSalaryRateRepository(db *database.DB) salaryrate.SalaryRateRepository {
	return &salaryRateRepository{db: db}
}

func (r *salaryRateRepository) UpsertRates(ctx context.Context, calculationID uuid.UUID, rates []salaryrate.Rate) error {
	if len(rates) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_per_hour (
			year, month, branch_id, salary_per_hour, total_salary, total_hours, entries, calculation_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (year, month, branch_id) DO UPDATE SET
			salary_per_hour = EXCLUDED.salary_per_hour,
			total_salary = EXCLUDED.total_salary,
			total_hours = EXCLUDED.total_hours,
			entries = EXCLUDED.entries,
			calculation_id = EXCLUDED.calculation_id,
			calculated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, rate := range rates {
		batch.Queue(query,
			rate.Year, rate.Month, rate.BranchID, rate.SalaryPerHour,
			rate.TotalSalary, rate.TotalHours, rate.Entries, calculationID.String(),
		)
	}

	return execUpsertBatch(q.SendBatch(ctx, batch), rates)
}

// execUpsertBatch reads one result per queued rate and always closes br.
// A close error is reported when every Exec succeeded.
func execUpsertBatch(br pgx.BatchResults, rates []salaryrate.Rate) error {
	for _, rate := range rates {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to upsert salary per hour %d-%02d branch %s: %w", rate.Year, rate.Month, rate.BranchID, err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close upsert batch: %w", err)
	}
	return nil
}

func (r *salaryRateRepository) ListRates(ctx context.Context, filter salaryrate.RateFilter) ([]salaryrate.Rate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT year, month, branch_id, salary_per_hour, total_salary, total_hours, entries
		FROM salary_per_hour
		WHERE 1 = 1
	`
	args := []any{}
	argIdx := 1

	if filter.Year != nil {
		query += fmt.Sprintf(" AND year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Month != nil {
		query += fmt.Sprintf(" AND month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.BranchID != nil {
		query += fmt.Sprintf(" AND branch_id = $%d", argIdx)
		args = append(args, *filter.BranchID)
	}
	query += " ORDER BY year, month, branch_id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary per hour: %w", err)
	}
	defer rows.Close()

	var rates []salaryrate.Rate
	for rows.Next() {
		var rate salaryrate.Rate
		if err := rows.Scan(
			&rate.Year, &rate.Month, &rate.BranchID, &rate.SalaryPerHour,
			&rate.TotalSalary, &rate.TotalHours, &rate.Entries,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary per hour: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary per hour: %w", err)
	}

	// branch_id is text in the table; reapply numeric-aware ordering
	salaryrate.SortRates(rates)

	return rates, nil
}
