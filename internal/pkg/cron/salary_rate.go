package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
)

const RecalculateJobName = "recalculate_salary_per_hour"

type SalaryRateJobs struct {
	salaryRateService salaryrate.SalaryRateService
	interval          time.Duration
	now               func() time.Time
}

func NewSalaryRateJobs(salaryRateService salaryrate.SalaryRateService, interval time.Duration) *SalaryRateJobs {
	return &SalaryRateJobs{
		salaryRateService: salaryRateService,
		interval:          interval,
		now:               time.Now,
	}
}

func (j *SalaryRateJobs) RegisterJobs(scheduler *Scheduler) {
	// A run must finish before the next tick is due.
	scheduler.Add(Job{
		Name:     RecalculateJobName,
		Interval: j.interval,
		Fn:       j.Recalculate,
		Timeout:  j.interval,
	})
}

// Recalculate rebuilds the salary_per_hour table from the current employees
// and timesheets.
func (j *SalaryRateJobs) Recalculate(ctx context.Context) error {
	calc, err := j.salaryRateService.RecalculateFromDatabase(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("recalculate salary per hour: %w", err)
	}

	slog.Info("Cron: salary per hour recalculated",
		"calculation_id", calc.ID,
		"rates", len(calc.Rates),
		"included_entries", calc.Stats.IncludedEntries,
	)
	return nil
}
