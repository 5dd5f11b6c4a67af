package salaryrate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/employee"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/cmlabs-hris/salary-per-hour/internal/exporter"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/database"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/storage"
	"github.com/cmlabs-hris/salary-per-hour/internal/repository/postgresql"
	"github.com/cmlabs-hris/salary-per-hour/internal/service/attendance"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type SalaryRateServiceImpl struct {
	employee.EmployeeRepository
	timesheet.TimesheetRepository
	salaryrate.SalaryRateRepository

	archive storage.FileStorage
	withTx  func(ctx context.Context, fn func(ctx context.Context) error) error
	now     func() time.Time
}

// NewSalaryRateService wires the calculation pipeline to its data sources.
// db may be nil when nothing is persisted; archive may be nil to skip the
// CSV snapshot of each recalculation.
func NewSalaryRateService(
	db *database.DB,
	employeeRepository employee.EmployeeRepository,
	timesheetRepository timesheet.TimesheetRepository,
	salaryRateRepository salaryrate.SalaryRateRepository,
	archive storage.FileStorage,
) salaryrate.SalaryRateService {
	withTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	if db != nil {
		withTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		}
	}

	return &SalaryRateServiceImpl{
		EmployeeRepository:   employeeRepository,
		TimesheetRepository:  timesheetRepository,
		SalaryRateRepository: salaryRateRepository,
		archive:              archive,
		withTx:               withTx,
		now:                  time.Now,
	}
}

// Calculate implements salaryrate.SalaryRateService.
func (s *SalaryRateServiceImpl) Calculate(ctx context.Context, employees []employee.Employee, entries []timesheet.Entry, asOf time.Time) (salaryrate.Calculation, error) {
	if asOf.IsZero() {
		return salaryrate.Calculation{}, salaryrate.ErrInvalidAsOf
	}

	id, err := uuid.NewV7()
	if err != nil {
		return salaryrate.Calculation{}, fmt.Errorf("failed to generate calculation id: %w", err)
	}

	repaired, imputeStats := attendance.Impute(entries)
	rates, aggregateStats := Aggregate(employees, repaired, asOf)

	calc := salaryrate.Calculation{
		ID:           id,
		AsOf:         asOf,
		CalculatedAt: s.now().UTC(),
		Rates:        rates,
		Stats: salaryrate.Stats{
			Employees:        len(employees),
			TimesheetEntries: imputeStats.Entries,
			ImputedCheckIns:  imputeStats.ImputedCheckIns,
			ImputedCheckOuts: imputeStats.ImputedCheckOuts,
			DroppedEntries:   imputeStats.Dropped,
			UnmatchedEntries: aggregateStats.Unmatched,
			OutOfTenure:      aggregateStats.OutOfTenure,
			IncludedEntries:  aggregateStats.Included,
		},
	}

	slog.InfoContext(ctx, "salary per hour calculated",
		"calculation_id", calc.ID,
		"as_of", asOf.Format(time.DateOnly),
		"rates", len(rates),
		"employees", calc.Stats.Employees,
		"timesheet_entries", calc.Stats.TimesheetEntries,
		"imputed_checkins", calc.Stats.ImputedCheckIns,
		"imputed_checkouts", calc.Stats.ImputedCheckOuts,
		"dropped_entries", calc.Stats.DroppedEntries,
		"unmatched_entries", calc.Stats.UnmatchedEntries,
		"out_of_tenure_entries", calc.Stats.OutOfTenure,
	)

	return calc, nil
}

// RecalculateFromDatabase implements salaryrate.SalaryRateService.
func (s *SalaryRateServiceImpl) RecalculateFromDatabase(ctx context.Context, asOf time.Time) (salaryrate.Calculation, error) {
	var (
		employees []employee.Employee
		entries   []timesheet.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = s.TimesheetRepository.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load timesheets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return salaryrate.Calculation{}, err
	}

	calc, err := s.Calculate(ctx, employees, entries, asOf)
	if err != nil {
		return salaryrate.Calculation{}, err
	}

	err = s.withTx(ctx, func(ctx context.Context) error {
		return s.SalaryRateRepository.UpsertRates(ctx, calc.ID, calc.Rates)
	})
	if err != nil {
		return salaryrate.Calculation{}, fmt.Errorf("failed to persist rates: %w", err)
	}

	if s.archive != nil {
		if key, err := s.archiveCalculation(ctx, calc); err != nil {
			slog.WarnContext(ctx, "failed to archive salary per hour snapshot", "calculation_id", calc.ID, "error", err)
		} else {
			url, _ := s.archive.GetURL(ctx, key)
			slog.InfoContext(ctx, "salary per hour snapshot archived", "calculation_id", calc.ID, "path", key, "url", url)
		}
	}

	return calc, nil
}

// ArchivePath is the storage key of the CSV snapshot of a calculation.
func ArchivePath(calc salaryrate.Calculation) string {
	return fmt.Sprintf("salary_per_hour/%04d/%02d/%s.csv", calc.AsOf.Year(), int(calc.AsOf.Month()), calc.ID)
}

func (s *SalaryRateServiceImpl) archiveCalculation(ctx context.Context, calc salaryrate.Calculation) (string, error) {
	var buf bytes.Buffer
	if err := exporter.WriteCSV(&buf, calc.Rates); err != nil {
		return "", err
	}
	return s.archive.Upload(ctx, &buf, ArchivePath(calc), "text/csv")
}

// List implements salaryrate.SalaryRateService.
func (s *SalaryRateServiceImpl) List(ctx context.Context, filter salaryrate.RateFilter) ([]salaryrate.RateResponse, error) {
	rates, err := s.ListRates(ctx, filter)
	if err != nil {
		return nil, err
	}
	return salaryrate.NewRateResponses(rates), nil
}

// ListRates implements salaryrate.SalaryRateService.
func (s *SalaryRateServiceImpl) ListRates(ctx context.Context, filter salaryrate.RateFilter) ([]salaryrate.Rate, error) {
	rates, err := s.SalaryRateRepository.ListRates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary per hour rates: %w", err)
	}
	return rates, nil
}
