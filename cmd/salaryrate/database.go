package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/storage"
	"github.com/cmlabs-hris/salary-per-hour/internal/repository/postgresql"
	salaryRateService "github.com/cmlabs-hris/salary-per-hour/internal/service/salaryrate"
	"github.com/spf13/cobra"
)

func newRecalculateCmd() *cobra.Command {
	var (
		asOf    string
		archive bool
		output  outputOptions
	)

	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recalculate salary per hour from the database and store the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseAsOf(asOf, time.Now())
			if err != nil {
				return err
			}

			cfg, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			var fileStorage storage.FileStorage
			if archive {
				local, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
				if err != nil {
					return err
				}
				fileStorage = local
			}

			svc := salaryRateService.NewSalaryRateService(db,
				postgresql.NewEmployeeRepository(db),
				postgresql.NewTimesheetRepository(db),
				postgresql.NewSalaryRateRepository(db),
				fileStorage,
			)

			calc, err := svc.RecalculateFromDatabase(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if output.path == "" && output.format == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "calculation %s stored %d rates\n", calc.ID, len(calc.Rates))
				return nil
			}
			return writeRates(cmd, output, calc.Rates)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date for employees without a resign date (default: today)")
	cmd.Flags().BoolVar(&archive, "archive", true, "Archive a CSV snapshot under STORAGE_BASE_PATH")
	output.bind(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		year, month, branchID string
		output                outputOptions
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored salary per hour rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := salaryrate.NewRateFilter(year, month, branchID)
			if err != nil {
				return err
			}

			_, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			rates, err := postgresql.NewSalaryRateRepository(db).ListRates(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(rates) == 0 {
				return salaryrate.ErrNoRatesFound
			}
			return writeRates(cmd, output, rates)
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "Only this year")
	cmd.Flags().StringVar(&month, "month", "", "Only this month (1-12)")
	cmd.Flags().StringVar(&branchID, "branch", "", "Only this branch id")
	output.bind(cmd)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the employees, timesheets and salary_per_hour tables if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgresql.EnsureSchema(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
