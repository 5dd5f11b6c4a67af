package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/loader"
	salaryRateService "github.com/cmlabs-hris/salary-per-hour/internal/service/salaryrate"
	"github.com/spf13/cobra"
)

type calculateOptions struct {
	employeesPath  string
	timesheetsPath string
	asOf           string
	output         outputOptions
}

func newCalculateCmd() *cobra.Command {
	var opts calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate salary per hour from employee and timesheet files",
		Example: "  salaryrate calculate --employees employees.csv --timesheets timesheets.csv -o salary_per_hour.csv\n" +
			"  salaryrate calculate --employees employees.xlsx --timesheets timesheets.xlsx --as-of 2024-01-31 --format xlsx -o out.xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts, time.Now())
		},
	}

	cmd.Flags().StringVar(&opts.employeesPath, "employees", "", "Employees CSV or XLSX file (required)")
	cmd.Flags().StringVar(&opts.timesheetsPath, "timesheets", "", "Timesheets CSV or XLSX file (required)")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "Reference date for employees without a resign date (default: today)")
	opts.output.bind(cmd)

	_ = cmd.MarkFlagRequired("employees")
	_ = cmd.MarkFlagRequired("timesheets")

	return cmd
}

func runCalculate(cmd *cobra.Command, opts calculateOptions, now time.Time) error {
	asOf, err := parseAsOf(opts.asOf, now)
	if err != nil {
		return err
	}
	if _, err := opts.output.resolveFormat(); err != nil {
		return err
	}

	ds, err := loader.LoadFiles(opts.employeesPath, opts.timesheetsPath)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	svc := salaryRateService.NewSalaryRateService(nil, nil, nil, nil, nil)
	calc, err := svc.Calculate(cmd.Context(), ds.Employees, ds.Timesheets, asOf)
	if err != nil {
		return err
	}

	slog.Info("Calculation finished", "calculation_id", calc.ID, "rates", len(calc.Rates))
	return writeRates(cmd, opts.output, calc.Rates)
}
