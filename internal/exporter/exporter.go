// Package exporter renders rate tables as CSV or XLSX.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/xuri/excelize/v2"
)

const SheetName = "salary_per_hour"

var Header = []string{"year", "month", "branch_id", "salary_per_hour"}

// ContentType returns the MIME type for an export format.
func ContentType(format string) (string, error) {
	switch format {
	case "csv":
		return "text/csv", nil
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
	return "", fmt.Errorf("%w: %q", salaryrate.ErrUnsupportedFormat, format)
}

// Write renders rates in the named format.
func Write(w io.Writer, format string, rates []salaryrate.Rate) error {
	switch format {
	case "csv":
		return WriteCSV(w, rates)
	case "xlsx":
		return WriteXLSX(w, rates)
	}
	return fmt.Errorf("%w: %q", salaryrate.ErrUnsupportedFormat, format)
}

// WriteCSV writes one line per rate. A null rate is an empty cell.
func WriteCSV(w io.Writer, rates []salaryrate.Rate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range rates {
		record := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.BranchID,
			formatRate(r),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the rates to a single sheet workbook.
func WriteXLSX(w io.Writer, rates []salaryrate.Rate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rates {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := []interface{}{r.Year, r.Month, r.BranchID, nil}
		if r.SalaryPerHour.Valid {
			row[3] = r.SalaryPerHour.Decimal.InexactFloat64()
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func formatRate(r salaryrate.Rate) string {
	if !r.SalaryPerHour.Valid {
		return ""
	}
	return r.SalaryPerHour.Decimal.StringFixed(2)
}
