package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")

// columnAliases maps legacy header names to their canonical form.
var columnAliases = map[string]string{
	"employe_id": "employee_id",
}

// FormatFromFilename picks the table format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Table is a header plus data rows, with header names normalized.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

func newTable(records [][]string) Table {
	if len(records) == 0 {
		return Table{index: map[string]int{}}
	}

	header := make([]string, len(records[0]))
	index := make(map[string]int, len(header))
	for i, h := range records[0] {
		header[i] = NormalizeHeader(h)
		if _, dup := index[header[i]]; !dup {
			index[header[i]] = i
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	return Table{Header: header, Rows: rows, index: index}
}

// NormalizeHeader canonicalizes a column name.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	if alias, ok := columnAliases[h]; ok {
		return alias
	}
	return h
}

// Has reports whether the table carries column.
func (t Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Cell returns the trimmed value of column in row, or "" when the row is
// shorter than the header or the column is absent.
func (t Table) Cell(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadTable parses a CSV or the first sheet of an XLSX workbook.
func ReadTable(r io.Reader, format Format) (Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	}
	return Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func readCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return newTable(records), nil
}

func readXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep dates and times as serial numbers instead of locale
	// dependent display strings.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	t := newTable(rows)
	for _, column := range []string{"join_date", "resign_date", "date"} {
		t.convertColumn(column, excelSerialToDate)
	}
	for _, column := range []string{"checkin", "checkout"} {
		t.convertColumn(column, excelFractionToTime)
	}
	return t, nil
}

func (t Table) convertColumn(column string, convert func(string) (string, bool)) {
	i, ok := t.index[column]
	if !ok {
		return
	}
	for _, row := range t.Rows {
		if i >= len(row) {
			continue
		}
		if v, ok := convert(strings.TrimSpace(row[i])); ok {
			row[i] = v
		}
	}
}

// excelSerialToDate turns a spreadsheet date serial into YYYY-MM-DD. Text
// cells are left alone.
func excelSerialToDate(v string) (string, bool) {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// excelFractionToTime turns a fraction of a day into HH:MM:SS.
func excelFractionToTime(v string) (string, bool) {
	frac, err := strconv.ParseFloat(v, 64)
	if err != nil || frac < 0 || frac >= 1 {
		return "", false
	}
	s := int(math.Round(frac * 24 * 60 * 60))
	if s >= 24*60*60 {
		s = 24*60*60 - 1
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60), true
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
