package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/employee"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/cmlabs-hris/salary-per-hour/internal/exporter"
	"github.com/cmlabs-hris/salary-per-hour/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-per-hour/internal/loader"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/storage"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

type SalaryRateHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Calculate(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	DownloadArchive(w http.ResponseWriter, r *http.Request)
}

type SalaryRateHandlerImpl struct {
	salaryRateService salaryrate.SalaryRateService
	archive           storage.FileStorage
	now               func() time.Time
}

func NewSalaryRateHandler(salaryRateService salaryrate.SalaryRateService, archive storage.FileStorage) SalaryRateHandler {
	return &SalaryRateHandlerImpl{
		salaryRateService: salaryRateService,
		archive:           archive,
		now:               time.Now,
	}
}

// List handles GET /salary-per-hour
func (h *SalaryRateHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := rateFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rates, err := h.salaryRateService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rates, &response.Meta{TotalItems: int64(len(rates))})
}

// Export handles GET /salary-per-hour/export
func (h *SalaryRateHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format := exportFormat(r.URL.Query().Get("format"))
	if _, err := exporter.ContentType(format); err != nil {
		response.HandleError(w, err)
		return
	}

	filter, err := rateFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rates, err := h.salaryRateService.ListRates(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if len(rates) == 0 {
		response.HandleError(w, salaryrate.ErrNoRatesFound)
		return
	}

	writeRates(w, format, rates)
}

// Calculate handles POST /salary-per-hour/calculate. It reads the employees
// and timesheets tables from a multipart upload and returns the computed
// rates without persisting them. With format=csv or format=xlsx the rate
// table is returned as a file instead of JSON.
func (h *SalaryRateHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	asOf := h.now().UTC()
	if raw := r.FormValue("as_of"); raw != "" {
		d, err := validator.ParseDate(raw)
		if err != nil {
			response.HandleError(w, salaryrate.ErrInvalidAsOf)
			return
		}
		asOf = d
	}

	format := r.FormValue("format")
	if format != "" {
		if _, err := exporter.ContentType(format); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	employees, entries, err := readUploadedTables(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	calc, err := h.salaryRateService.Calculate(r.Context(), employees, entries, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if format != "" {
		writeRates(w, format, calc.Rates)
		return
	}
	response.Success(w, salaryrate.NewCalculationResponse(calc))
}

// Recalculate handles POST /salary-per-hour/recalculate
func (h *SalaryRateHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	calc, err := h.salaryRateService.RecalculateFromDatabase(r.Context(), h.now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary per hour recalculated", salaryrate.NewCalculationResponse(calc))
}

// DownloadArchive handles GET /reports/*
func (h *SalaryRateHandlerImpl) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		response.NotFound(w, "Report archive is disabled")
		return
	}

	key := chi.URLParam(r, "*")
	rc, err := h.archive.Download(r.Context(), key)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key[strings.LastIndex(key, "/")+1:]))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream archived report", "path", key, "error", err)
	}
}

func rateFilterFromQuery(r *http.Request) (salaryrate.RateFilter, error) {
	q := r.URL.Query()
	return salaryrate.NewRateFilter(q.Get("year"), q.Get("month"), q.Get("branch_id"))
}

func exportFormat(v string) string {
	if v == "" {
		return "csv"
	}
	return strings.ToLower(v)
}

func writeRates(w http.ResponseWriter, format string, rates []salaryrate.Rate) {
	contentType, err := exporter.ContentType(format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Render before writing headers so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, rates); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "salary_per_hour."+format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write export", "format", format, "error", err)
	}
}

func readUploadedTables(r *http.Request) ([]employee.Employee, []timesheet.Entry, error) {
	employeesFile, employeesHeader, err := r.FormFile("employees")
	if err != nil {
		return nil, nil, salaryrate.ErrMissingInputFile
	}
	defer employeesFile.Close()

	timesheetsFile, timesheetsHeader, err := r.FormFile("timesheets")
	if err != nil {
		return nil, nil, salaryrate.ErrMissingInputFile
	}
	defer timesheetsFile.Close()

	employees, err := loadUploaded(employeesFile, employeesHeader, loader.LoadEmployees)
	if err != nil {
		return nil, nil, err
	}
	entries, err := loadUploaded(timesheetsFile, timesheetsHeader, loader.LoadTimesheets)
	if err != nil {
		return nil, nil, err
	}
	return employees, entries, nil
}

func loadUploaded[T any](f multipart.File, header *multipart.FileHeader, load func(io.Reader, loader.Format) ([]T, error)) ([]T, error) {
	format, err := loader.FormatFromFilename(header.Filename)
	if err != nil {
		return nil, err
	}
	rows, err := load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", header.Filename, err)
	}
	return rows, nil
}
