package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/loader"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/storage"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrInvalidTokenType):
		Unauthorized(w, err.Error())
	case errors.Is(err, jwt.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Salary rate errors
	case errors.Is(err, salaryrate.ErrInvalidYear),
		errors.Is(err, salaryrate.ErrInvalidMonth),
		errors.Is(err, salaryrate.ErrInvalidAsOf),
		errors.Is(err, salaryrate.ErrUnsupportedFormat),
		errors.Is(err, salaryrate.ErrMissingInputFile),
		errors.Is(err, loader.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, salaryrate.ErrNoRatesFound):
		NotFound(w, "No salary per hour rates found")

	// Storage errors
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "Invalid file path", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
