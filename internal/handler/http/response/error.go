package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Malformed input
	case errors.Is(err, analytics.ErrInvalidDateFormat),
		errors.Is(err, analytics.ErrInvalidPeriodLabel):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, analytics.ErrUnknownDimension):
		NotFound(w, err.Error())
	case errors.Is(err, analytics.ErrNoDataFound):
		NotFound(w, "No data found")

	default:
		slog.Error("unhandled request error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
