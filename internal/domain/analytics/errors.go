package analytics

import "errors"

var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidPeriodLabel = errors.New("month must be in MON-YYYY format")
	ErrUnknownDimension   = errors.New("unknown demographic dimension")
	ErrNoDataFound        = errors.New("no data found for the specified criteria")
)
