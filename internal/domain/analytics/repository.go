package analytics

import "context"

// AnalyticsRepository defines the interface for workforce analytics data access.
// Every list method returns an empty slice, not an error, when nothing matches.
type AnalyticsRepository interface {
	// Employee status intervals overlapping the date range
	ListEmployeeStatuses(ctx context.Context, filter SearchFilter) ([]EmployeeStatus, error)

	// Separation events dated inside the date range
	ListSeparationEvents(ctx context.Context, filter SearchFilter) ([]SeparationEvent, error)

	// Demographic attribute records of the employees matching the filter
	ListDemographicRecords(ctx context.Context, dimension Dimension, filter SearchFilter) ([]DemographicRecord, error)

	// Values available for the search inputs
	GetFilterOptions(ctx context.Context) (FilterOptions, error)
}
