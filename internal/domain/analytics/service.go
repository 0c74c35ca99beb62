package analytics

import "context"

// AnalyticsService defines the interface for workforce analytics reports
type AnalyticsService interface {
	// Monthly headcount, attrition and turnover table
	GenerateAttritionReport(ctx context.Context, req SearchRequest) (AttritionReport, error)

	// Separation events of the selected months
	GetSeparationDrilldown(ctx context.Context, req DrilldownRequest) ([]SeparationDetail, error)

	// Monthly breakdowns for every configured demographic dimension
	GenerateDiversityReport(ctx context.Context, req SearchRequest) (DiversityReport, error)

	// Monthly breakdown for a single demographic dimension
	GenerateBreakdown(ctx context.Context, dimension string, req SearchRequest) (Breakdown, error)

	// Values available for the search inputs
	GetFilterOptions(ctx context.Context) (FilterOptions, error)
}

// ExportService renders reports as CSV and archives them to file storage
type ExportService interface {
	ExportAttrition(ctx context.Context, req SearchRequest) (ExportFile, error)
	ExportBreakdown(ctx context.Context, dimension string, req SearchRequest) (ExportFile, error)
	ArchiveAttrition(ctx context.Context, req SearchRequest) (ArchiveResult, error)
}
