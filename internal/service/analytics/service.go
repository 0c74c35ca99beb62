package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	analyticsRepo analytics.AnalyticsRepository
	dimensions    []analytics.Dimension
}

func NewAnalyticsService(analyticsRepo analytics.AnalyticsRepository, dimensions []analytics.Dimension) analytics.AnalyticsService {
	return &AnalyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		dimensions:    dimensions,
	}
}

// GenerateAttritionReport builds the monthly headcount, attrition and turnover table
func (s *AnalyticsServiceImpl) GenerateAttritionReport(ctx context.Context, req analytics.SearchRequest) (analytics.AttritionReport, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return analytics.AttritionReport{}, err
	}

	filter, err := req.Filter()
	if err != nil {
		return analytics.AttritionReport{}, err
	}

	// Fetch both record sets in parallel
	var (
		statuses []analytics.EmployeeStatus
		events   []analytics.SeparationEvent
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		statuses, err = s.analyticsRepo.ListEmployeeStatuses(gCtx, filter)
		if err != nil {
			return fmt.Errorf("failed to get employee statuses: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		events, err = s.analyticsRepo.ListSeparationEvents(gCtx, filter)
		if err != nil {
			return fmt.Errorf("failed to get separation events: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.AttritionReport{}, err
	}

	rows, err := BuildAttritionTable(req.StartDate, req.EndDate, statuses, events)
	if err != nil {
		return analytics.AttritionReport{}, err
	}

	slog.DebugContext(ctx, "Attrition report generated",
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"statuses", len(statuses),
		"separations", len(events),
		"months", len(rows),
	)

	return analytics.AttritionReport{
		Title:       req.Title,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Columns:     analytics.AttritionColumns,
		Rows:        rows,
	}, nil
}

// GetSeparationDrilldown lists the separations of the selected months
func (s *AnalyticsServiceImpl) GetSeparationDrilldown(ctx context.Context, req analytics.DrilldownRequest) ([]analytics.SeparationDetail, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	periods := make([]analytics.Period, 0, len(req.Months))
	for _, m := range req.Months {
		p, err := analytics.ParsePeriodLabel(m)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}

	filter, err := req.Filter()
	if err != nil {
		return nil, err
	}

	events, err := s.analyticsRepo.ListSeparationEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get separation events: %w", err)
	}

	details := DrilldownSeparations(periods, events)
	SortSeparationDetails(details, req.SortBy, req.SortDir)
	if details == nil {
		details = []analytics.SeparationDetail{}
	}
	return details, nil
}

// GenerateDiversityReport builds the breakdown of every configured dimension
func (s *AnalyticsServiceImpl) GenerateDiversityReport(ctx context.Context, req analytics.SearchRequest) (analytics.DiversityReport, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return analytics.DiversityReport{}, err
	}

	filter, err := req.Filter()
	if err != nil {
		return analytics.DiversityReport{}, err
	}

	breakdowns := make([]analytics.Breakdown, len(s.dimensions))
	g, gCtx := errgroup.WithContext(ctx)

	for i, dim := range s.dimensions {
		i, dim := i, dim // per-iteration copies (Go 1.22 loopvar semantics)
		g.Go(func() error {
			b, err := s.buildBreakdown(gCtx, dim, req, filter)
			if err != nil {
				return err
			}
			breakdowns[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return analytics.DiversityReport{}, err
	}

	return analytics.DiversityReport{
		Title:       req.Title,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Breakdowns:  breakdowns,
	}, nil
}

// GenerateBreakdown builds the breakdown of a single dimension
func (s *AnalyticsServiceImpl) GenerateBreakdown(ctx context.Context, dimension string, req analytics.SearchRequest) (analytics.Breakdown, error) {
	dim, ok := s.findDimension(dimension)
	if !ok {
		return analytics.Breakdown{}, fmt.Errorf("%w: %q", analytics.ErrUnknownDimension, dimension)
	}

	// Validate request
	if err := req.Validate(); err != nil {
		return analytics.Breakdown{}, err
	}

	filter, err := req.Filter()
	if err != nil {
		return analytics.Breakdown{}, err
	}

	return s.buildBreakdown(ctx, dim, req, filter)
}

// GetFilterOptions returns the values available for the search inputs
func (s *AnalyticsServiceImpl) GetFilterOptions(ctx context.Context) (analytics.FilterOptions, error) {
	options, err := s.analyticsRepo.GetFilterOptions(ctx)
	if err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("failed to get filter options: %w", err)
	}
	options.States = analytics.StateAbbreviations
	return options, nil
}

func (s *AnalyticsServiceImpl) buildBreakdown(ctx context.Context, dim analytics.Dimension, req analytics.SearchRequest, filter analytics.SearchFilter) (analytics.Breakdown, error) {
	records, err := s.analyticsRepo.ListDemographicRecords(ctx, dim, filter)
	if err != nil {
		return analytics.Breakdown{}, fmt.Errorf("failed to get %s records: %w", dim.Name, err)
	}

	b, err := AggregateBreakdown(records, req.StartDate, req.EndDate)
	if err != nil {
		return analytics.Breakdown{}, err
	}
	b.Dimension = dim.Name
	b.Label = dim.Label
	return b, nil
}

func (s *AnalyticsServiceImpl) findDimension(name string) (analytics.Dimension, bool) {
	for _, dim := range s.dimensions {
		if dim.Name == name {
			return dim, true
		}
	}
	return analytics.Dimension{}, false
}
