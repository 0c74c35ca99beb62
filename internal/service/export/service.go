package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/csvexport"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const csvContentType = "text/csv"

type ExportServiceImpl struct {
	analyticsService analytics.AnalyticsService
	fileStorage      storage.FileStorage
}

func NewExportService(analyticsService analytics.AnalyticsService, fileStorage storage.FileStorage) analytics.ExportService {
	return &ExportServiceImpl{
		analyticsService: analyticsService,
		fileStorage:      fileStorage,
	}
}

// ExportAttrition renders the attrition table as CSV
func (s *ExportServiceImpl) ExportAttrition(ctx context.Context, req analytics.SearchRequest) (analytics.ExportFile, error) {
	report, err := s.analyticsService.GenerateAttritionReport(ctx, req)
	if err != nil {
		return analytics.ExportFile{}, err
	}

	records := make([]csvexport.Record, 0, len(report.Rows))
	for _, row := range report.Rows {
		records = append(records, row)
	}

	content, err := render(report.Columns, records)
	if err != nil {
		return analytics.ExportFile{}, err
	}

	return analytics.ExportFile{
		Filename: csvexport.Filename(req.Title),
		Content:  content,
	}, nil
}

// ExportBreakdown renders one demographic breakdown as CSV
func (s *ExportServiceImpl) ExportBreakdown(ctx context.Context, dimension string, req analytics.SearchRequest) (analytics.ExportFile, error) {
	breakdown, err := s.analyticsService.GenerateBreakdown(ctx, dimension, req)
	if err != nil {
		return analytics.ExportFile{}, err
	}

	// A breakdown without any category has nothing but month labels
	if len(breakdown.Categories) == 0 {
		return analytics.ExportFile{}, analytics.ErrNoDataFound
	}

	records := make([]csvexport.Record, 0, len(breakdown.Rows))
	for _, row := range breakdown.Rows {
		records = append(records, row)
	}

	content, err := render(breakdown.Columns, records)
	if err != nil {
		return analytics.ExportFile{}, err
	}

	title := req.Title
	if title == "" {
		title = breakdown.Label
	}
	return analytics.ExportFile{
		Filename: csvexport.Filename(title),
		Content:  content,
	}, nil
}

// ArchiveAttrition renders the attrition CSV and stores it under
// exports/attrition/<start month>/
func (s *ExportServiceImpl) ArchiveAttrition(ctx context.Context, req analytics.SearchRequest) (analytics.ArchiveResult, error) {
	file, err := s.ExportAttrition(ctx, req)
	if err != nil {
		return analytics.ArchiveResult{}, err
	}

	start, err := analytics.ParseDate(req.StartDate)
	if err != nil {
		return analytics.ArchiveResult{}, err
	}

	// Generate unique key
	name := strings.TrimSuffix(file.Filename, ".csv")
	key := path.Join("exports", "attrition", analytics.PeriodOf(start).Key(),
		fmt.Sprintf("%s-%s.csv", slug(name), uuid.New().String()))

	storedPath, err := s.fileStorage.Upload(ctx, bytes.NewReader(file.Content), key, csvContentType)
	if err != nil {
		return analytics.ArchiveResult{}, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.fileStorage.GetURL(ctx, storedPath)
	if err != nil {
		return analytics.ArchiveResult{}, fmt.Errorf("failed to get export url: %w", err)
	}

	slog.InfoContext(ctx, "Attrition export archived",
		"path", storedPath,
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"bytes", len(file.Content),
	)

	return analytics.ArchiveResult{
		Filename: file.Filename,
		Path:     storedPath,
		URL:      url,
	}, nil
}

func render(columns []analytics.Column, records []csvexport.Record) ([]byte, error) {
	cols := make([]csvexport.Column, len(columns))
	for i, c := range columns {
		cols[i] = csvexport.Column{Label: c.Label, FieldName: c.FieldName}
	}

	content, err := csvexport.Render(cols, records)
	if errors.Is(err, csvexport.ErrNoData) {
		return nil, analytics.ErrNoDataFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}
	return content, nil
}

// slug lowercases s and keeps letters, digits and dashes
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "export"
	}
	return out
}
