package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

type ArchiveJobs struct {
	exportService analytics.ExportService
	now           func() time.Time
}

func NewArchiveJobs(exportService analytics.ExportService) *ArchiveJobs {
	return &ArchiveJobs{
		exportService: exportService,
		now:           time.Now,
	}
}

func (j *ArchiveJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("archive_monthly_attrition", spec, j.ArchivePreviousMonth)
}

// ArchivePreviousMonth stores the attrition report of the last full calendar month
func (j *ArchiveJobs) ArchivePreviousMonth(ctx context.Context) error {
	current := analytics.PeriodOf(j.now())
	previous := analytics.PeriodOf(current.FirstDay().AddDate(0, -1, 0))

	req := analytics.SearchRequest{
		Title:     "Attrition " + previous.Label(),
		StartDate: previous.FirstDay().Format("2006-01-02"),
		EndDate:   previous.LastDay().Format("2006-01-02"),
	}

	slog.Info("Cron: Archiving monthly attrition report", "month", previous.Label())

	result, err := j.exportService.ArchiveAttrition(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to archive attrition for %s: %w", previous.Label(), err)
	}

	slog.Info("Cron: Monthly attrition report archived", "month", previous.Label(), "path", result.Path)
	return nil
}
