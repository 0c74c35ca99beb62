package analytics

import (
	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

// SeparationCount is the number of separations in a month by type.
type SeparationCount struct {
	Voluntary    int
	Involuntary  int
	Unclassified int
}

// ClassifySeparations counts the events dated inside the period, both
// boundaries included. Events of any other type only add to Unclassified.
func ClassifySeparations(events []analytics.SeparationEvent, p analytics.Period) SeparationCount {
	var count SeparationCount
	for _, e := range events {
		if !p.Contains(analytics.CalendarDate(e.SeparationDate)) {
			continue
		}
		switch e.SeparationType {
		case analytics.SeparationVoluntary:
			count.Voluntary++
		case analytics.SeparationInvoluntary:
			count.Involuntary++
		default:
			count.Unclassified++
		}
	}
	return count
}

// ProcessSeparations returns one separation row per month of the date range.
func ProcessSeparations(startDate, endDate string, events []analytics.SeparationEvent) ([]analytics.SeparationRow, error) {
	periods, err := EnumeratePeriods(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows := make([]analytics.SeparationRow, 0, len(periods))
	for _, p := range periods {
		count := ClassifySeparations(events, p)
		rows = append(rows, analytics.SeparationRow{
			Period:       p,
			MonthYear:    p.Label(),
			Voluntary:    count.Voluntary,
			Involuntary:  count.Involuntary,
			Unclassified: count.Unclassified,
		})
	}
	return rows, nil
}
