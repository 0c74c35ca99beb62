package analytics

import (
	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

// EnumeratePeriods returns every calendar month from startDate's month through
// endDate's month inclusive, earliest first. The end month is always included,
// whatever day of the month endDate falls on.
func EnumeratePeriods(startDate, endDate string) ([]analytics.Period, error) {
	start, err := analytics.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := analytics.ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	last := analytics.PeriodOf(end)
	var periods []analytics.Period
	for current := analytics.PeriodOf(start); !last.Before(current); current = current.Next() {
		periods = append(periods, current)
	}
	return periods, nil
}
