package analytics

import (
	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

// Headcount is the number of active employees at the month boundaries.
type Headcount struct {
	SOM int
	EOM int
}

// CountHeadcount counts the intervals active on the first and on the last day
// of the period. An interval ending exactly on a boundary day is not counted
// for that boundary.
func CountHeadcount(statuses []analytics.EmployeeStatus, p analytics.Period) Headcount {
	firstDay, lastDay := p.FirstDay(), p.LastDay()

	var hc Headcount
	for _, s := range statuses {
		start := analytics.CalendarDate(s.EffectiveStart)
		end := analytics.CalendarDate(s.End())

		if !start.After(firstDay) && end.After(firstDay) {
			hc.SOM++
		}
		if !start.After(lastDay) && end.After(lastDay) {
			hc.EOM++
		}
	}
	return hc
}

// ProcessHeadcounts returns one headcount row per month of the date range.
func ProcessHeadcounts(startDate, endDate string, statuses []analytics.EmployeeStatus) ([]analytics.HeadcountRow, error) {
	periods, err := EnumeratePeriods(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows := make([]analytics.HeadcountRow, 0, len(periods))
	for _, p := range periods {
		hc := CountHeadcount(statuses, p)
		rows = append(rows, analytics.HeadcountRow{
			Period:    p,
			MonthYear: p.Label(),
			SOM:       hc.SOM,
			EOM:       hc.EOM,
		})
	}
	return rows, nil
}
