package analytics

import (
	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

// BuildAttritionTable runs the whole attrition pipeline for one search: monthly
// headcounts, separations when any events were supplied, turnover, and the join.
func BuildAttritionTable(startDate, endDate string, statuses []analytics.EmployeeStatus, events []analytics.SeparationEvent) ([]analytics.PeriodMetricRow, error) {
	headcounts, err := ProcessHeadcounts(startDate, endDate, statuses)
	if err != nil {
		return nil, err
	}

	var (
		separations []analytics.SeparationRow
		turnover    []analytics.TurnoverRow
	)
	if len(events) > 0 {
		separations, err = ProcessSeparations(startDate, endDate, events)
		if err != nil {
			return nil, err
		}
		turnover = CalculateTurnover(headcounts, separations)
	}

	return JoinPeriodMetrics(headcounts, separations, turnover), nil
}
