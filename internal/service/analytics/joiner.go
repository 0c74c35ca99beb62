package analytics

import (
	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

// JoinPeriodMetrics merges the three series by period key, in headcount order.
// A month without a separation row keeps only its headcounts; a month with a
// separation row but no calculation row keeps its separation counts and zeroes
// the derived fields. When no separation rows exist at all, the average is
// taken straight from the headcounts.
func JoinPeriodMetrics(headcounts []analytics.HeadcountRow, separations []analytics.SeparationRow, turnover []analytics.TurnoverRow) []analytics.PeriodMetricRow {
	rows := make([]analytics.PeriodMetricRow, 0, len(headcounts))

	if len(separations) == 0 {
		for _, hc := range headcounts {
			row := zeroMetricRow(hc)
			row.AverageHeadcount = AverageHeadcount(hc.SOM, hc.EOM)
			rows = append(rows, row)
		}
		return rows
	}

	sepByKey := make(map[string]analytics.SeparationRow, len(separations))
	for _, sep := range separations {
		sepByKey[sep.Period.Key()] = sep
	}
	calcByKey := make(map[string]analytics.TurnoverRow, len(turnover))
	for _, calc := range turnover {
		calcByKey[calc.Period.Key()] = calc
	}

	for _, hc := range headcounts {
		row := zeroMetricRow(hc)

		sep, ok := sepByKey[hc.Period.Key()]
		if !ok {
			rows = append(rows, row)
			continue
		}
		row.Voluntary = sep.Voluntary
		row.Involuntary = sep.Involuntary

		if calc, ok := calcByKey[sep.Period.Key()]; ok {
			row.AverageHeadcount = calc.AverageHeadcount
			row.TotalAttrition = calc.TotalAttrition
			row.InvoluntaryTurnover = calc.InvoluntaryTurnover
			row.VoluntaryTurnover = calc.VoluntaryTurnover
			row.TotalTurnover = calc.TotalTurnover
		}
		rows = append(rows, row)
	}
	return rows
}

func zeroMetricRow(hc analytics.HeadcountRow) analytics.PeriodMetricRow {
	return analytics.PeriodMetricRow{
		MonthYear:           hc.MonthYear,
		SOM:                 hc.SOM,
		EOM:                 hc.EOM,
		AverageHeadcount:    decimal.Zero,
		InvoluntaryTurnover: decimal.Zero,
		VoluntaryTurnover:   decimal.Zero,
		TotalTurnover:       decimal.Zero,
	}
}
