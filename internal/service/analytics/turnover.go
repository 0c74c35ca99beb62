package analytics

import (
	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// AverageHeadcount returns (som + eom) / 2, or zero when both are zero.
func AverageHeadcount(som, eom int) decimal.Decimal {
	if som == 0 && eom == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(som + eom)).Div(two)
}

// TurnoverRate returns separations / average headcount as a percentage rounded
// half-up to two decimal places. Zero separations or a zero average give zero.
func TurnoverRate(separations int, average decimal.Decimal) decimal.Decimal {
	if separations == 0 || average.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(separations)).Div(average).Mul(hundred).Round(2)
}

// CalculateTurnover derives averages, attrition and turnover rates for every
// separation row that has a headcount row for the same month.
func CalculateTurnover(headcounts []analytics.HeadcountRow, separations []analytics.SeparationRow) []analytics.TurnoverRow {
	byKey := make(map[string]analytics.HeadcountRow, len(headcounts))
	for _, hc := range headcounts {
		byKey[hc.Period.Key()] = hc
	}

	rows := make([]analytics.TurnoverRow, 0, len(separations))
	for _, sep := range separations {
		hc, ok := byKey[sep.Period.Key()]
		if !ok {
			continue
		}

		average := AverageHeadcount(hc.SOM, hc.EOM)
		rows = append(rows, analytics.TurnoverRow{
			Period:              sep.Period,
			MonthYear:           sep.MonthYear,
			AverageHeadcount:    average,
			TotalAttrition:      sep.Voluntary + sep.Involuntary,
			InvoluntaryTurnover: TurnoverRate(sep.Involuntary, average),
			VoluntaryTurnover:   TurnoverRate(sep.Voluntary, average),
			TotalTurnover:       TurnoverRate(sep.Voluntary+sep.Involuntary, average),
		})
	}
	return rows
}
