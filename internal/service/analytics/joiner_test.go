package analytics

import (
	"testing"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jan2024 = analytics.Period{Year: 2024, Month: 1}
	feb2024 = analytics.Period{Year: 2024, Month: 2}
	mar2024 = analytics.Period{Year: 2024, Month: 3}
)

func TestJoinPeriodMetrics(t *testing.T) {
	headcounts := []analytics.HeadcountRow{
		{Period: jan2024, MonthYear: "JAN-2024", SOM: 10, EOM: 8},
		{Period: feb2024, MonthYear: "FEB-2024", SOM: 8, EOM: 8},
		{Period: mar2024, MonthYear: "MAR-2024", SOM: 8, EOM: 6},
	}
	separations := []analytics.SeparationRow{
		{Period: jan2024, MonthYear: "JAN-2024", Voluntary: 1, Involuntary: 1},
		{Period: mar2024, MonthYear: "MAR-2024", Voluntary: 2},
	}
	turnover := []analytics.TurnoverRow{
		{
			Period:              jan2024,
			MonthYear:           "JAN-2024",
			AverageHeadcount:    decimal.NewFromInt(9),
			TotalAttrition:      2,
			InvoluntaryTurnover: decimal.RequireFromString("11.11"),
			VoluntaryTurnover:   decimal.RequireFromString("11.11"),
			TotalTurnover:       decimal.RequireFromString("22.22"),
		},
	}

	rows := JoinPeriodMetrics(headcounts, separations, turnover)
	require.Len(t, rows, 3)

	// Fully joined
	assert.Equal(t, "JAN-2024", rows[0].MonthYear)
	assert.Equal(t, 10, rows[0].SOM)
	assert.Equal(t, 8, rows[0].EOM)
	assert.Equal(t, "9", rows[0].AverageHeadcount.String())
	assert.Equal(t, 1, rows[0].Voluntary)
	assert.Equal(t, 1, rows[0].Involuntary)
	assert.Equal(t, 2, rows[0].TotalAttrition)
	assert.Equal(t, "22.22", rows[0].TotalTurnover.StringFixed(2))

	// No separation row: headcounts only
	assert.Equal(t, "FEB-2024", rows[1].MonthYear)
	assert.Equal(t, 8, rows[1].SOM)
	assert.True(t, rows[1].AverageHeadcount.IsZero())
	assert.Zero(t, rows[1].Voluntary)
	assert.Zero(t, rows[1].TotalAttrition)

	// Separation row without calculation: counts kept, derived fields zero
	assert.Equal(t, "MAR-2024", rows[2].MonthYear)
	assert.Equal(t, 2, rows[2].Voluntary)
	assert.Zero(t, rows[2].TotalAttrition)
	assert.True(t, rows[2].AverageHeadcount.IsZero())
	assert.True(t, rows[2].VoluntaryTurnover.IsZero())
}

func TestJoinPeriodMetrics_NoSeparations(t *testing.T) {
	headcounts := []analytics.HeadcountRow{
		{Period: jan2024, MonthYear: "JAN-2024", SOM: 10, EOM: 8},
		{Period: feb2024, MonthYear: "FEB-2024", SOM: 5, EOM: 4},
	}

	rows := JoinPeriodMetrics(headcounts, nil, nil)
	require.Len(t, rows, 2)

	assert.Equal(t, "9", rows[0].AverageHeadcount.String())
	assert.Equal(t, "4.5", rows[1].AverageHeadcount.String())
	for _, row := range rows {
		assert.Zero(t, row.Voluntary)
		assert.Zero(t, row.Involuntary)
		assert.Zero(t, row.TotalAttrition)
		assert.True(t, row.TotalTurnover.IsZero())
	}
}

func TestJoinPeriodMetrics_FollowsHeadcountOrder(t *testing.T) {
	headcounts := []analytics.HeadcountRow{
		{Period: jan2024, MonthYear: "JAN-2024"},
		{Period: feb2024, MonthYear: "FEB-2024"},
	}
	separations := []analytics.SeparationRow{
		{Period: feb2024, MonthYear: "FEB-2024", Involuntary: 1},
		{Period: jan2024, MonthYear: "JAN-2024", Voluntary: 1},
	}

	rows := JoinPeriodMetrics(headcounts, separations, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, "JAN-2024", rows[0].MonthYear)
	assert.Equal(t, 1, rows[0].Voluntary)
	assert.Equal(t, "FEB-2024", rows[1].MonthYear)
	assert.Equal(t, 1, rows[1].Involuntary)
}
