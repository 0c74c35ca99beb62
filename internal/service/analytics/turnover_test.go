package analytics

import (
	"testing"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageHeadcount(t *testing.T) {
	assert.Equal(t, "9", AverageHeadcount(10, 8).String())
	assert.Equal(t, "4.5", AverageHeadcount(4, 5).String())
	assert.True(t, AverageHeadcount(0, 0).IsZero())
}

func TestTurnoverRate(t *testing.T) {
	tests := []struct {
		name        string
		separations int
		average     decimal.Decimal
		want        string
	}{
		{"one of nine", 1, decimal.NewFromInt(9), "11.11"},
		{"two of nine", 2, decimal.NewFromInt(9), "22.22"},
		{"two of three", 2, decimal.NewFromInt(3), "66.67"},
		{"half up", 1, decimal.NewFromInt(8), "12.50"},
		{"zero separations", 0, decimal.NewFromInt(9), "0.00"},
		{"zero average", 3, decimal.Zero, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TurnoverRate(tt.separations, tt.average).StringFixed(2))
		})
	}
}

func TestCalculateTurnover(t *testing.T) {
	jan := analytics.Period{Year: 2024, Month: 1}
	feb := analytics.Period{Year: 2024, Month: 2}

	headcounts := []analytics.HeadcountRow{
		{Period: jan, MonthYear: jan.Label(), SOM: 10, EOM: 8},
		{Period: feb, MonthYear: feb.Label(), SOM: 0, EOM: 0},
	}
	separations := []analytics.SeparationRow{
		{Period: jan, MonthYear: jan.Label(), Voluntary: 1, Involuntary: 1},
		{Period: feb, MonthYear: feb.Label(), Voluntary: 2},
	}

	rows := CalculateTurnover(headcounts, separations)
	require.Len(t, rows, 2)

	assert.Equal(t, "JAN-2024", rows[0].MonthYear)
	assert.Equal(t, "9", rows[0].AverageHeadcount.String())
	assert.Equal(t, 2, rows[0].TotalAttrition)
	assert.Equal(t, "11.11", rows[0].InvoluntaryTurnover.StringFixed(2))
	assert.Equal(t, "11.11", rows[0].VoluntaryTurnover.StringFixed(2))
	assert.Equal(t, "22.22", rows[0].TotalTurnover.StringFixed(2))

	assert.Equal(t, 2, rows[1].TotalAttrition)
	assert.True(t, rows[1].AverageHeadcount.IsZero())
	assert.True(t, rows[1].TotalTurnover.IsZero())
}

func TestCalculateTurnover_SkipsMonthsWithoutHeadcount(t *testing.T) {
	jan := analytics.Period{Year: 2024, Month: 1}
	separations := []analytics.SeparationRow{
		{Period: jan, MonthYear: jan.Label(), Voluntary: 1},
	}

	rows := CalculateTurnover(nil, separations)
	assert.Empty(t, rows)
}

func TestCalculateTurnover_UnclassifiedNotCounted(t *testing.T) {
	jan := analytics.Period{Year: 2024, Month: 1}
	headcounts := []analytics.HeadcountRow{{Period: jan, MonthYear: jan.Label(), SOM: 4, EOM: 4}}
	separations := []analytics.SeparationRow{{Period: jan, MonthYear: jan.Label(), Voluntary: 1, Unclassified: 3}}

	rows := CalculateTurnover(headcounts, separations)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TotalAttrition)
	assert.Equal(t, "25.00", rows[0].TotalTurnover.StringFixed(2))
}
