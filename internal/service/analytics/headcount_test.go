package analytics

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountHeadcount(t *testing.T) {
	jan := analytics.Period{Year: 2024, Month: 1}

	tests := []struct {
		name   string
		status analytics.EmployeeStatus
		want   Headcount
	}{
		{"open interval before month", status(t, "1", "2023-06-01", ""), Headcount{SOM: 1, EOM: 1}},
		{"starts on first day", status(t, "2", "2024-01-01", ""), Headcount{SOM: 1, EOM: 1}},
		{"starts mid month", status(t, "3", "2024-01-15", ""), Headcount{SOM: 0, EOM: 1}},
		{"starts on last day", status(t, "4", "2024-01-31", ""), Headcount{SOM: 0, EOM: 1}},
		{"ends on first day", status(t, "5", "2023-06-01", "2024-01-01"), Headcount{SOM: 0, EOM: 0}},
		{"ends mid month", status(t, "6", "2023-06-01", "2024-01-20"), Headcount{SOM: 1, EOM: 0}},
		{"ends on last day", status(t, "7", "2023-06-01", "2024-01-31"), Headcount{SOM: 1, EOM: 0}},
		{"ends after month", status(t, "8", "2023-06-01", "2024-02-01"), Headcount{SOM: 1, EOM: 1}},
		{"starts after month", status(t, "9", "2024-02-01", ""), Headcount{SOM: 0, EOM: 0}},
		{"ended before month", status(t, "10", "2023-01-01", "2023-12-15"), Headcount{SOM: 0, EOM: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountHeadcount([]analytics.EmployeeStatus{tt.status}, jan)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessHeadcounts_BoundaryInterval(t *testing.T) {
	statuses := []analytics.EmployeeStatus{
		status(t, "1", "2024-01-01", "2024-02-01"),
	}

	rows, err := ProcessHeadcounts("2024-01-01", "2024-02-29", statuses)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "JAN-2024", rows[0].MonthYear)
	assert.Equal(t, 1, rows[0].SOM)
	assert.Equal(t, 1, rows[0].EOM)

	assert.Equal(t, "FEB-2024", rows[1].MonthYear)
	assert.Equal(t, 0, rows[1].SOM)
	assert.Equal(t, 0, rows[1].EOM)
}

func TestProcessHeadcounts_NoStatuses(t *testing.T) {
	rows, err := ProcessHeadcounts("2024-01-01", "2024-03-31", nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Zero(t, row.SOM)
		assert.Zero(t, row.EOM)
	}
}

func TestCountHeadcount_IgnoresTimeOfDay(t *testing.T) {
	s := status(t, "1", "2023-06-01", "")
	end := mustDate(t, "2024-01-31").Add(23 * time.Hour)
	s.EffectiveEnd = &end

	got := CountHeadcount([]analytics.EmployeeStatus{s}, analytics.Period{Year: 2024, Month: 1})
	assert.Equal(t, Headcount{SOM: 1, EOM: 0}, got)
}
