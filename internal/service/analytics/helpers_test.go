package analytics

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := analytics.ParseDate(value)
	require.NoError(t, err)
	return d
}

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	d := mustDate(t, value)
	return &d
}

func status(t *testing.T, id, start, end string) analytics.EmployeeStatus {
	t.Helper()
	s := analytics.EmployeeStatus{
		ID:             id,
		EmployeeID:     "emp-" + id,
		EffectiveStart: mustDate(t, start),
	}
	if end != "" {
		s.EffectiveEnd = datePtr(t, end)
	}
	return s
}

func separation(t *testing.T, id, date string, typ analytics.SeparationType) analytics.SeparationEvent {
	t.Helper()
	return analytics.SeparationEvent{
		ID:             id,
		Name:           "SEP-" + id,
		SeparationDate: mustDate(t, date),
		SeparationType: typ,
		EmployeeName:   "Employee " + id,
	}
}

func strPtr(s string) *string {
	return &s
}
