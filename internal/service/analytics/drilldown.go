package analytics

import (
	"sort"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

// DrilldownSeparations returns the events dated inside any of the given
// months, in the order the months were selected. Repeated months are listed once.
func DrilldownSeparations(periods []analytics.Period, events []analytics.SeparationEvent) []analytics.SeparationDetail {
	var details []analytics.SeparationDetail
	seen := make(map[analytics.Period]struct{}, len(periods))
	for _, p := range periods {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		for _, e := range events {
			if !p.Contains(analytics.CalendarDate(e.SeparationDate)) {
				continue
			}
			details = append(details, toSeparationDetail(p, e))
		}
	}
	return details
}

// SortSeparationDetails sorts in place on field; dir is "asc" or "desc".
func SortSeparationDetails(details []analytics.SeparationDetail, field, dir string) {
	if field == "" {
		return
	}
	desc := dir == "desc"
	sort.SliceStable(details, func(i, j int) bool {
		a, b := details[i].SortValue(field), details[j].SortValue(field)
		if desc {
			return a > b
		}
		return a < b
	})
}

func toSeparationDetail(p analytics.Period, e analytics.SeparationEvent) analytics.SeparationDetail {
	return analytics.SeparationDetail{
		ID:                e.ID,
		Name:              e.Name,
		MonthYear:         p.Label(),
		SeparationDate:    analytics.CalendarDate(e.SeparationDate).Format("2006-01-02"),
		SeparationType:    string(e.SeparationType),
		EmployeeName:      e.EmployeeName,
		EmployeePosition:  deref(e.EmployeePosition),
		SeparationReason:  deref(e.PrimaryReason),
		LocationName:      deref(e.LocationName),
		ClientName:        deref(e.ClientName),
		WorkingCity:       deref(e.WorkingCity),
		WorkingState:      deref(e.WorkingState),
		Supervisor:        deref(e.SupervisorName),
		Rehire:            deref(e.EligibleForRehire),
		RehireEligibility: deref(e.NotEligibleForRehireNote),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
