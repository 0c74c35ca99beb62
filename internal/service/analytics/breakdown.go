package analytics

import (
	"strings"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

// UnspecifiedCategory is reported for records without a value.
const UnspecifiedCategory = "Not Specified"

// reservedCategory replaces a value that would collide with the month label key.
const reservedCategory = analytics.MonthYearField + " (category)"

// DistinctCategories returns the category values of the whole record set in
// order of first appearance.
func DistinctCategories(records []analytics.DemographicRecord) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, rec := range records {
		value := categoryOf(rec)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		categories = append(categories, value)
	}
	return categories
}

// CountCategories counts the records in effect during the period for each of
// the given categories. Every category gets an entry, zero included.
func CountCategories(records []analytics.DemographicRecord, categories []string, p analytics.Period) map[string]int {
	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c] = 0
	}

	firstDay, lastDay := p.FirstDay(), p.LastDay()
	for _, rec := range records {
		if rec.Validity == nil || !rec.Validity.AppliesTo(firstDay, lastDay) {
			continue
		}
		value := categoryOf(rec)
		if _, ok := counts[value]; ok {
			counts[value]++
		}
	}
	return counts
}

// AggregateBreakdown builds the monthly category count table. The category set
// is discovered once from all records and shared by every month.
func AggregateBreakdown(records []analytics.DemographicRecord, startDate, endDate string) (analytics.Breakdown, error) {
	periods, err := EnumeratePeriods(startDate, endDate)
	if err != nil {
		return analytics.Breakdown{}, err
	}

	categories := DistinctCategories(records)

	columns := make([]analytics.Column, 0, len(categories)+1)
	columns = append(columns, analytics.Column{Label: "Month Year", FieldName: analytics.MonthYearField})
	for _, c := range categories {
		columns = append(columns, analytics.Column{Label: c, FieldName: c})
	}

	rows := make([]analytics.BreakdownRow, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, analytics.BreakdownRow{
			MonthYear:  p.Label(),
			Categories: categories,
			Counts:     CountCategories(records, categories, p),
		})
	}

	return analytics.Breakdown{
		Categories: categories,
		Columns:    columns,
		Rows:       rows,
	}, nil
}

func categoryOf(rec analytics.DemographicRecord) string {
	value := strings.TrimSpace(rec.Value)
	switch value {
	case "":
		return UnspecifiedCategory
	case analytics.MonthYearField:
		return reservedCategory
	}
	return value
}
