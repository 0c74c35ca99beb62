package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// OpenEndDate stands in for a missing effective end date.
var OpenEndDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

var monthLabels = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// ========================================
// CALENDAR DATES
// ========================================

// ParseDate parses a YYYY-MM-DD string into a calendar date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CalendarDate drops the zone offset and keeps the wall-clock fields,
// so stored dates compare the same regardless of the server timezone.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WallClock keeps the UTC date, hour and minute of t.
func WallClock(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// ========================================
// PERIOD
// ========================================

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Key returns the sortable YYYY-MM key.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label returns the display label, e.g. JAN-2024.
func (p Period) Label() string {
	return fmt.Sprintf("%s-%d", monthLabels[p.Month-1], p.Year)
}

func (p Period) String() string {
	return p.Label()
}

// FirstDay returns the first calendar day of the month.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last calendar day of the month.
func (p Period) LastDay() time.Time {
	return p.FirstDay().AddDate(0, 1, -1)
}

// Next returns the following month.
func (p Period) Next() Period {
	return PeriodOf(p.FirstDay().AddDate(0, 1, 0))
}

// Before reports whether p is an earlier month than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Contains reports whether the calendar date t falls inside the month.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.FirstDay()) && !t.After(p.LastDay())
}

// ParsePeriodLabel parses a MON-YYYY label back into a Period.
func ParsePeriodLabel(label string) (Period, error) {
	parts := strings.Split(strings.TrimSpace(label), "-")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodLabel, label)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodLabel, label)
	}
	for i, m := range monthLabels {
		if strings.EqualFold(m, parts[0]) {
			return Period{Year: year, Month: time.Month(i + 1)}, nil
		}
	}
	return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodLabel, label)
}

// ========================================
// EMPLOYEE STATUS
// ========================================

// EmployeeStatus is one continuous active-employment span of an employee.
type EmployeeStatus struct {
	ID             string
	EmployeeID     string
	EffectiveStart time.Time
	EffectiveEnd   *time.Time // nil while still active
	Division       string
	LocationID     string
	ClientID       string
	PositionTitle  string
	WorkingState   string
}

// End returns the effective end date, or OpenEndDate for open intervals.
func (s EmployeeStatus) End() time.Time {
	if s.EffectiveEnd == nil {
		return OpenEndDate
	}
	return *s.EffectiveEnd
}

// ========================================
// SEPARATION EVENT
// ========================================

type SeparationType string

const (
	SeparationVoluntary   SeparationType = "Voluntary"
	SeparationInvoluntary SeparationType = "Involuntary"
)

// SeparationEvent is one employee termination record.
type SeparationEvent struct {
	ID                       string
	Name                     string
	SeparationDate           time.Time
	SeparationType           SeparationType
	PrimaryReason            *string
	EmployeeName             string
	EmployeePosition         *string
	LocationName             *string
	ClientName               *string
	WorkingCity              *string
	WorkingState             *string
	SupervisorName           *string
	EligibleForRehire        *string
	NotEligibleForRehireNote *string
}

// ========================================
// DEMOGRAPHIC RECORDS
// ========================================

// Validity tells whether a demographic record is in effect for a month,
// given the month's first and last calendar day.
type Validity interface {
	AppliesTo(firstDay, lastDay time.Time) bool
}

// PointInTime is a record whose attribute last changed at ChangedAt.
type PointInTime struct {
	ChangedAt time.Time
}

func (v PointInTime) AppliesTo(_, lastDay time.Time) bool {
	return v.ChangedAt.Before(lastDay)
}

// SnapshotInterval is a record whose attribute was in effect from Start to End.
// A zero End means the record has no end and never applies.
type SnapshotInterval struct {
	Start time.Time
	End   time.Time
}

// AppliesTo counts a snapshot that spans the whole month, or one that starts
// after the first day and ends after the last day. Snapshots contained
// inside the month, or starting exactly on the first day, are not counted.
func (v SnapshotInterval) AppliesTo(firstDay, lastDay time.Time) bool {
	if v.Start.Before(firstDay) && v.End.After(lastDay) {
		return true
	}
	return v.Start.After(firstDay) && v.End.After(lastDay)
}

// ClassifyValidity decides the validity variant of a record once, at ingestion.
// A snapshot start wins over a change timestamp; a snapshot without an end keeps
// a zero End and so never applies. Records with neither timestamp get a nil
// Validity and never apply.
func ClassifyValidity(changedAt, snapshotStart, snapshotEnd *time.Time) Validity {
	if snapshotStart != nil {
		var end time.Time
		if snapshotEnd != nil {
			end = WallClock(*snapshotEnd)
		}
		return SnapshotInterval{Start: WallClock(*snapshotStart), End: end}
	}
	if changedAt != nil {
		return PointInTime{ChangedAt: WallClock(*changedAt)}
	}
	return nil
}

// DemographicRecord is one slowly-changing demographic attribute value.
type DemographicRecord struct {
	ID         string
	EmployeeID string
	Value      string
	Validity   Validity
}

// ========================================
// DIMENSIONS
// ========================================

// Dimension describes where a demographic attribute is stored.
type Dimension struct {
	Name   string `yaml:"name" json:"name"`
	Label  string `yaml:"label" json:"label"`
	Table  string `yaml:"table" json:"-"`
	Column string `yaml:"column" json:"-"`
}

// ========================================
// FILTER OPTIONS
// ========================================

type LocationOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Division string `json:"division"`
	ClientID string `json:"client_id,omitempty"`
}

type ClientOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FilterOptions struct {
	Divisions []string         `json:"divisions"`
	Locations []LocationOption `json:"locations"`
	Clients   []ClientOption   `json:"clients"`
	Positions []string         `json:"positions"`
	States    []string         `json:"states"`
}

// StateAbbreviations lists the working states accepted as filters.
var StateAbbreviations = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID",
	"IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO",
	"MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA",
	"RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}
