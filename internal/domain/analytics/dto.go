package analytics

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// SEARCH PARAMETERS
// ========================================

// SearchRequest carries the search filters picked by the user.
type SearchRequest struct {
	Title     string   `json:"title"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Divisions []string `json:"divisions"`
	Locations []string `json:"locations"`
	Clients   []string `json:"clients"`
	Positions []string `json:"positions"`
	States    []string `json:"states"`
}

func (r *SearchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	}

	if r.StartDate != "" && r.EndDate != "" {
		startDate, startOK := validator.IsValidDate(r.StartDate)
		if !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}

		endDate, endOK := validator.IsValidDate(r.EndDate)
		if !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}

		if startOK && endOK && startDate.After(endDate) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	for _, state := range r.States {
		if !validator.IsInSlice(strings.ToUpper(state), StateAbbreviations) {
			errs = append(errs, validator.ValidationError{
				Field:   "states",
				Message: "unknown working state " + strconv.Quote(state),
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter converts a validated request into repository filter values.
func (r *SearchRequest) Filter() (SearchFilter, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return SearchFilter{}, err
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return SearchFilter{}, err
	}

	states := make([]string, 0, len(r.States))
	for _, s := range r.States {
		states = append(states, strings.ToUpper(s))
	}

	return SearchFilter{
		StartDate: start,
		EndDate:   end,
		Divisions: r.Divisions,
		Locations: r.Locations,
		Clients:   r.Clients,
		Positions: r.Positions,
		States:    states,
	}, nil
}

// SearchFilter is what the data-access layer filters on. Empty slices mean "any".
type SearchFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Divisions []string
	Locations []string
	Clients   []string
	Positions []string
	States    []string
}

// RangeStart is the first day of the month containing StartDate.
func (f SearchFilter) RangeStart() time.Time {
	return PeriodOf(f.StartDate).FirstDay()
}

// RangeEnd is the last day of the month containing EndDate.
func (f SearchFilter) RangeEnd() time.Time {
	return PeriodOf(f.EndDate).LastDay()
}

// ========================================
// COLUMNS
// ========================================

// Column maps a row field to its display label.
type Column struct {
	Label     string `json:"label"`
	FieldName string `json:"fieldName"`
}

// AttritionColumns is the fixed column set of the attrition table.
var AttritionColumns = []Column{
	{Label: "Month-Year", FieldName: "monthYear"},
	{Label: "SOM", FieldName: "som"},
	{Label: "EOM", FieldName: "eom"},
	{Label: "Avg OM", FieldName: "aom"},
	{Label: "Voluntary Separations", FieldName: "voluntary"},
	{Label: "Involuntary Separations", FieldName: "involuntary"},
	{Label: "Total Separations", FieldName: "totAttrition"},
	{Label: "Involuntary Turnover", FieldName: "involTurn"},
	{Label: "Voluntary Turnover", FieldName: "volTurn"},
	{Label: "Total Turnover", FieldName: "totTurn"},
}

// ========================================
// ATTRITION ROWS
// ========================================

type HeadcountRow struct {
	Period    Period
	MonthYear string
	SOM       int
	EOM       int
}

type SeparationRow struct {
	Period       Period
	MonthYear    string
	Voluntary    int
	Involuntary  int
	Unclassified int // neither voluntary nor involuntary; not part of attrition
}

type TurnoverRow struct {
	Period              Period
	MonthYear           string
	AverageHeadcount    decimal.Decimal
	TotalAttrition      int
	InvoluntaryTurnover decimal.Decimal
	VoluntaryTurnover   decimal.Decimal
	TotalTurnover       decimal.Decimal
}

// PeriodMetricRow is one merged row of the attrition table.
type PeriodMetricRow struct {
	MonthYear           string          `json:"monthYear"`
	SOM                 int             `json:"som"`
	EOM                 int             `json:"eom"`
	AverageHeadcount    decimal.Decimal `json:"aom"`
	Voluntary           int             `json:"voluntary"`
	Involuntary         int             `json:"involuntary"`
	TotalAttrition      int             `json:"totAttrition"`
	InvoluntaryTurnover decimal.Decimal `json:"involTurn"`
	VoluntaryTurnover   decimal.Decimal `json:"volTurn"`
	TotalTurnover       decimal.Decimal `json:"totTurn"`
}

// FieldValue returns the export text of a field named in AttritionColumns.
func (r PeriodMetricRow) FieldValue(field string) string {
	switch field {
	case "monthYear":
		return r.MonthYear
	case "som":
		return strconv.Itoa(r.SOM)
	case "eom":
		return strconv.Itoa(r.EOM)
	case "aom":
		return r.AverageHeadcount.String()
	case "voluntary":
		return strconv.Itoa(r.Voluntary)
	case "involuntary":
		return strconv.Itoa(r.Involuntary)
	case "totAttrition":
		return strconv.Itoa(r.TotalAttrition)
	case "involTurn":
		return r.InvoluntaryTurnover.StringFixed(2)
	case "volTurn":
		return r.VoluntaryTurnover.StringFixed(2)
	case "totTurn":
		return r.TotalTurnover.StringFixed(2)
	}
	return ""
}

type AttritionReport struct {
	Title       string            `json:"title,omitempty"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	GeneratedAt string            `json:"generated_at"`
	Columns     []Column          `json:"columns"`
	Rows        []PeriodMetricRow `json:"rows"`
}

// ========================================
// BREAKDOWN ROWS
// ========================================

// MonthYearField is the row key of the month label. No category may use it.
const MonthYearField = "monthYear"

// BreakdownRow is one month of category counts. It encodes as a flat object:
// {"monthYear": "JAN-2024", "<category>": <count>, ...}.
type BreakdownRow struct {
	MonthYear  string
	Categories []string
	Counts     map[string]int
}

func (r BreakdownRow) FieldValue(field string) string {
	if field == MonthYearField {
		return r.MonthYear
	}
	return strconv.Itoa(r.Counts[field])
}

func (r BreakdownRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"monthYear":`)
	label, err := json.Marshal(r.MonthYear)
	if err != nil {
		return nil, err
	}
	buf.Write(label)
	for _, category := range r.Categories {
		if category == MonthYearField {
			continue
		}
		key, err := json.Marshal(category)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(r.Counts[category]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Breakdown is the per-month category count table of one dimension.
type Breakdown struct {
	Dimension  string         `json:"dimension"`
	Label      string         `json:"label"`
	Categories []string       `json:"categories"`
	Columns    []Column       `json:"columns"`
	Rows       []BreakdownRow `json:"rows"`
}

type DiversityReport struct {
	Title       string      `json:"title,omitempty"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	GeneratedAt string      `json:"generated_at"`
	Breakdowns  []Breakdown `json:"breakdowns"`
}

// ========================================
// SEPARATION DRILLDOWN
// ========================================

type DrilldownRequest struct {
	SearchRequest
	Months  []string `json:"months"`
	SortBy  string   `json:"sort_by"`
	SortDir string   `json:"sort_dir"`
}

func (r *DrilldownRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := r.SearchRequest.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}

	if len(r.Months) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "months",
			Message: "at least one month is required",
		})
	}
	for _, m := range r.Months {
		if _, err := ParsePeriodLabel(m); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "months",
				Message: "months must be in MON-YYYY format",
			})
			break
		}
	}

	if r.SortBy != "" && !validator.IsInSlice(r.SortBy, SeparationSortFields) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "unsupported sort field " + strconv.Quote(r.SortBy),
		})
	}
	if r.SortDir != "" && r.SortDir != "asc" && r.SortDir != "desc" {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_dir",
			Message: "sort_dir must be asc or desc",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SeparationSortFields lists the drilldown fields that can be sorted on.
var SeparationSortFields = []string{
	"name", "separation_date", "separation_type", "employee_name", "employee_position",
	"separation_reason", "location_name", "client_name", "working_city", "working_state",
	"supervisor", "rehire", "rehire_eligibility",
}

// SeparationDetail is one flattened drilldown row.
type SeparationDetail struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	MonthYear         string `json:"month_year"`
	SeparationDate    string `json:"separation_date"`
	SeparationType    string `json:"separation_type"`
	EmployeeName      string `json:"employee_name"`
	EmployeePosition  string `json:"employee_position"`
	SeparationReason  string `json:"separation_reason"`
	LocationName      string `json:"location_name"`
	ClientName        string `json:"client_name"`
	WorkingCity       string `json:"working_city"`
	WorkingState      string `json:"working_state"`
	Supervisor        string `json:"supervisor"`
	Rehire            string `json:"rehire"`
	RehireEligibility string `json:"rehire_eligibility"`
}

// SortValue returns the value compared when sorting on field.
func (d SeparationDetail) SortValue(field string) string {
	switch field {
	case "name":
		return d.Name
	case "separation_date":
		return d.SeparationDate
	case "separation_type":
		return d.SeparationType
	case "employee_name":
		return d.EmployeeName
	case "employee_position":
		return d.EmployeePosition
	case "separation_reason":
		return d.SeparationReason
	case "location_name":
		return d.LocationName
	case "client_name":
		return d.ClientName
	case "working_city":
		return d.WorkingCity
	case "working_state":
		return d.WorkingState
	case "supervisor":
		return d.Supervisor
	case "rehire":
		return d.Rehire
	case "rehire_eligibility":
		return d.RehireEligibility
	}
	return ""
}

// ========================================
// EXPORT
// ========================================

// ExportFile is a rendered CSV document.
type ExportFile struct {
	Filename string
	Content  []byte
}

type ArchiveResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url"`
}
