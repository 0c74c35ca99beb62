package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/database"
)

type analyticsRepositoryImpl struct {
	db database.Querier
}

func NewAnalyticsRepository(db database.Querier) analytics.AnalyticsRepository {
	return &analyticsRepositoryImpl{db: db}
}

// filterColumns names the columns the search filters apply to in a query
type filterColumns struct {
	division string
	location string
	client   string
	position string
	state    string
}

var statusFilterColumns = filterColumns{
	division: "s.division",
	location: "s.location_id::text",
	client:   "l.client_id::text",
	position: "s.position_title",
	state:    "s.working_state",
}

var separationFilterColumns = filterColumns{
	division: "sp.division",
	location: "sp.location_id::text",
	client:   "l.client_id::text",
	position: "sp.position_title",
	state:    "sp.working_state",
}

// appendFilters adds one "= ANY" condition per non-empty filter list
func appendFilters(baseWhere string, args []any, cols filterColumns, filter analytics.SearchFilter) (string, []any) {
	add := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		args = append(args, values)
		baseWhere += fmt.Sprintf(" AND %s = ANY($%d)", column, len(args))
	}

	add(cols.division, filter.Divisions)
	add(cols.location, filter.Locations)
	add(cols.client, filter.Clients)
	add(cols.position, filter.Positions)
	add(cols.state, filter.States)
	return baseWhere, args
}

// ListEmployeeStatuses returns the status intervals overlapping the months of the search range
func (r *analyticsRepositoryImpl) ListEmployeeStatuses(ctx context.Context, filter analytics.SearchFilter) ([]analytics.EmployeeStatus, error) {
	args := []any{filter.RangeStart(), filter.RangeEnd()}
	baseWhere := "s.effective_start <= $2 AND (s.effective_end IS NULL OR s.effective_end >= $1)"
	baseWhere, args = appendFilters(baseWhere, args, statusFilterColumns, filter)

	query := fmt.Sprintf(`
		SELECT
			s.id::text,
			s.employee_id::text,
			s.effective_start,
			s.effective_end,
			s.division,
			COALESCE(s.location_id::text, ''),
			COALESCE(l.client_id::text, ''),
			COALESCE(s.position_title, ''),
			COALESCE(s.working_state, '')
		FROM employee_statuses s
		LEFT JOIN locations l ON l.id = s.location_id
		WHERE %s
		ORDER BY s.effective_start, s.id
	`, baseWhere)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee statuses: %w", err)
	}
	defer rows.Close()

	statuses := []analytics.EmployeeStatus{}
	for rows.Next() {
		var s analytics.EmployeeStatus
		if err := rows.Scan(
			&s.ID,
			&s.EmployeeID,
			&s.EffectiveStart,
			&s.EffectiveEnd,
			&s.Division,
			&s.LocationID,
			&s.ClientID,
			&s.PositionTitle,
			&s.WorkingState,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee status: %w", err)
		}
		s.EffectiveStart = analytics.CalendarDate(s.EffectiveStart)
		if s.EffectiveEnd != nil {
			end := analytics.CalendarDate(*s.EffectiveEnd)
			s.EffectiveEnd = &end
		}
		statuses = append(statuses, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return statuses, nil
}

// ListSeparationEvents returns the separations dated inside the months of the search range
func (r *analyticsRepositoryImpl) ListSeparationEvents(ctx context.Context, filter analytics.SearchFilter) ([]analytics.SeparationEvent, error) {
	args := []any{filter.RangeStart(), filter.RangeEnd()}
	baseWhere := "sp.separation_date >= $1 AND sp.separation_date <= $2"
	baseWhere, args = appendFilters(baseWhere, args, separationFilterColumns, filter)

	query := fmt.Sprintf(`
		SELECT
			sp.id::text,
			sp.name,
			sp.separation_date,
			sp.separation_type,
			sp.primary_reason,
			e.full_name,
			sp.position_title,
			l.name,
			c.name,
			sp.working_city,
			sp.working_state,
			sup.full_name,
			sp.eligible_for_rehire,
			sp.not_eligible_for_rehire_note
		FROM separations sp
		JOIN employees e ON e.id = sp.employee_id
		LEFT JOIN employees sup ON sup.id = e.supervisor_id
		LEFT JOIN locations l ON l.id = sp.location_id
		LEFT JOIN clients c ON c.id = l.client_id
		WHERE %s
		ORDER BY sp.separation_date, sp.id
	`, baseWhere)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query separations: %w", err)
	}
	defer rows.Close()

	events := []analytics.SeparationEvent{}
	for rows.Next() {
		var (
			e              analytics.SeparationEvent
			separationType string
		)
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.SeparationDate,
			&separationType,
			&e.PrimaryReason,
			&e.EmployeeName,
			&e.EmployeePosition,
			&e.LocationName,
			&e.ClientName,
			&e.WorkingCity,
			&e.WorkingState,
			&e.SupervisorName,
			&e.EligibleForRehire,
			&e.NotEligibleForRehireNote,
		); err != nil {
			return nil, fmt.Errorf("failed to scan separation: %w", err)
		}
		e.SeparationDate = analytics.CalendarDate(e.SeparationDate)
		e.SeparationType = analytics.SeparationType(separationType)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return events, nil
}

// ListDemographicRecords returns the dimension's records for employees with a
// status matching the filter. Table and column come from the validated
// dimension catalog, never from request input.
func (r *analyticsRepositoryImpl) ListDemographicRecords(ctx context.Context, dimension analytics.Dimension, filter analytics.SearchFilter) ([]analytics.DemographicRecord, error) {
	args := []any{filter.RangeStart(), filter.RangeEnd()}
	baseWhere := "s.effective_start <= $2 AND (s.effective_end IS NULL OR s.effective_end >= $1)"
	baseWhere, args = appendFilters(baseWhere, args, statusFilterColumns, filter)

	query := fmt.Sprintf(`
		SELECT
			d.id::text,
			d.employee_id::text,
			COALESCE(d.%[2]s::text, ''),
			d.changed_at,
			d.snapshot_start,
			d.snapshot_end
		FROM %[1]s d
		WHERE d.employee_id IN (
			SELECT s.employee_id
			FROM employee_statuses s
			LEFT JOIN locations l ON l.id = s.location_id
			WHERE %[3]s
		)
		ORDER BY d.%[2]s NULLS LAST, d.id
	`, dimension.Table, dimension.Column, baseWhere)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", dimension.Name, err)
	}
	defer rows.Close()

	records := []analytics.DemographicRecord{}
	for rows.Next() {
		var (
			rec                                   analytics.DemographicRecord
			changedAt, snapshotStart, snapshotEnd *time.Time
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.EmployeeID,
			&rec.Value,
			&changedAt,
			&snapshotStart,
			&snapshotEnd,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", dimension.Name, err)
		}
		rec.Validity = analytics.ClassifyValidity(changedAt, snapshotStart, snapshotEnd)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// GetFilterOptions lists divisions, locations, clients and position titles
func (r *analyticsRepositoryImpl) GetFilterOptions(ctx context.Context) (analytics.FilterOptions, error) {
	options := analytics.FilterOptions{
		Divisions: []string{},
		Locations: []analytics.LocationOption{},
		Clients:   []analytics.ClientOption{},
		Positions: []string{},
	}

	var err error
	options.Divisions, err = r.listStrings(ctx, `
		SELECT DISTINCT division FROM locations ORDER BY division
	`)
	if err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("failed to get divisions: %w", err)
	}

	options.Positions, err = r.listStrings(ctx, `
		SELECT DISTINCT position_title
		FROM employee_statuses
		WHERE position_title IS NOT NULL AND position_title <> ''
		ORDER BY position_title
	`)
	if err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("failed to get positions: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT l.id::text, l.name, l.division, COALESCE(l.client_id::text, '')
		FROM locations l
		ORDER BY l.division, l.name
	`)
	if err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("failed to get locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var loc analytics.LocationOption
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Division, &loc.ClientID); err != nil {
			return analytics.FilterOptions{}, fmt.Errorf("failed to scan location: %w", err)
		}
		options.Locations = append(options.Locations, loc)
	}
	if err := rows.Err(); err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("rows error: %w", err)
	}

	clientRows, err := r.db.Query(ctx, `
		SELECT c.id::text, c.name FROM clients c ORDER BY c.name
	`)
	if err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("failed to get clients: %w", err)
	}
	defer clientRows.Close()

	for clientRows.Next() {
		var client analytics.ClientOption
		if err := clientRows.Scan(&client.ID, &client.Name); err != nil {
			return analytics.FilterOptions{}, fmt.Errorf("failed to scan client: %w", err)
		}
		options.Clients = append(options.Clients, client)
	}
	if err := clientRows.Err(); err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("rows error: %w", err)
	}

	return options, nil
}

func (r *analyticsRepositoryImpl) listStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
