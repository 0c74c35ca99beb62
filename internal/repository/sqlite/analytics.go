package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
)

const dateLayout = "2006-01-02"

type analyticsRepositoryImpl struct {
	db *sql.DB
}

// NewAnalyticsRepository serves the analytics reads from a SQLite database
// migrated with Migrate.
func NewAnalyticsRepository(db *sql.DB) analytics.AnalyticsRepository {
	return &analyticsRepositoryImpl{db: db}
}

type filterColumns struct {
	division string
	location string
	client   string
	position string
	state    string
}

var statusFilterColumns = filterColumns{
	division: "s.division",
	location: "s.location_id",
	client:   "l.client_id",
	position: "s.position_title",
	state:    "s.working_state",
}

var separationFilterColumns = filterColumns{
	division: "sp.division",
	location: "sp.location_id",
	client:   "l.client_id",
	position: "sp.position_title",
	state:    "sp.working_state",
}

func appendFilters(baseWhere string, args []any, cols filterColumns, filter analytics.SearchFilter) (string, []any) {
	add := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		baseWhere += fmt.Sprintf(" AND %s IN (%s)", column, placeholders)
		for _, v := range values {
			args = append(args, v)
		}
	}

	add(cols.division, filter.Divisions)
	add(cols.location, filter.Locations)
	add(cols.client, filter.Clients)
	add(cols.position, filter.Positions)
	add(cols.state, filter.States)
	return baseWhere, args
}

func statusWhere(filter analytics.SearchFilter) (string, []any) {
	args := []any{filter.RangeEnd().Format(dateLayout), filter.RangeStart().Format(dateLayout)}
	baseWhere := "date(s.effective_start) <= ? AND (s.effective_end IS NULL OR date(s.effective_end) >= ?)"
	return appendFilters(baseWhere, args, statusFilterColumns, filter)
}

func (r *analyticsRepositoryImpl) ListEmployeeStatuses(ctx context.Context, filter analytics.SearchFilter) ([]analytics.EmployeeStatus, error) {
	baseWhere, args := statusWhere(filter)

	query := fmt.Sprintf(`
		SELECT
			s.id,
			s.employee_id,
			s.effective_start,
			s.effective_end,
			s.division,
			COALESCE(s.location_id, ''),
			COALESCE(l.client_id, ''),
			COALESCE(s.position_title, ''),
			COALESCE(s.working_state, '')
		FROM employee_statuses s
		LEFT JOIN locations l ON l.id = s.location_id
		WHERE %s
		ORDER BY s.effective_start, s.id
	`, baseWhere)

	rows, err := r.db.QueryContext(ctx, query, args...)
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

func (r *analyticsRepositoryImpl) ListSeparationEvents(ctx context.Context, filter analytics.SearchFilter) ([]analytics.SeparationEvent, error) {
	args := []any{filter.RangeStart().Format(dateLayout), filter.RangeEnd().Format(dateLayout)}
	baseWhere := "date(sp.separation_date) BETWEEN ? AND ?"
	baseWhere, args = appendFilters(baseWhere, args, separationFilterColumns, filter)

	query := fmt.Sprintf(`
		SELECT
			sp.id,
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

	rows, err := r.db.QueryContext(ctx, query, args...)
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

// ListDemographicRecords reads from the dimension's table and column, both
// taken from the validated dimension catalog.
func (r *analyticsRepositoryImpl) ListDemographicRecords(ctx context.Context, dimension analytics.Dimension, filter analytics.SearchFilter) ([]analytics.DemographicRecord, error) {
	baseWhere, args := statusWhere(filter)

	query := fmt.Sprintf(`
		SELECT
			d.id,
			d.employee_id,
			COALESCE(CAST(d.%[2]s AS TEXT), ''),
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

	rows, err := r.db.QueryContext(ctx, query, args...)
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
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Value, &changedAt, &snapshotStart, &snapshotEnd); err != nil {
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

func (r *analyticsRepositoryImpl) GetFilterOptions(ctx context.Context) (analytics.FilterOptions, error) {
	options := analytics.FilterOptions{
		Locations: []analytics.LocationOption{},
		Clients:   []analytics.ClientOption{},
	}

	var err error
	options.Divisions, err = r.listStrings(ctx, `SELECT DISTINCT division FROM locations ORDER BY division`)
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

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, division, COALESCE(client_id, '')
		FROM locations
		ORDER BY division, name
	`)
	if err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("failed to get locations: %w", err)
	}
	for rows.Next() {
		var loc analytics.LocationOption
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Division, &loc.ClientID); err != nil {
			rows.Close()
			return analytics.FilterOptions{}, fmt.Errorf("failed to scan location: %w", err)
		}
		options.Locations = append(options.Locations, loc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return analytics.FilterOptions{}, fmt.Errorf("rows error: %w", err)
	}

	clientRows, err := r.db.QueryContext(ctx, `SELECT id, name FROM clients ORDER BY name`)
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
	rows, err := r.db.QueryContext(ctx, query)
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
