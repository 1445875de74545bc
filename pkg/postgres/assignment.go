package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/calvertross/rosterd/pkg/core/availability"
	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// GetScheduleSnapshot loads everything one engine run needs in a single
// repeatable-read transaction: the schedule tree, the organization's active
// profiles, their availability calendars, and the schedule's current
// assignments. A concurrent edit to availability data cannot partially
// apply to the snapshot.
func (d *DB) GetScheduleSnapshot(ctx context.Context, scheduleID string) (*engine.Snapshot, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	schedule, err := loadScheduleTree(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}

	profiles, err := loadActiveProfiles(ctx, tx, schedule.OrganizationID)
	if err != nil {
		return nil, err
	}

	calendars, err := loadCalendars(ctx, tx, schedule.OrganizationID)
	if err != nil {
		return nil, err
	}

	assignments, err := loadScheduleAssignments(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}

	return &engine.Snapshot{
		Schedule:    *schedule,
		Profiles:    profiles,
		Calendars:   calendars,
		Assignments: assignments,
	}, nil
}

// ReplaceEngineAssignments atomically deletes all engine-made assignments
// for the schedule and inserts the replacement set. Manual assignments are
// untouched.
func (d *DB) ReplaceEngineAssignments(ctx context.Context, scheduleID string, assignments []model.Assignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM assignments a
		USING role_slots rs, shift_instances si, schedule_days sd
		WHERE a.role_slot_id = rs.id
		  AND rs.shift_instance_id = si.id
		  AND si.schedule_day_id = sd.id
		  AND sd.schedule_id = $1
		  AND a.source = $2
	`, scheduleID, string(model.SourceEngine))
	if err != nil {
		return fmt.Errorf("failed to clear engine assignments: %w", err)
	}

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignments (id, role_slot_id, profile_id, source, assigned_at)
			VALUES ($1, $2, $3, $4, $5)
		`, a.ID, a.RoleSlotID, a.ProfileID, string(a.Source), a.AssignedAt)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit assignment replacement: %w", err)
	}
	return nil
}

// InsertManualAssignment records an assignment made outside the engine
func (d *DB) InsertManualAssignment(ctx context.Context, scheduleID string, assignment model.Assignment) error {
	assignment.Source = model.SourceManual
	_, err := d.pool.Exec(ctx, `
		INSERT INTO assignments (id, role_slot_id, profile_id, source, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
	`, assignment.ID, assignment.RoleSlotID, assignment.ProfileID, string(assignment.Source), assignment.AssignedAt)
	if err != nil {
		return fmt.Errorf("failed to insert manual assignment: %w", err)
	}
	return nil
}

func loadActiveProfiles(ctx context.Context, q queryer, organizationID string) ([]model.Profile, error) {
	rows, err := q.Query(ctx, `
		SELECT id, organization_id, first_name, last_name, active
		FROM profiles
		WHERE organization_id = $1 AND active
		ORDER BY last_name, first_name
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.FirstName, &p.LastName, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

// loadCalendars loads recurring availability, exceptions and time-off for
// every profile in the organization
func loadCalendars(ctx context.Context, q queryer, organizationID string) (map[string]availability.ProfileCalendar, error) {
	calendars := make(map[string]availability.ProfileCalendar)
	upsert := func(profileID string, fn func(cal *availability.ProfileCalendar)) {
		cal := calendars[profileID]
		fn(&cal)
		calendars[profileID] = cal
	}

	recRows, err := q.Query(ctx, `
		SELECT ar.id, ar.profile_id, ar.weekday, ar.start_minute, ar.end_minute, ar.status
		FROM availability_recurring ar
		JOIN profiles p ON p.id = ar.profile_id
		WHERE p.organization_id = $1
		ORDER BY ar.profile_id, ar.weekday, ar.start_minute
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring availability: %w", err)
	}
	defer recRows.Close()
	for recRows.Next() {
		entry, err := scanRecurring(recRows)
		if err != nil {
			return nil, err
		}
		upsert(entry.ProfileID, func(cal *availability.ProfileCalendar) {
			cal.Recurring = append(cal.Recurring, entry)
		})
	}
	if err := recRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring availability: %w", err)
	}
	recRows.Close()

	exRows, err := q.Query(ctx, `
		SELECT ae.id, ae.profile_id, ae.exception_date, ae.start_minute, ae.end_minute, ae.status, ae.created_at
		FROM availability_exceptions ae
		JOIN profiles p ON p.id = ae.profile_id
		WHERE p.organization_id = $1
		ORDER BY ae.profile_id, ae.exception_date, ae.created_at
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability exceptions: %w", err)
	}
	defer exRows.Close()
	for exRows.Next() {
		var entry model.AvailabilityException
		var date time.Time
		var start, end int
		var status string
		if err := exRows.Scan(&entry.ID, &entry.ProfileID, &date, &start, &end, &status, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan availability exception: %w", err)
		}
		entry.Date = model.DateOf(date)
		entry.Window = model.Window{Start: model.Clock(start), End: model.Clock(end)}
		entry.Status = model.AvailabilityStatus(status)
		upsert(entry.ProfileID, func(cal *availability.ProfileCalendar) {
			cal.Exceptions = append(cal.Exceptions, entry)
		})
	}
	if err := exRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability exceptions: %w", err)
	}
	exRows.Close()

	toRows, err := q.Query(ctx, `
		SELECT t.id, t.profile_id, t.start_date, t.end_date, t.status
		FROM time_off_requests t
		JOIN profiles p ON p.id = t.profile_id
		WHERE p.organization_id = $1
		ORDER BY t.profile_id, t.start_date
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query time off requests: %w", err)
	}
	defer toRows.Close()
	for toRows.Next() {
		var req model.TimeOffRequest
		var start, end time.Time
		var status string
		if err := toRows.Scan(&req.ID, &req.ProfileID, &start, &end, &status); err != nil {
			return nil, fmt.Errorf("failed to scan time off request: %w", err)
		}
		req.StartDate = model.DateOf(start)
		req.EndDate = model.DateOf(end)
		req.Status = model.TimeOffStatus(status)
		upsert(req.ProfileID, func(cal *availability.ProfileCalendar) {
			cal.TimeOff = append(cal.TimeOff, req)
		})
	}
	if err := toRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time off requests: %w", err)
	}

	return calendars, nil
}

func loadScheduleAssignments(ctx context.Context, q queryer, scheduleID string) ([]model.Assignment, error) {
	rows, err := q.Query(ctx, `
		SELECT a.id, a.role_slot_id, a.profile_id, a.source, a.assigned_at
		FROM assignments a
		JOIN role_slots rs ON rs.id = a.role_slot_id
		JOIN shift_instances si ON si.id = rs.shift_instance_id
		JOIN schedule_days sd ON sd.id = si.schedule_day_id
		WHERE sd.schedule_id = $1
		ORDER BY a.assigned_at, a.id
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		var source string
		if err := rows.Scan(&a.ID, &a.RoleSlotID, &a.ProfileID, &source, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Source = model.AssignmentSource(source)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return assignments, nil
}
