package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/calvertross/rosterd/pkg/core/model"
)

// queryer abstracts the pool and a transaction so tree loads can run inside
// either
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InsertSchedule persists a schedule and its full day/shift/slot tree in one
// transaction
func (d *DB) InsertSchedule(ctx context.Context, schedule *model.Schedule) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedules (id, organization_id, week_start, status)
		VALUES ($1, $2, $3, $4)
	`, schedule.ID, schedule.OrganizationID, schedule.WeekStart.Time(), string(schedule.Status))
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	for _, day := range schedule.Days {
		_, err = tx.Exec(ctx, `
			INSERT INTO schedule_days (id, schedule_id, day_date)
			VALUES ($1, $2, $3)
		`, day.ID, day.ScheduleID, day.Date.Time())
		if err != nil {
			return fmt.Errorf("failed to insert schedule day: %w", err)
		}

		for _, inst := range day.Shifts {
			_, err = tx.Exec(ctx, `
				INSERT INTO shift_instances (id, schedule_day_id, start_minute, end_minute)
				VALUES ($1, $2, $3, $4)
			`, inst.ID, inst.ScheduleDayID, int(inst.Window.Start), int(inst.Window.End))
			if err != nil {
				return fmt.Errorf("failed to insert shift instance: %w", err)
			}

			for _, slot := range inst.Slots {
				_, err = tx.Exec(ctx, `
					INSERT INTO role_slots (id, shift_instance_id, role_id, required_count)
					VALUES ($1, $2, $3, $4)
				`, slot.ID, slot.ShiftInstanceID, slot.RoleID, slot.RequiredCount)
				if err != nil {
					return fmt.Errorf("failed to insert role slot: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schedule insert: %w", err)
	}
	return nil
}

// GetSchedule retrieves a schedule with its full tree
func (d *DB) GetSchedule(ctx context.Context, scheduleID string) (*model.Schedule, error) {
	return loadScheduleTree(ctx, d.pool, scheduleID)
}

// SetScheduleStatus transitions a schedule's status with a compare-and-set.
// Returns ErrInvalidState when the schedule is not currently in `from`.
func (d *DB) SetScheduleStatus(ctx context.Context, scheduleID string, from, to model.ScheduleStatus) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE schedules SET status = $1 WHERE id = $2 AND status = $3
	`, string(to), scheduleID, string(from))
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or not in the expected state
		var current string
		err := d.pool.QueryRow(ctx, `SELECT status FROM schedules WHERE id = $1`, scheduleID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("schedule %s: %w", scheduleID, model.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to query schedule status: %w", err)
		}
		return fmt.Errorf("schedule %s is %q, expected %q: %w", scheduleID, current, from, model.ErrInvalidState)
	}
	return nil
}

// loadScheduleTree loads a schedule with its days, shift instances and role
// slots (role names included) using the given queryer
func loadScheduleTree(ctx context.Context, q queryer, scheduleID string) (*model.Schedule, error) {
	var schedule model.Schedule
	var weekStart time.Time
	var status string
	err := q.QueryRow(ctx, `
		SELECT id, organization_id, week_start, status
		FROM schedules
		WHERE id = $1
	`, scheduleID).Scan(&schedule.ID, &schedule.OrganizationID, &weekStart, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	schedule.WeekStart = model.DateOf(weekStart)
	schedule.Status = model.ScheduleStatus(status)

	dayRows, err := q.Query(ctx, `
		SELECT id, schedule_id, day_date
		FROM schedule_days
		WHERE schedule_id = $1
		ORDER BY day_date
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule days: %w", err)
	}
	defer dayRows.Close()

	dayIndex := make(map[string]int)
	for dayRows.Next() {
		var day model.ScheduleDay
		var date time.Time
		if err := dayRows.Scan(&day.ID, &day.ScheduleID, &date); err != nil {
			return nil, fmt.Errorf("failed to scan schedule day: %w", err)
		}
		day.Date = model.DateOf(date)
		dayIndex[day.ID] = len(schedule.Days)
		schedule.Days = append(schedule.Days, day)
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule days: %w", err)
	}
	dayRows.Close()

	instRows, err := q.Query(ctx, `
		SELECT si.id, si.schedule_day_id, si.start_minute, si.end_minute
		FROM shift_instances si
		JOIN schedule_days sd ON sd.id = si.schedule_day_id
		WHERE sd.schedule_id = $1
		ORDER BY si.start_minute, si.id
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift instances: %w", err)
	}
	defer instRows.Close()

	instDay := make(map[string]int)
	instIndex := make(map[string]int)
	for instRows.Next() {
		var inst model.ShiftInstance
		var start, end int
		if err := instRows.Scan(&inst.ID, &inst.ScheduleDayID, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan shift instance: %w", err)
		}
		inst.Window = model.Window{Start: model.Clock(start), End: model.Clock(end)}

		di, ok := dayIndex[inst.ScheduleDayID]
		if !ok {
			return nil, fmt.Errorf("shift instance %s references unknown schedule day %s", inst.ID, inst.ScheduleDayID)
		}
		inst.Date = schedule.Days[di].Date
		instDay[inst.ID] = di
		instIndex[inst.ID] = len(schedule.Days[di].Shifts)
		schedule.Days[di].Shifts = append(schedule.Days[di].Shifts, inst)
	}
	if err := instRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift instances: %w", err)
	}
	instRows.Close()

	slotRows, err := q.Query(ctx, `
		SELECT rs.id, rs.shift_instance_id, rs.role_id, r.name, rs.required_count
		FROM role_slots rs
		JOIN roles r ON r.id = rs.role_id
		JOIN shift_instances si ON si.id = rs.shift_instance_id
		JOIN schedule_days sd ON sd.id = si.schedule_day_id
		WHERE sd.schedule_id = $1
		ORDER BY r.name, rs.id
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query role slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var slot model.RoleSlot
		if err := slotRows.Scan(&slot.ID, &slot.ShiftInstanceID, &slot.RoleID, &slot.RoleName, &slot.RequiredCount); err != nil {
			return nil, fmt.Errorf("failed to scan role slot: %w", err)
		}
		di, ok := instDay[slot.ShiftInstanceID]
		if !ok {
			return nil, fmt.Errorf("role slot %s references unknown shift instance %s", slot.ID, slot.ShiftInstanceID)
		}
		si := instIndex[slot.ShiftInstanceID]
		schedule.Days[di].Shifts[si].Slots = append(schedule.Days[di].Shifts[si].Slots, slot)
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role slots: %w", err)
	}

	return &schedule, nil
}
