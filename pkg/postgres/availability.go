package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/calvertross/rosterd/pkg/core/availability"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// GetRecurringAvailability retrieves a profile's recurring weekly pattern
func (d *DB) GetRecurringAvailability(ctx context.Context, profileID string) ([]model.AvailabilityRecurring, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, profile_id, weekday, start_minute, end_minute, status
		FROM availability_recurring
		WHERE profile_id = $1
		ORDER BY weekday, start_minute
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring availability: %w", err)
	}
	defer rows.Close()

	var entries []model.AvailabilityRecurring
	for rows.Next() {
		entry, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring availability: %w", err)
	}

	return entries, nil
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanRecurring(row pgxRow) (model.AvailabilityRecurring, error) {
	var entry model.AvailabilityRecurring
	var weekday, start, end int
	var status string
	if err := row.Scan(&entry.ID, &entry.ProfileID, &weekday, &start, &end, &status); err != nil {
		return entry, fmt.Errorf("failed to scan recurring availability: %w", err)
	}
	entry.Weekday = time.Weekday(weekday)
	entry.Window = model.Window{Start: model.Clock(start), End: model.Clock(end)}
	entry.Status = model.AvailabilityStatus(status)
	return entry, nil
}

// InsertRecurringAvailability writes a recurring entry after checking it
// against the profile's existing entries. Overlapping entries for the same
// weekday are rejected with a ValidationError.
func (d *DB) InsertRecurringAvailability(ctx context.Context, entry model.AvailabilityRecurring) error {
	existing, err := d.GetRecurringAvailability(ctx, entry.ProfileID)
	if err != nil {
		return err
	}
	if err := availability.ValidateRecurring(entry, existing); err != nil {
		return err
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO availability_recurring (id, profile_id, weekday, start_minute, end_minute, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.ProfileID, int(entry.Weekday), int(entry.Window.Start), int(entry.Window.End), string(entry.Status))
	if err != nil {
		return fmt.Errorf("failed to insert recurring availability: %w", err)
	}
	return nil
}

// InsertAvailabilityException writes a date-specific availability exception
func (d *DB) InsertAvailabilityException(ctx context.Context, entry model.AvailabilityException) error {
	if !entry.Window.Valid() {
		return model.Validationf("exception window %s is invalid", entry.Window)
	}
	if !entry.Status.IsValid() {
		return model.Validationf("unknown availability status %q", entry.Status)
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO availability_exceptions (id, profile_id, exception_date, start_minute, end_minute, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.ProfileID, entry.Date.Time(), int(entry.Window.Start), int(entry.Window.End), string(entry.Status), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert availability exception: %w", err)
	}
	return nil
}

// InsertTimeOffRequest writes a time-off request
func (d *DB) InsertTimeOffRequest(ctx context.Context, req model.TimeOffRequest) error {
	if req.EndDate < req.StartDate {
		return model.Validationf("time off end date %s precedes start date %s", req.EndDate, req.StartDate)
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO time_off_requests (id, profile_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5)
	`, req.ID, req.ProfileID, req.StartDate.Time(), req.EndDate.Time(), string(req.Status))
	if err != nil {
		return fmt.Errorf("failed to insert time off request: %w", err)
	}
	return nil
}
