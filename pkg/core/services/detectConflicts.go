package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/availability"
	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// ConflictType classifies a detected scheduling conflict
type ConflictType string

const (
	ConflictOverlap      ConflictType = "overlapping_assignments"
	ConflictCapacity     ConflictType = "capacity_violation"
	ConflictAvailability ConflictType = "availability_violation"
	ConflictTimeOff      ConflictType = "time_off_violation"
)

// Conflict describes one violation found in a schedule's current
// assignments. The engine never produces these itself; they arise from
// manual edits or availability changes after a run.
type Conflict struct {
	Type      ConflictType
	Severity  string
	ProfileID string
	Date      model.Date
	Detail    string
}

// DetectConflictsStore defines the database operations needed for conflict
// detection
type DetectConflictsStore interface {
	GetScheduleSnapshot(ctx context.Context, scheduleID string) (*engine.Snapshot, error)
}

// DetectConflicts audits a schedule's assignments against the double-booking,
// capacity, availability and time-off rules. Read-only: it reports, never
// repairs.
func DetectConflicts(
	ctx context.Context,
	store DetectConflictsStore,
	logger *zap.Logger,
	scheduleID string,
) ([]Conflict, error) {
	logger.Debug("Starting detectConflicts", zap.String("schedule_id", scheduleID))

	snap, err := store.GetScheduleSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	resolver := availability.NewResolver(snap.Calendars, logger)
	bySlot := assignmentsBySlot(snap.Assignments)
	slots := walkSlots(&snap.Schedule)

	var conflicts []Conflict

	// Capacity: more assignments than the slot requires
	for _, sc := range slots {
		if filled := len(bySlot[sc.Slot.ID]); filled > sc.Slot.RequiredCount {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictCapacity,
				Severity: "medium",
				Date:     sc.Instance.Date,
				Detail: fmt.Sprintf("role slot %s (%s) has %d assignments for required count %d",
					sc.Slot.ID, sc.Slot.RoleName, filled, sc.Slot.RequiredCount),
			})
		}
	}

	// Per-profile checks: double-booking, availability, approved time-off
	type booking struct {
		date   model.Date
		window model.Window
	}
	bookingsByProfile := make(map[string][]booking)

	for _, sc := range slots {
		for _, a := range bySlot[sc.Slot.ID] {
			date := sc.Instance.Date
			window := sc.Instance.Window

			for _, held := range bookingsByProfile[a.ProfileID] {
				if held.date == date && held.window.Overlaps(window) {
					conflicts = append(conflicts, Conflict{
						Type:      ConflictOverlap,
						Severity:  "high",
						ProfileID: a.ProfileID,
						Date:      date,
						Detail: fmt.Sprintf("windows %s and %s overlap on %s",
							held.window, window, date),
					})
				}
			}
			bookingsByProfile[a.ProfileID] = append(bookingsByProfile[a.ProfileID], booking{date: date, window: window})

			if resolver.Resolve(a.ProfileID, date, window) == model.StatusUnavailable {
				conflictType := ConflictAvailability
				if coveredByTimeOff(snap.Calendars[a.ProfileID], date) {
					conflictType = ConflictTimeOff
				}
				conflicts = append(conflicts, Conflict{
					Type:      conflictType,
					Severity:  "high",
					ProfileID: a.ProfileID,
					Date:      date,
					Detail: fmt.Sprintf("assigned to %s %s while unavailable",
						date, window),
				})
			}
		}
	}

	logger.Info("Conflict detection completed",
		zap.String("schedule_id", scheduleID),
		zap.Int("conflicts", len(conflicts)))

	return conflicts, nil
}

func coveredByTimeOff(cal availability.ProfileCalendar, date model.Date) bool {
	for _, req := range cal.TimeOff {
		if req.Covers(date) {
			return true
		}
	}
	return false
}
