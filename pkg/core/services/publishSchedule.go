package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// PublishStore defines the database operations needed to publish a schedule
type PublishStore interface {
	GetScheduleSnapshot(ctx context.Context, scheduleID string) (*engine.Snapshot, error)

	// SetScheduleStatus transitions a schedule from one status to another.
	// Returns ErrInvalidState if the schedule is not currently in `from`.
	SetScheduleStatus(ctx context.Context, scheduleID string, from, to model.ScheduleStatus) error
}

// PublishSchedule transitions a draft schedule to published, freezing its
// assignments. Publishing is one-way. Partial fill is allowed: open
// shortfalls are logged as a warning, not treated as an error. The schedule
// lock is taken so a publish cannot interleave with a running assignment
// pass on the same schedule.
func PublishSchedule(
	ctx context.Context,
	store PublishStore,
	locks *ScheduleLocks,
	logger *zap.Logger,
	scheduleID string,
) (*model.Schedule, error) {
	logger.Debug("Starting publishSchedule", zap.String("schedule_id", scheduleID))

	if !locks.TryAcquire(scheduleID) {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, model.ErrBusy)
	}
	defer locks.Release(scheduleID)

	snap, err := store.GetScheduleSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	if snap.Schedule.Status != model.ScheduleDraft {
		return nil, fmt.Errorf("publish schedule %s in status %q: %w",
			scheduleID, snap.Schedule.Status, model.ErrInvalidState)
	}

	if shortfalls := openShortfalls(snap); len(shortfalls) > 0 {
		logger.Warn("Publishing schedule with open shortfalls",
			zap.String("schedule_id", scheduleID),
			zap.Int("shortfall_count", len(shortfalls)))
	}

	if err := store.SetScheduleStatus(ctx, scheduleID, model.ScheduleDraft, model.SchedulePublished); err != nil {
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("schedule_id", scheduleID))

	published := snap.Schedule
	published.Status = model.SchedulePublished
	return &published, nil
}
