package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/calvertross/rosterd/internal/config"
	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// AutoAssignStore defines the database operations needed for an
// auto-assignment run
type AutoAssignStore interface {
	// GetScheduleSnapshot loads the schedule tree, candidate pool,
	// availability calendars and current assignments in one consistent read
	GetScheduleSnapshot(ctx context.Context, scheduleID string) (*engine.Snapshot, error)

	// ReplaceEngineAssignments atomically drops all engine-made assignments
	// for the schedule and inserts the given replacements
	ReplaceEngineAssignments(ctx context.Context, scheduleID string, assignments []model.Assignment) error
}

// AutoAssignResult contains the committed outcome of an auto-assignment run
type AutoAssignResult struct {
	ScheduleID  string
	Report      engine.RunReport
	Assignments []model.Assignment
}

// AutoAssign runs the assignment engine over one draft schedule and commits
// the result. The run holds the schedule's exclusive lock for its whole
// duration; a concurrent run or publish on the same schedule fails with
// ErrBusy. If seed is non-zero it fixes the tie-break source, otherwise each
// run draws a fresh one.
//
// Either the full set of engine assignments and the report land, or nothing
// does: a failed run leaves the schedule's assignments untouched.
func AutoAssign(
	ctx context.Context,
	store AutoAssignStore,
	locks *ScheduleLocks,
	cfg *config.Config,
	logger *zap.Logger,
	scheduleID string,
	seed int64,
) (*AutoAssignResult, error) {
	logger.Debug("Starting autoAssign", zap.String("schedule_id", scheduleID))

	if !locks.TryAcquire(scheduleID) {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, model.ErrBusy)
	}
	defer locks.Release(scheduleID)

	// Step 1: Load one consistent snapshot of the schedule and all
	// candidate availability data
	snap, err := store.GetScheduleSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule snapshot: %w", err)
	}
	logger.Debug("Loaded snapshot",
		zap.String("schedule_id", scheduleID),
		zap.String("status", string(snap.Schedule.Status)),
		zap.Int("profiles", len(snap.Profiles)),
		zap.Int("existing_assignments", len(snap.Assignments)))

	// Step 2: Run the engine over the snapshot. The draft-state guard
	// lives in the engine and aborts before any mutation.
	eng := engine.New(engine.Config{
		FairnessWeight: cfg.Engine.FairnessWeight,
		TieBreakRange:  cfg.Engine.TieBreakRange,
		Seed:           seed,
	}, logger)

	result, err := eng.Run(snap)
	if err != nil {
		return nil, err
	}

	// Step 3: Commit the replacement set atomically
	if err := store.ReplaceEngineAssignments(ctx, scheduleID, result.Assignments); err != nil {
		return nil, fmt.Errorf("failed to commit assignments: %w", err)
	}

	logger.Info("Auto-assignment committed",
		zap.String("schedule_id", scheduleID),
		zap.Int("assignments", len(result.Assignments)),
		zap.Float64("fill_rate", result.Report.FillRate),
		zap.Float64("fairness_index", result.Report.FairnessIndex),
		zap.Int("shortfalls", len(result.Report.Shortfalls)))

	return &AutoAssignResult{
		ScheduleID:  scheduleID,
		Report:      result.Report,
		Assignments: result.Assignments,
	}, nil
}
