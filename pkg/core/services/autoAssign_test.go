package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calvertross/rosterd/internal/config"
	"github.com/calvertross/rosterd/pkg/core/model"
)

func testConfig() *config.Config {
	return &config.Config{DatabaseURL: "postgres://test"}
}

func TestAutoAssign_FillsAndCommits(t *testing.T) {
	mock := &mockStore{snapshot: draftSnapshot(t, 2)}
	locks := NewScheduleLocks()
	logger := zap.NewNop()
	ctx := context.Background()

	result, err := AutoAssign(ctx, mock, locks, testConfig(), logger, "sched-1", 42)
	require.NoError(t, err)
	require.NotNil(t, result)

	// Both candidates land in the two-person slot
	assert.Len(t, result.Assignments, 2)
	assigned := []string{result.Assignments[0].ProfileID, result.Assignments[1].ProfileID}
	assert.ElementsMatch(t, []string{"alice", "bob"}, assigned)

	assert.Equal(t, 1.0, result.Report.FillRate)
	assert.Equal(t, int64(42), result.Report.Seed)
	assert.Empty(t, result.Report.Shortfalls)

	// The replacement set was committed for the right schedule
	assert.Equal(t, "sched-1", mock.replacedScheduleID)
	assert.Equal(t, result.Assignments, mock.replacedAssignments)
}

func TestAutoAssign_ReportsShortfall(t *testing.T) {
	mock := &mockStore{snapshot: draftSnapshot(t, 3)}
	locks := NewScheduleLocks()

	result, err := AutoAssign(context.Background(), mock, locks, testConfig(), zap.NewNop(), "sched-1", 7)
	require.NoError(t, err)

	assert.Len(t, result.Assignments, 2)
	require.Len(t, result.Report.Shortfalls, 1)
	assert.Equal(t, 3, result.Report.Shortfalls[0].Required)
	assert.Equal(t, 2, result.Report.Shortfalls[0].Filled)
	assert.InDelta(t, 2.0/3.0, result.Report.FillRate, 1e-9)
}

func TestAutoAssign_BusyWhenLockHeld(t *testing.T) {
	mock := &mockStore{snapshot: draftSnapshot(t, 1)}
	locks := NewScheduleLocks()
	require.True(t, locks.TryAcquire("sched-1"))

	result, err := AutoAssign(context.Background(), mock, locks, testConfig(), zap.NewNop(), "sched-1", 1)

	assert.ErrorIs(t, err, model.ErrBusy)
	assert.Nil(t, result)
	assert.Equal(t, 0, mock.replaceCalls)
}

func TestAutoAssign_ReleasesLockAfterRun(t *testing.T) {
	mock := &mockStore{snapshot: draftSnapshot(t, 1)}
	locks := NewScheduleLocks()

	_, err := AutoAssign(context.Background(), mock, locks, testConfig(), zap.NewNop(), "sched-1", 1)
	require.NoError(t, err)

	assert.True(t, locks.TryAcquire("sched-1"))
}

func TestAutoAssign_RejectsPublishedSchedule(t *testing.T) {
	snap := draftSnapshot(t, 1)
	snap.Schedule.Status = model.SchedulePublished
	mock := &mockStore{snapshot: snap}
	locks := NewScheduleLocks()

	result, err := AutoAssign(context.Background(), mock, locks, testConfig(), zap.NewNop(), "sched-1", 1)

	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.Nil(t, result)
	assert.Equal(t, 0, mock.replaceCalls)

	// A failed run must not leave the lock held
	assert.True(t, locks.TryAcquire("sched-1"))
}

func TestAutoAssign_SnapshotErrorPropagates(t *testing.T) {
	mock := &mockStore{snapshotErr: errors.New("connection refused")}
	locks := NewScheduleLocks()

	result, err := AutoAssign(context.Background(), mock, locks, testConfig(), zap.NewNop(), "sched-1", 1)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to load schedule snapshot")
}

func TestAutoAssign_CommitErrorPropagates(t *testing.T) {
	mock := &mockStore{
		snapshot:   draftSnapshot(t, 1),
		replaceErr: errors.New("deadlock detected"),
	}
	locks := NewScheduleLocks()

	result, err := AutoAssign(context.Background(), mock, locks, testConfig(), zap.NewNop(), "sched-1", 1)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to commit assignments")
	assert.True(t, locks.TryAcquire("sched-1"))
}

func TestAutoAssign_ManualAssignmentsSurviveRerun(t *testing.T) {
	snap := draftSnapshot(t, 2)
	snap.Assignments = []model.Assignment{
		{ID: "m1", RoleSlotID: "slot-1", ProfileID: "bob", Source: model.SourceManual},
	}
	mock := &mockStore{snapshot: snap}
	locks := NewScheduleLocks()

	result, err := AutoAssign(context.Background(), mock, locks, testConfig(), zap.NewNop(), "sched-1", 5)
	require.NoError(t, err)

	// Only the open seat is filled by the engine; the replacement set never
	// contains the manual assignment
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "alice", result.Assignments[0].ProfileID)
	assert.Equal(t, model.SourceEngine, result.Assignments[0].Source)
	assert.Equal(t, 1.0, result.Report.FillRate)
}

func TestAutoAssign_ConfigTunablesReachEngine(t *testing.T) {
	// An out-of-range tie-break from config is rejected by the run
	cfg := testConfig()
	cfg.Engine.TieBreakRange = 1.5

	mock := &mockStore{snapshot: draftSnapshot(t, 1)}
	locks := NewScheduleLocks()

	_, err := AutoAssign(context.Background(), mock, locks, cfg, zap.NewNop(), "sched-1", 1)

	var vErr *model.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, mock.replaceCalls)
}
