package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

func conflictsOfType(conflicts []Conflict, ct ConflictType) []Conflict {
	var out []Conflict
	for _, c := range conflicts {
		if c.Type == ct {
			out = append(out, c)
		}
	}
	return out
}

func TestDetectConflicts_CleanSchedule(t *testing.T) {
	snap := draftSnapshot(t, 2)
	snap.Assignments = []model.Assignment{
		{ID: "a1", RoleSlotID: "slot-1", ProfileID: "alice", Source: model.SourceEngine},
		{ID: "a2", RoleSlotID: "slot-1", ProfileID: "bob", Source: model.SourceEngine},
	}
	mock := &mockStore{snapshot: snap}

	conflicts, err := DetectConflicts(context.Background(), mock, zap.NewNop(), "sched-1")
	require.NoError(t, err)

	assert.Empty(t, conflicts)
}

func TestDetectConflicts_CapacityViolation(t *testing.T) {
	snap := draftSnapshot(t, 1)
	snap.Assignments = []model.Assignment{
		{ID: "a1", RoleSlotID: "slot-1", ProfileID: "alice", Source: model.SourceManual},
		{ID: "a2", RoleSlotID: "slot-1", ProfileID: "bob", Source: model.SourceManual},
	}
	mock := &mockStore{snapshot: snap}

	conflicts, err := DetectConflicts(context.Background(), mock, zap.NewNop(), "sched-1")
	require.NoError(t, err)

	capacity := conflictsOfType(conflicts, ConflictCapacity)
	require.Len(t, capacity, 1)
	assert.Equal(t, "medium", capacity[0].Severity)
	assert.Equal(t, testMonday, capacity[0].Date)
}

func TestDetectConflicts_DoubleBooking(t *testing.T) {
	// A second overlapping shift instance on the same day, with Alice
	// manually assigned to both
	snap := draftSnapshot(t, 1)
	day := &snap.Schedule.Days[0]
	day.Shifts = append(day.Shifts, model.ShiftInstance{
		ID:            "inst-2",
		ScheduleDayID: day.ID,
		Date:          testMonday,
		Window:        testWindow(t, "11:00", "15:00"),
		Slots: []model.RoleSlot{
			{ID: "slot-2", ShiftInstanceID: "inst-2", RoleID: "role-2", RoleName: "Server", RequiredCount: 1},
		},
	})
	snap.Assignments = []model.Assignment{
		{ID: "a1", RoleSlotID: "slot-1", ProfileID: "alice", Source: model.SourceManual},
		{ID: "a2", RoleSlotID: "slot-2", ProfileID: "alice", Source: model.SourceManual},
	}
	mock := &mockStore{snapshot: snap}

	conflicts, err := DetectConflicts(context.Background(), mock, zap.NewNop(), "sched-1")
	require.NoError(t, err)

	overlaps := conflictsOfType(conflicts, ConflictOverlap)
	require.Len(t, overlaps, 1)
	assert.Equal(t, "alice", overlaps[0].ProfileID)
	assert.Equal(t, "high", overlaps[0].Severity)
}

func TestDetectConflicts_AvailabilityViolation(t *testing.T) {
	snap := draftSnapshot(t, 1)
	// Carol has no calendar at all, so she resolves unavailable everywhere
	snap.Profiles = append(snap.Profiles, model.Profile{
		ID: "carol", OrganizationID: "org-1", FirstName: "Carol", LastName: "Lim", Active: true,
	})
	snap.Assignments = []model.Assignment{
		{ID: "a1", RoleSlotID: "slot-1", ProfileID: "carol", Source: model.SourceManual},
	}
	mock := &mockStore{snapshot: snap}

	conflicts, err := DetectConflicts(context.Background(), mock, zap.NewNop(), "sched-1")
	require.NoError(t, err)

	violations := conflictsOfType(conflicts, ConflictAvailability)
	require.Len(t, violations, 1)
	assert.Equal(t, "carol", violations[0].ProfileID)
}

func TestDetectConflicts_TimeOffViolation(t *testing.T) {
	snap := draftSnapshot(t, 1)
	cal := snap.Calendars["alice"]
	cal.TimeOff = []model.TimeOffRequest{
		{ID: "t1", ProfileID: "alice", StartDate: testMonday, EndDate: testMonday, Status: model.TimeOffApproved},
	}
	snap.Calendars["alice"] = cal
	snap.Assignments = []model.Assignment{
		{ID: "a1", RoleSlotID: "slot-1", ProfileID: "alice", Source: model.SourceManual},
	}
	mock := &mockStore{snapshot: snap}

	conflicts, err := DetectConflicts(context.Background(), mock, zap.NewNop(), "sched-1")
	require.NoError(t, err)

	timeOff := conflictsOfType(conflicts, ConflictTimeOff)
	require.Len(t, timeOff, 1)
	assert.Equal(t, "alice", timeOff[0].ProfileID)
	// Classified as time-off, not a generic availability violation
	assert.Empty(t, conflictsOfType(conflicts, ConflictAvailability))
}

func TestOpenShortfalls(t *testing.T) {
	snap := draftSnapshot(t, 2)
	snap.Assignments = []model.Assignment{
		{ID: "a1", RoleSlotID: "slot-1", ProfileID: "alice", Source: model.SourceEngine},
	}

	shortfalls := openShortfalls(snap)

	require.Len(t, shortfalls, 1)
	assert.Equal(t, engine.Shortfall{
		RoleSlotID: "slot-1",
		RoleName:   "Barista",
		Date:       testMonday,
		Window:     testWindow(t, "09:00", "13:00"),
		Required:   2,
		Filled:     1,
	}, shortfalls[0])
}
