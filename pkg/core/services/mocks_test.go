package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calvertross/rosterd/pkg/core/availability"
	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// mockStore implements the per-service store interfaces as a test double
type mockStore struct {
	snapshot    *engine.Snapshot
	snapshotErr error

	replacedScheduleID  string
	replacedAssignments []model.Assignment
	replaceCalls        int
	replaceErr          error

	statusScheduleID string
	statusFrom       model.ScheduleStatus
	statusTo         model.ScheduleStatus
	setStatusErr     error

	template    *model.RequirementTemplate
	templateErr error

	shiftTemplates []model.ShiftTemplate
	roles          []model.Role

	insertedSchedules []*model.Schedule
	insertErr         error
}

func (m *mockStore) GetScheduleSnapshot(ctx context.Context, scheduleID string) (*engine.Snapshot, error) {
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	return m.snapshot, nil
}

func (m *mockStore) ReplaceEngineAssignments(ctx context.Context, scheduleID string, assignments []model.Assignment) error {
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replacedScheduleID = scheduleID
	m.replacedAssignments = assignments
	return nil
}

func (m *mockStore) SetScheduleStatus(ctx context.Context, scheduleID string, from, to model.ScheduleStatus) error {
	if m.setStatusErr != nil {
		return m.setStatusErr
	}
	m.statusScheduleID = scheduleID
	m.statusFrom = from
	m.statusTo = to
	return nil
}

func (m *mockStore) GetRequirementTemplate(ctx context.Context, templateID string) (*model.RequirementTemplate, error) {
	if m.templateErr != nil {
		return nil, m.templateErr
	}
	return m.template, nil
}

func (m *mockStore) GetShiftTemplates(ctx context.Context, organizationID string) ([]model.ShiftTemplate, error) {
	return m.shiftTemplates, nil
}

func (m *mockStore) GetRoles(ctx context.Context, organizationID string) ([]model.Role, error) {
	return m.roles, nil
}

func (m *mockStore) InsertSchedule(ctx context.Context, schedule *model.Schedule) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertedSchedules = append(m.insertedSchedules, schedule)
	return nil
}

// 2025-09-29 is a Monday
const testMonday = model.Date("2025-09-29")

func testWindow(t *testing.T, start, end string) model.Window {
	t.Helper()
	w, err := model.ParseWindow(start, end)
	require.NoError(t, err)
	return w
}

// allWeekCalendar builds a calendar with one recurring all-day entry per
// weekday at the given status
func allWeekCalendar(profileID string, status model.AvailabilityStatus) availability.ProfileCalendar {
	var recurring []model.AvailabilityRecurring
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		recurring = append(recurring, model.AvailabilityRecurring{
			ID:        profileID + "-" + wd.String(),
			ProfileID: profileID,
			Weekday:   wd,
			Window:    model.Window{Start: 0, End: 24 * 60},
			Status:    status,
		})
	}
	return availability.ProfileCalendar{Recurring: recurring}
}

// draftSnapshot builds a one-day draft schedule with a single shift instance
// holding one role slot of the given headcount
func draftSnapshot(t *testing.T, required int) *engine.Snapshot {
	t.Helper()
	window := testWindow(t, "09:00", "13:00")

	return &engine.Snapshot{
		Schedule: model.Schedule{
			ID:             "sched-1",
			OrganizationID: "org-1",
			WeekStart:      testMonday,
			Status:         model.ScheduleDraft,
			Days: []model.ScheduleDay{
				{
					ID:         "day-1",
					ScheduleID: "sched-1",
					Date:       testMonday,
					Shifts: []model.ShiftInstance{
						{
							ID:            "inst-1",
							ScheduleDayID: "day-1",
							Date:          testMonday,
							Window:        window,
							Slots: []model.RoleSlot{
								{
									ID:              "slot-1",
									ShiftInstanceID: "inst-1",
									RoleID:          "role-1",
									RoleName:        "Barista",
									RequiredCount:   required,
								},
							},
						},
					},
				},
			},
		},
		Profiles: []model.Profile{
			{ID: "alice", OrganizationID: "org-1", FirstName: "Alice", LastName: "Ng", Active: true},
			{ID: "bob", OrganizationID: "org-1", FirstName: "Bob", LastName: "Reyes", Active: true},
		},
		Calendars: map[string]availability.ProfileCalendar{
			"alice": allWeekCalendar("alice", model.StatusPreferred),
			"bob":   allWeekCalendar("bob", model.StatusAvailable),
		},
	}
}
