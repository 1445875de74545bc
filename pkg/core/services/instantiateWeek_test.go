package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/model"
)

func weekStore(t *testing.T) *mockStore {
	t.Helper()
	return &mockStore{
		template: &model.RequirementTemplate{
			ID:             "tmpl-1",
			OrganizationID: "org-1",
			Name:           "Standard week",
			Items: []model.RequirementItem{
				{ID: "item-1", TemplateID: "tmpl-1", Weekday: time.Monday, ShiftTemplateID: "shift-am", RoleID: "role-barista", RequiredCount: 2},
				{ID: "item-2", TemplateID: "tmpl-1", Weekday: time.Monday, ShiftTemplateID: "shift-am", RoleID: "role-server", RequiredCount: 1},
				{ID: "item-3", TemplateID: "tmpl-1", Weekday: time.Monday, ShiftTemplateID: "shift-pm", RoleID: "role-barista", RequiredCount: 1},
				{ID: "item-4", TemplateID: "tmpl-1", Weekday: time.Saturday, ShiftTemplateID: "shift-am", RoleID: "role-barista", RequiredCount: 3},
			},
		},
		shiftTemplates: []model.ShiftTemplate{
			{ID: "shift-am", OrganizationID: "org-1", Name: "Morning", Window: testWindow(t, "08:00", "14:00")},
			{ID: "shift-pm", OrganizationID: "org-1", Name: "Evening", Window: testWindow(t, "14:00", "20:00")},
		},
		roles: []model.Role{
			{ID: "role-barista", OrganizationID: "org-1", Name: "Barista"},
			{ID: "role-server", OrganizationID: "org-1", Name: "Server"},
		},
	}
}

func TestInstantiateWeek_BuildsScheduleTree(t *testing.T) {
	mock := weekStore(t)
	logger := zap.NewNop()
	ctx := context.Background()

	schedule, err := InstantiateWeek(ctx, mock, logger, "tmpl-1", testMonday)
	require.NoError(t, err)
	require.NotNil(t, schedule)

	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, "org-1", schedule.OrganizationID)
	assert.Equal(t, testMonday, schedule.WeekStart)
	assert.Equal(t, model.ScheduleDraft, schedule.Status)

	// Seven consecutive days starting at weekStart
	require.Len(t, schedule.Days, 7)
	assert.Equal(t, testMonday, schedule.Days[0].Date)
	assert.Equal(t, model.Date("2025-10-05"), schedule.Days[6].Date)

	// Monday: two shift instances (morning with two slots, evening with one)
	mondayShifts := schedule.Days[0].Shifts
	require.Len(t, mondayShifts, 2)

	morning := mondayShifts[0]
	assert.Equal(t, testWindow(t, "08:00", "14:00"), morning.Window)
	require.Len(t, morning.Slots, 2)
	assert.Equal(t, "Barista", morning.Slots[0].RoleName)
	assert.Equal(t, 2, morning.Slots[0].RequiredCount)
	assert.Equal(t, "Server", morning.Slots[1].RoleName)
	assert.Equal(t, 1, morning.Slots[1].RequiredCount)

	evening := mondayShifts[1]
	assert.Equal(t, testWindow(t, "14:00", "20:00"), evening.Window)
	require.Len(t, evening.Slots, 1)

	// Tuesday has no demand: the day exists but carries no shifts
	assert.Empty(t, schedule.Days[1].Shifts)

	// Saturday is 2025-10-04
	saturday := schedule.Days[5]
	assert.Equal(t, model.Date("2025-10-04"), saturday.Date)
	require.Len(t, saturday.Shifts, 1)
	require.Len(t, saturday.Shifts[0].Slots, 1)
	assert.Equal(t, 3, saturday.Shifts[0].Slots[0].RequiredCount)

	// The tree was persisted as built
	require.Len(t, mock.insertedSchedules, 1)
	assert.Equal(t, schedule, mock.insertedSchedules[0])
}

func TestInstantiateWeek_SlotsStartEmpty(t *testing.T) {
	mock := weekStore(t)

	schedule, err := InstantiateWeek(context.Background(), mock, zap.NewNop(), "tmpl-1", testMonday)
	require.NoError(t, err)

	for _, day := range schedule.Days {
		for _, inst := range day.Shifts {
			assert.Equal(t, day.ID, inst.ScheduleDayID)
			assert.Equal(t, day.Date, inst.Date)
			for _, slot := range inst.Slots {
				assert.NotEmpty(t, slot.ID)
				assert.Equal(t, inst.ID, slot.ShiftInstanceID)
			}
		}
	}
}

func TestInstantiateWeek_UnknownShiftTemplate(t *testing.T) {
	mock := weekStore(t)
	mock.template.Items = append(mock.template.Items, model.RequirementItem{
		ID: "item-bad", TemplateID: "tmpl-1", Weekday: time.Monday,
		ShiftTemplateID: "shift-missing", RoleID: "role-barista", RequiredCount: 1,
	})

	schedule, err := InstantiateWeek(context.Background(), mock, zap.NewNop(), "tmpl-1", testMonday)

	assert.Error(t, err)
	assert.Nil(t, schedule)
	assert.Contains(t, err.Error(), "unknown shift template")
	assert.Empty(t, mock.insertedSchedules)
}

func TestInstantiateWeek_UnknownRole(t *testing.T) {
	mock := weekStore(t)
	mock.template.Items = append(mock.template.Items, model.RequirementItem{
		ID: "item-bad", TemplateID: "tmpl-1", Weekday: time.Monday,
		ShiftTemplateID: "shift-am", RoleID: "role-missing", RequiredCount: 1,
	})

	schedule, err := InstantiateWeek(context.Background(), mock, zap.NewNop(), "tmpl-1", testMonday)

	assert.Error(t, err)
	assert.Nil(t, schedule)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestInstantiateWeek_RejectsNonPositiveHeadcount(t *testing.T) {
	mock := weekStore(t)
	mock.template.Items = []model.RequirementItem{
		{ID: "item-zero", TemplateID: "tmpl-1", Weekday: time.Monday, ShiftTemplateID: "shift-am", RoleID: "role-barista", RequiredCount: 0},
	}

	schedule, err := InstantiateWeek(context.Background(), mock, zap.NewNop(), "tmpl-1", testMonday)

	var vErr *model.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Nil(t, schedule)
}

func TestInstantiateWeek_TemplateLoadErrorPropagates(t *testing.T) {
	mock := weekStore(t)
	mock.templateErr = model.ErrNotFound

	schedule, err := InstantiateWeek(context.Background(), mock, zap.NewNop(), "tmpl-missing", testMonday)

	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Nil(t, schedule)
}

func TestExpandWeekDates(t *testing.T) {
	dates, err := expandWeekDates(testMonday)
	require.NoError(t, err)

	require.Len(t, dates, 7)
	assert.Equal(t, model.Date("2025-09-29"), dates[0])
	assert.Equal(t, model.Date("2025-09-30"), dates[1])
	assert.Equal(t, model.Date("2025-10-05"), dates[6])
}
