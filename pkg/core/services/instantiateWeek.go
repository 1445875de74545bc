package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/model"
)

// InstantiateWeekStore defines the database operations needed to materialize
// a schedule from a requirement template
type InstantiateWeekStore interface {
	GetRequirementTemplate(ctx context.Context, templateID string) (*model.RequirementTemplate, error)
	GetShiftTemplates(ctx context.Context, organizationID string) ([]model.ShiftTemplate, error)
	GetRoles(ctx context.Context, organizationID string) ([]model.Role, error)

	// InsertSchedule persists the schedule and its full day/shift/slot tree
	// in one transaction
	InsertSchedule(ctx context.Context, schedule *model.Schedule) error
}

// InstantiateWeek copies a requirement template into a concrete draft
// schedule for the week starting at weekStart: one ScheduleDay per date, one
// ShiftInstance per shift window that has demand that weekday, one RoleSlot
// per requirement item. No assignment logic runs here; slots start empty.
func InstantiateWeek(
	ctx context.Context,
	store InstantiateWeekStore,
	logger *zap.Logger,
	templateID string,
	weekStart model.Date,
) (*model.Schedule, error) {
	logger.Debug("Starting instantiateWeek",
		zap.String("template_id", templateID),
		zap.String("week_start", weekStart.String()))

	tmpl, err := store.GetRequirementTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirement template: %w", err)
	}

	shiftTemplates, err := store.GetShiftTemplates(ctx, tmpl.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift templates: %w", err)
	}
	shiftsByID := make(map[string]model.ShiftTemplate, len(shiftTemplates))
	for _, st := range shiftTemplates {
		shiftsByID[st.ID] = st
	}

	roles, err := store.GetRoles(ctx, tmpl.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	rolesByID := make(map[string]model.Role, len(roles))
	for _, r := range roles {
		rolesByID[r.ID] = r
	}

	weekDates, err := expandWeekDates(weekStart)
	if err != nil {
		return nil, err
	}

	schedule := &model.Schedule{
		ID:             uuid.NewString(),
		OrganizationID: tmpl.OrganizationID,
		WeekStart:      weekStart,
		Status:         model.ScheduleDraft,
	}

	slotCount := 0
	for _, date := range weekDates {
		day := model.ScheduleDay{
			ID:         uuid.NewString(),
			ScheduleID: schedule.ID,
			Date:       date,
		}

		// Group this weekday's items by shift template so each window
		// becomes a single shift instance
		itemsByShift := make(map[string][]model.RequirementItem)
		var shiftOrder []string
		for _, item := range tmpl.Items {
			if item.Weekday != date.Weekday() {
				continue
			}
			if _, seen := itemsByShift[item.ShiftTemplateID]; !seen {
				shiftOrder = append(shiftOrder, item.ShiftTemplateID)
			}
			itemsByShift[item.ShiftTemplateID] = append(itemsByShift[item.ShiftTemplateID], item)
		}

		for _, shiftTemplateID := range shiftOrder {
			st, ok := shiftsByID[shiftTemplateID]
			if !ok {
				return nil, fmt.Errorf("requirement template %s references unknown shift template %s", templateID, shiftTemplateID)
			}

			inst := model.ShiftInstance{
				ID:            uuid.NewString(),
				ScheduleDayID: day.ID,
				Date:          date,
				Window:        st.Window,
			}

			for _, item := range itemsByShift[shiftTemplateID] {
				role, ok := rolesByID[item.RoleID]
				if !ok {
					return nil, fmt.Errorf("requirement template %s references unknown role %s", templateID, item.RoleID)
				}
				if item.RequiredCount < 1 {
					return nil, model.Validationf("requirement item %s has required count %d, must be at least 1", item.ID, item.RequiredCount)
				}
				inst.Slots = append(inst.Slots, model.RoleSlot{
					ID:              uuid.NewString(),
					ShiftInstanceID: inst.ID,
					RoleID:          role.ID,
					RoleName:        role.Name,
					RequiredCount:   item.RequiredCount,
				})
				slotCount++
			}

			day.Shifts = append(day.Shifts, inst)
		}

		schedule.Days = append(schedule.Days, day)
	}

	if err := store.InsertSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to insert schedule: %w", err)
	}

	logger.Info("Schedule instantiated",
		zap.String("schedule_id", schedule.ID),
		zap.String("week_start", weekStart.String()),
		zap.Int("days", len(schedule.Days)),
		zap.Int("role_slots", slotCount))

	return schedule, nil
}

// expandWeekDates returns the seven consecutive dates of the schedule week
func expandWeekDates(weekStart model.Date) ([]model.Date, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   7,
		Dtstart: weekStart.Time(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand week dates: %w", err)
	}

	occurrences := rule.All()
	dates := make([]model.Date, len(occurrences))
	for i, occ := range occurrences {
		dates[i] = model.DateOf(occ)
	}
	return dates, nil
}
