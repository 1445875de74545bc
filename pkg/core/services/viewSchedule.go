package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// ViewScheduleStore defines the database operations needed to build
// schedule views
type ViewScheduleStore interface {
	GetScheduleSnapshot(ctx context.Context, scheduleID string) (*engine.Snapshot, error)
}

// RoleLine is one row of the by-role schedule view
type RoleLine struct {
	Date      model.Date
	Weekday   string
	Window    model.Window
	RoleName  string
	Required  int
	Assigned  int
	Shortfall int
}

// StaffLine is one row of the by-staff schedule view
type StaffLine struct {
	StaffName string
	RoleName  string
	Date      model.Date
	Weekday   string
	Window    model.Window
}

// ScheduleView presents one schedule's demand and assignments both by role
// slot and by staff member
type ScheduleView struct {
	ScheduleID string
	WeekStart  model.Date
	Status     model.ScheduleStatus
	ByRole     []RoleLine
	ByStaff    []StaffLine
}

// ViewSchedule builds the by-role and by-staff views for a schedule
func ViewSchedule(
	ctx context.Context,
	store ViewScheduleStore,
	logger *zap.Logger,
	scheduleID string,
) (*ScheduleView, error) {
	logger.Debug("Starting viewSchedule", zap.String("schedule_id", scheduleID))

	snap, err := store.GetScheduleSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	profilesByID := make(map[string]model.Profile, len(snap.Profiles))
	for _, p := range snap.Profiles {
		profilesByID[p.ID] = p
	}
	bySlot := assignmentsBySlot(snap.Assignments)

	view := &ScheduleView{
		ScheduleID: snap.Schedule.ID,
		WeekStart:  snap.Schedule.WeekStart,
		Status:     snap.Schedule.Status,
	}

	for _, sc := range walkSlots(&snap.Schedule) {
		assigned := bySlot[sc.Slot.ID]
		shortfall := sc.Slot.RequiredCount - len(assigned)
		if shortfall < 0 {
			shortfall = 0
		}
		view.ByRole = append(view.ByRole, RoleLine{
			Date:      sc.Instance.Date,
			Weekday:   sc.Instance.Date.Weekday().String(),
			Window:    sc.Instance.Window,
			RoleName:  sc.Slot.RoleName,
			Required:  sc.Slot.RequiredCount,
			Assigned:  len(assigned),
			Shortfall: shortfall,
		})

		for _, a := range assigned {
			name := "Unknown"
			if p, ok := profilesByID[a.ProfileID]; ok {
				name = p.FullName()
			}
			view.ByStaff = append(view.ByStaff, StaffLine{
				StaffName: name,
				RoleName:  sc.Slot.RoleName,
				Date:      sc.Instance.Date,
				Weekday:   sc.Instance.Date.Weekday().String(),
				Window:    sc.Instance.Window,
			})
		}
	}

	sort.Slice(view.ByStaff, func(i, j int) bool {
		a, b := view.ByStaff[i], view.ByStaff[j]
		if a.StaffName != b.StaffName {
			return a.StaffName < b.StaffName
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Window.Start < b.Window.Start
	})

	return view, nil
}
