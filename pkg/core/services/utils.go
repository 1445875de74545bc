package services

import (
	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// slotContext pairs a role slot with the shift instance that owns it
type slotContext struct {
	Slot     *model.RoleSlot
	Instance *model.ShiftInstance
}

// walkSlots visits every role slot in a schedule tree with its owning
// shift instance
func walkSlots(schedule *model.Schedule) []slotContext {
	var out []slotContext
	for di := range schedule.Days {
		day := &schedule.Days[di]
		for si := range day.Shifts {
			inst := &day.Shifts[si]
			for ri := range inst.Slots {
				out = append(out, slotContext{Slot: &inst.Slots[ri], Instance: inst})
			}
		}
	}
	return out
}

// assignmentsBySlot groups a schedule's assignments by role slot ID
func assignmentsBySlot(assignments []model.Assignment) map[string][]model.Assignment {
	out := make(map[string][]model.Assignment)
	for _, a := range assignments {
		out[a.RoleSlotID] = append(out[a.RoleSlotID], a)
	}
	return out
}

// openShortfalls computes the slots whose current assignment count falls
// short of the required headcount
func openShortfalls(snap *engine.Snapshot) []engine.Shortfall {
	bySlot := assignmentsBySlot(snap.Assignments)

	var shortfalls []engine.Shortfall
	for _, sc := range walkSlots(&snap.Schedule) {
		filled := len(bySlot[sc.Slot.ID])
		if filled < sc.Slot.RequiredCount {
			shortfalls = append(shortfalls, engine.Shortfall{
				RoleSlotID: sc.Slot.ID,
				RoleName:   sc.Slot.RoleName,
				Date:       sc.Instance.Date,
				Window:     sc.Instance.Window,
				Required:   sc.Slot.RequiredCount,
				Filled:     filled,
			})
		}
	}
	return shortfalls
}
