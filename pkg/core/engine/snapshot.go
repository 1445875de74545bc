package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/availability"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// Snapshot is the engine's pre-fetched input: one schedule with its full
// demand tree, the candidate pool, every candidate's availability calendar,
// and the schedule's existing assignments. The engine reads only from the
// snapshot and never triggers fetches mid-run, so a run is consistent even
// if the underlying data is edited while it executes.
type Snapshot struct {
	// Schedule carries the full Days -> ShiftInstances -> RoleSlots tree
	Schedule model.Schedule

	// Profiles is the candidate pool: active organization members already
	// filtered for role permission by the caller
	Profiles []model.Profile

	// Calendars maps profile ID to that profile's availability inputs
	Calendars map[string]availability.ProfileCalendar

	// Assignments holds the schedule's current assignments, both
	// engine-made (replaced by a run) and manual (preserved)
	Assignments []model.Assignment
}

// slotRef pairs a role slot with its owning shift instance so the engine can
// reach the slot's date and window without re-walking the tree
type slotRef struct {
	slot     *model.RoleSlot
	instance *model.ShiftInstance
}

// orderedSlots returns every role slot in the schedule in the engine's
// deterministic processing order: date, then window start, then role name,
// then slot ID as the final stable key. Reruns on unchanged data therefore
// visit slots identically.
func (s *Snapshot) orderedSlots() []slotRef {
	var refs []slotRef
	for di := range s.Schedule.Days {
		day := &s.Schedule.Days[di]
		for si := range day.Shifts {
			inst := &day.Shifts[si]
			for ri := range inst.Slots {
				refs = append(refs, slotRef{slot: &inst.Slots[ri], instance: inst})
			}
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.instance.Date != b.instance.Date {
			return a.instance.Date < b.instance.Date
		}
		if a.instance.Window.Start != b.instance.Window.Start {
			return a.instance.Window.Start < b.instance.Window.Start
		}
		if a.slot.RoleName != b.slot.RoleName {
			return a.slot.RoleName < b.slot.RoleName
		}
		return a.slot.ID < b.slot.ID
	})

	return refs
}

// newResolver builds the availability resolver over the snapshot's calendars
func newResolver(s *Snapshot, logger *zap.Logger) *availability.Resolver {
	return availability.NewResolver(s.Calendars, logger)
}

// slotInstances maps role slot ID to its owning shift instance
func (s *Snapshot) slotInstances() map[string]*model.ShiftInstance {
	out := make(map[string]*model.ShiftInstance)
	for di := range s.Schedule.Days {
		day := &s.Schedule.Days[di]
		for si := range day.Shifts {
			inst := &day.Shifts[si]
			for ri := range inst.Slots {
				out[inst.Slots[ri].ID] = inst
			}
		}
	}
	return out
}
