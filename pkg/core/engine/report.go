package engine

import (
	"math"

	"github.com/calvertross/rosterd/pkg/core/model"
)

// Shortfall records a role slot that finished a run short of its required
// headcount. Shortfalls are a normal outcome, not an error.
type Shortfall struct {
	RoleSlotID string
	RoleName   string
	Date       model.Date
	Window     model.Window
	Required   int
	Filled     int
}

// Gap returns the unfilled headcount
func (s Shortfall) Gap() int {
	return s.Required - s.Filled
}

// RunReport summarizes one completed auto-assignment run
type RunReport struct {
	ScheduleID string

	// SlotCount is the number of role slots processed
	SlotCount int

	// RequiredCount is the total required headcount across all slots
	RequiredCount int

	// AssignedCount is the total headcount actually assigned, manual
	// assignments included
	AssignedCount int

	// FillRate is AssignedCount / RequiredCount in [0, 1]
	FillRate float64

	// FairnessIndex is the population standard deviation of per-profile
	// assignment counts over profiles that received at least one
	// assignment. Lower is fairer.
	FairnessIndex float64

	Shortfalls []Shortfall

	// Seed is the tie-break seed used by the run, for reproducing it
	Seed int64
}

// fairnessIndex computes the population standard deviation of the counts.
// Zero or one participating profile yields 0.
func fairnessIndex(counts map[string]int) float64 {
	if len(counts) <= 1 {
		return 0
	}

	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	mean := sum / float64(len(counts))

	var sqDiff float64
	for _, c := range counts {
		d := float64(c) - mean
		sqDiff += d * d
	}

	return math.Sqrt(sqDiff / float64(len(counts)))
}
