package engine

import (
	"github.com/calvertross/rosterd/pkg/core/availability"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// Candidate is a profile that survived the eligibility filter for a slot,
// tagged with its resolved availability status for scoring
type Candidate struct {
	Profile model.Profile
	Status  model.AvailabilityStatus
	score   float64
}

// bookingIndex tracks, per profile and date, the shift windows the profile
// already holds. It prevents double-booking across role slots, including
// against manually created assignments.
type bookingIndex map[string]map[model.Date][]model.Window

func (b bookingIndex) add(profileID string, date model.Date, window model.Window) {
	byDate, ok := b[profileID]
	if !ok {
		byDate = make(map[model.Date][]model.Window)
		b[profileID] = byDate
	}
	byDate[date] = append(byDate[date], window)
}

func (b bookingIndex) overlaps(profileID string, date model.Date, window model.Window) bool {
	for _, held := range b[profileID][date] {
		if held.Overlaps(window) {
			return true
		}
	}
	return false
}

// filterEligible produces the candidate list for one slot. A profile is
// excluded when the resolver returns unavailable for the slot's date and
// window, or when it already holds an overlapping assignment that day.
func filterEligible(
	resolver *availability.Resolver,
	pool []model.Profile,
	booked bookingIndex,
	date model.Date,
	window model.Window,
) []Candidate {
	candidates := make([]Candidate, 0, len(pool))

	for _, profile := range pool {
		status := resolver.Resolve(profile.ID, date, window)
		if status == model.StatusUnavailable {
			continue
		}
		if booked.overlaps(profile.ID, date, window) {
			continue
		}
		candidates = append(candidates, Candidate{Profile: profile, Status: status})
	}

	return candidates
}
