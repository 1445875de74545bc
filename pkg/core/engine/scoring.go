package engine

import (
	"math/rand"
	"sort"

	"github.com/calvertross/rosterd/pkg/core/model"
)

// Base score tiers for resolved availability. The gap between tiers bounds
// the tie-break range: perturbation must never promote an available
// candidate above a preferred one.
const (
	BasePreferred = 2.0
	BaseAvailable = 1.0

	// DefaultFairnessWeight is subtracted per assignment the candidate
	// already holds in this run. At 0.5, two extra assignments outweigh a
	// preferred-over-available edge.
	DefaultFairnessWeight = 0.5

	// DefaultTieBreakRange bounds the random perturbation added to every
	// score. Must stay below the gap between base tiers.
	DefaultTieBreakRange = 0.1
)

// scoreCandidates scores each candidate and sorts the slice best-first.
//
// score = base(status) - runCount*fairnessWeight + tieBreak
//
// The tie-break is drawn from the run-scoped rng, so equal candidates are
// ordered randomly within a run rather than by pool order, and the whole
// run is reproducible from its seed.
func scoreCandidates(
	candidates []Candidate,
	runCounts map[string]int,
	fairnessWeight float64,
	tieBreakRange float64,
	rng *rand.Rand,
) {
	for i := range candidates {
		c := &candidates[i]

		base := BaseAvailable
		if c.Status == model.StatusPreferred {
			base = BasePreferred
		}

		fairness := float64(runCounts[c.Profile.ID]) * fairnessWeight
		tieBreak := rng.Float64() * tieBreakRange

		c.score = base - fairness + tieBreak
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
}
