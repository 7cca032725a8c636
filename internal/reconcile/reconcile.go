// Package reconcile computes the deduplicated "latest state per property"
// view over the append-only snapshot log.
package reconcile

import (
	"sort"

	"quintopanel/server/internal/models"
)

// LatestView reduces an observation log to at most one row per property id:
// the observation with the maximum ObservedAt. The log is stable-sorted by
// ObservedAt ascending and the last occurrence per id wins, so rows with
// exactly equal timestamps (including all-zero timestamps from logs without
// capture times) resolve to whichever came later in the input. Output keeps
// the sorted order.
//
// The input slice is not modified. Applying LatestView to its own output is
// a no-op.
func LatestView(observations []models.Observation) []models.Observation {
	if len(observations) == 0 {
		return []models.Observation{}
	}

	sorted := make([]models.Observation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ObservedAt.Before(sorted[j].ObservedAt)
	})

	lastIndex := make(map[string]int, len(sorted))
	for i, obs := range sorted {
		lastIndex[obs.PropertyID] = i
	}

	view := make([]models.Observation, 0, len(lastIndex))
	for i, obs := range sorted {
		if lastIndex[obs.PropertyID] == i {
			view = append(view, obs)
		}
	}
	return view
}

// DistinctProperties counts distinct property ids in a set of observations.
func DistinctProperties(observations []models.Observation) int {
	seen := make(map[string]struct{}, len(observations))
	for _, obs := range observations {
		seen[obs.PropertyID] = struct{}{}
	}
	return len(seen)
}
