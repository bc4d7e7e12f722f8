package services

import (
	"driver-route-service/internal/domain"
)

// Sequence orders stops with a greedy nearest-neighbor tour heuristic.
//
// The algorithm minimizes immediate haversine distance at each step. It
// does not attempt global tour optimization (the directions provider later
// re-optimizes a bounded waypoint window); the design prioritizes a
// deterministic, explainable fallback order over optimality.
//
// Stops equidistant from the current position are broken by deliveryId
// ascending, so repeated calls over the same input always produce the same
// order. The input slice is not modified; callers must validate coordinates
// before invoking.
func Sequence(origin domain.Coordinate, stops []domain.Stop) []domain.Stop {
	if len(stops) == 0 {
		return []domain.Stop{}
	}

	remaining := make([]domain.Stop, len(stops))
	copy(remaining, stops)

	ordered := make([]domain.Stop, 0, len(stops))
	current := origin

	for len(remaining) > 0 {
		best := 0
		bestDist := HaversineKm(current, remaining[0].Coordinate)

		for i := 1; i < len(remaining); i++ {
			d := HaversineKm(current, remaining[i].Coordinate)
			// Tie-breaker ensures deterministic ordering when stops are equidistant.
			if d < bestDist || (d == bestDist && remaining[i].DeliveryID < remaining[best].DeliveryID) {
				bestDist = d
				best = i
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		remaining = append(remaining[:best], remaining[best+1:]...)
		current = next.Coordinate
	}

	return ordered
}
