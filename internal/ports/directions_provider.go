package ports

import (
	"context"
	"driver-route-service/internal/domain"
	"errors"
)

// ErrDirectionsUnavailable collapses every directions failure mode
// (network error, non-success provider status, empty route set) into a
// single signal. Callers degrade identically for all three and never
// inspect the underlying cause.
var ErrDirectionsUnavailable = errors.New("directions unavailable")

// Contract for retrieving real travel legs for an ordered stop sequence.
type DirectionsProvider interface {
	// FetchDirections performs exactly one outbound call to the external
	// routing provider. It must not retry internally (retry policy belongs
	// to the caller) and must not cache (durations are traffic-aware).
	// With reoptimize set, the provider's returned waypoint permutation is
	// applied to the stops before returning, so the result is always in
	// final visiting order.
	FetchDirections(ctx context.Context, origin domain.Coordinate, orderedStops []domain.Stop, reoptimize bool) (domain.DirectionsResult, error)
}
