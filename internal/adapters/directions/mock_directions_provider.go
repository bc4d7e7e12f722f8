package directions

import (
	"context"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/ports"
)

// MockDirectionsProvider returns scripted results for tests.
//
// With Unavailable set, every call fails with ErrDirectionsUnavailable.
// With a Script function set, that function produces the result; otherwise
// the provider echoes the input order with uniform synthetic legs.
type MockDirectionsProvider struct {
	Unavailable bool
	Script      func(origin domain.Coordinate, stops []domain.Stop) domain.DirectionsResult

	// Calls counts invocations, letting tests assert on network behavior
	// (e.g. no call for an empty route, exactly one retry).
	Calls int
}

func (m *MockDirectionsProvider) FetchDirections(
	ctx context.Context,
	origin domain.Coordinate,
	orderedStops []domain.Stop,
	reoptimize bool,
) (domain.DirectionsResult, error) {
	m.Calls++

	if m.Unavailable {
		return domain.DirectionsResult{}, ports.ErrDirectionsUnavailable
	}

	if m.Script != nil {
		return m.Script(origin, orderedStops), nil
	}

	legs := make([]domain.Leg, 0, len(orderedStops))
	prev := origin
	for _, s := range orderedStops {
		legs = append(legs, domain.Leg{
			DistanceMeters:  1000,
			DurationSeconds: 300,
			Start:           prev,
			End:             s.Coordinate,
		})
		prev = s.Coordinate
	}

	return domain.DirectionsResult{
		Stops:       orderedStops,
		Legs:        legs,
		EncodedPath: "mock-path",
	}, nil
}
