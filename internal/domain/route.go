package domain

import "time"

// Represents the planned visiting order for one driver's day.
// Position in Stops is the contract: index order is visiting order.
// A Route is a derived, disposable view and can be recomputed at any
// time; a Route with zero stops is valid and means "nothing left to do".
//
// The optional fields are present together when the external directions
// provider contributed real legs, and absent together on a degraded
// (heuristic-only) route.
type Route struct {
	DriverID   string
	Stops      []Stop
	ComputedAt time.Time

	TotalDistanceKm      *float64
	TotalDurationMinutes *float64
	EncodedPath          string
}

// Degraded reports whether the route was assembled without provider data.
func (r Route) Degraded() bool {
	return len(r.Stops) > 0 && r.TotalDistanceKm == nil
}
