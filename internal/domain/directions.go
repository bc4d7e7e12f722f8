package domain

// One travel leg between two consecutive points of a directions response.
type Leg struct {
	DistanceMeters  int
	DurationSeconds int
	Start           Coordinate
	End             Coordinate
}

// Transient result of one directions-provider call. It is never persisted
// as-is; the route assembler folds it into a Route.
//
// Stops carries the input stops already remapped into final visiting order
// (provider re-optimization applied). Legs[i] is the leg arriving at
// Stops[i]; Legs[0] starts at the request origin. When the provider request
// was truncated to its waypoint limit, len(Legs) < len(Stops) and the
// unrouted tail keeps the heuristic order with no legs.
type DirectionsResult struct {
	Stops         []Stop
	Legs          []Leg
	WaypointOrder []int
	EncodedPath   string
}
