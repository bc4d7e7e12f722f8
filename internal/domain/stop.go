package domain

// Delivery status as reported by the assignment subsystem.
type StopStatus string

const (
	StatusAssigned  StopStatus = "ASSIGNED"
	StatusPickedUp  StopStatus = "PICKED_UP"
	StatusInTransit StopStatus = "IN_TRANSIT"
	StatusDelivered StopStatus = "DELIVERED"
	StatusException StopStatus = "EXCEPTION"
)

// Terminal reports whether the delivery will not be revisited.
// Terminal stops are excluded from freshly computed routes.
func (s StopStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusException
}

// Represents a single delivery to visit on a driver's route.
// A Stop is owned by the delivery-assignment subsystem and consumed
// read-only here; the route assembler annotates route-scoped copies,
// never the source records.
type Stop struct {
	DeliveryID     string
	OrderReference string
	ClientName     string
	Address        string
	Coordinate     Coordinate
	Status         StopStatus

	// Filled in during route assembly, absent beforehand.
	EtaMinutes    *float64
	LegDistanceKm *float64
}
