package ports

import (
	"context"
	"driver-route-service/internal/domain"
	"time"
)

// Port: read-only view of a driver's assigned deliveries.
// The storage layer filters to one driver and one day; this core trusts
// the filter and does not re-validate ownership.
type StopRepository interface {
	// Return the driver's non-terminal stops for the given day.
	ListStopsForDriver(ctx context.Context, driverID string, day time.Time) ([]domain.Stop, error)
}
