package ports

import (
	"context"
	"driver-route-service/internal/domain"
)

// Port: durable persistence for computed route summaries.
// A Route is a derived view, so writes are last-write-wins per driver.
type RouteStore interface {
	SaveRoute(ctx context.Context, route domain.Route) error
}

// Port: fast-read snapshot of the latest route per driver, serving the
// presentation layer without recomputation.
type RouteSnapshotStore interface {
	PutLatest(ctx context.Context, route domain.Route) error
	// GetLatest returns ok=false when no snapshot exists for the driver.
	GetLatest(ctx context.Context, driverID string) (domain.Route, bool, error)
}
