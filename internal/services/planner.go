package services

import (
	"context"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Planner is the recalculation trigger: it re-reads a driver's current
// stops, assembles a fresh route, and publishes the result. Each
// invocation is a short-lived, stateless unit of work; invocations for
// different drivers are safe to run concurrently without coordination.
type Planner struct {
	Repo      ports.StopRepository
	Provider  ports.DirectionsProvider
	Store     ports.RouteStore
	Snapshots ports.RouteSnapshotStore

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Recalculate invalidates and regenerates the route for one driver.
//
// The origin policy (shift-start depot vs. last GPS ping) is owned by the
// caller. With no intervening state change the stop ordering is
// reproducible, though live provider durations may vary call to call.
// Concurrent recalculations for the same driver are last-write-wins: the
// Route is a derived view, not a ledger.
func (p *Planner) Recalculate(ctx context.Context, driverID string, origin domain.Coordinate) (domain.Route, error) {
	stops, err := p.Repo.ListStopsForDriver(ctx, driverID, p.now())
	if err != nil {
		return domain.Route{}, fmt.Errorf("recalculate: list stops for driver %s: %w", driverID, err)
	}

	route, err := Assemble(ctx, driverID, origin, stops, p.Provider)
	if err != nil {
		return domain.Route{}, fmt.Errorf("recalculate: %w", err)
	}

	if p.Store != nil {
		if err := p.Store.SaveRoute(ctx, route); err != nil {
			return domain.Route{}, fmt.Errorf("recalculate: save route for driver %s: %w", driverID, err)
		}
	}

	// Snapshot publication is best-effort; the computed route is already
	// durable and returned to the caller either way.
	if p.Snapshots != nil {
		if err := p.Snapshots.PutLatest(ctx, route); err != nil {
			log.Printf("driver_id=%s route snapshot publish failed: %v", driverID, err)
		}
	}

	return route, nil
}

// One driver's input to a bulk recalculation.
type RecalculateRequest struct {
	DriverID string
	Origin   domain.Coordinate
}

// RecalculateAll fans out per-driver recalculations with bounded
// concurrency. Failures are collected per driver rather than cancelling
// siblings: one driver's bad data must not block the rest of the fleet.
func (p *Planner) RecalculateAll(ctx context.Context, reqs []RecalculateRequest) ([]domain.Route, error) {
	routes := make([]domain.Route, len(reqs))
	errs := make([]error, len(reqs))

	var g errgroup.Group
	g.SetLimit(5)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			// Each goroutine writes only its own index.
			route, err := p.Recalculate(ctx, req.DriverID, req.Origin)
			if err != nil {
				errs[i] = fmt.Errorf("driver %s: %w", req.DriverID, err)
				return nil
			}
			routes[i] = route
			return nil
		})
	}

	_ = g.Wait()

	kept := make([]domain.Route, 0, len(reqs))
	for i, r := range routes {
		if errs[i] == nil {
			kept = append(kept, r)
		}
	}

	return kept, errors.Join(errs...)
}
