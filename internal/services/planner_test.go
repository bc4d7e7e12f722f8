package services

import (
	"context"
	"driver-route-service/internal/adapters/directions"
	"driver-route-service/internal/domain"
	"errors"
	"testing"
	"time"
)

type fakeStopRepo struct {
	stops map[string][]domain.Stop
	err   error
}

func (f *fakeStopRepo) ListStopsForDriver(ctx context.Context, driverID string, day time.Time) ([]domain.Stop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stops[driverID], nil
}

type fakeRouteStore struct {
	saved []domain.Route
}

func (f *fakeRouteStore) SaveRoute(ctx context.Context, route domain.Route) error {
	f.saved = append(f.saved, route)
	return nil
}

func TestPlannerRecalculate(t *testing.T) {
	repo := &fakeStopRepo{stops: map[string][]domain.Stop{
		"drv-1": {
			stop("A", 41.90, 12.48),
			stop("B", 41.91, 12.47),
			stop("C", 41.89, 12.49),
		},
	}}
	store := &fakeRouteStore{}

	planner := &Planner{
		Repo:     repo,
		Provider: &directions.MockDirectionsProvider{},
		Store:    store,
	}

	route, err := planner.Recalculate(context.Background(), "drv-1", domain.Coordinate{Lat: 41.90, Lng: 12.50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if route.DriverID != "drv-1" {
		t.Fatalf("driver id = %q, want drv-1", route.DriverID)
	}
	if len(route.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(route.Stops))
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 persisted route, got %d", len(store.saved))
	}
}

func TestPlannerRecalculateIdempotentOrdering(t *testing.T) {
	repo := &fakeStopRepo{stops: map[string][]domain.Stop{
		"drv-1": {
			stop("d-1", 41.88, 12.52),
			stop("d-2", 41.91, 12.46),
			stop("d-3", 41.93, 12.43),
		},
	}}

	planner := &Planner{
		Repo:     repo,
		Provider: &directions.MockDirectionsProvider{Unavailable: true},
	}

	origin := domain.Coordinate{Lat: 41.90, Lng: 12.50}

	first, err := planner.Recalculate(context.Background(), "drv-1", origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := planner.Recalculate(context.Background(), "drv-1", origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, b := orderOf(first.Stops), orderOf(second.Stops)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("orders differ across calls: %v vs %v", a, b)
		}
	}
}

func TestPlannerRecalculateAllCollectsFailures(t *testing.T) {
	repo := &fakeStopRepo{stops: map[string][]domain.Stop{
		"drv-1": {stop("A", 41.90, 12.48)},
		"drv-2": {stop("B", 95.0, 12.47)}, // invalid latitude
		"drv-3": {stop("C", 41.89, 12.49)},
	}}

	planner := &Planner{
		Repo:     repo,
		Provider: &directions.MockDirectionsProvider{},
	}

	reqs := []RecalculateRequest{
		{DriverID: "drv-1", Origin: domain.Coordinate{Lat: 41.90, Lng: 12.50}},
		{DriverID: "drv-2", Origin: domain.Coordinate{Lat: 41.90, Lng: 12.50}},
		{DriverID: "drv-3", Origin: domain.Coordinate{Lat: 41.90, Lng: 12.50}},
	}

	routes, err := planner.RecalculateAll(context.Background(), reqs)

	if len(routes) != 2 {
		t.Fatalf("expected 2 successful routes, got %d", len(routes))
	}
	if err == nil {
		t.Fatal("expected joined error for the failed driver")
	}
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate in joined error, got %v", err)
	}
}
