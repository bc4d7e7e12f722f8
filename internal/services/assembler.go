package services

import (
	"context"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/platform/obs"
	"driver-route-service/internal/ports"
	"fmt"
	"log"
	"time"
)

// Assemble merges the heuristic stop order with real travel legs from the
// directions provider into a single Route.
//
// Terminal stops (delivered or in exception) are excluded up front. With no
// remaining stops the result is an empty Route and no network call is made.
// Provider unavailability is absorbed: after at most one retry the route
// falls back to the pure heuristic order with all optional fields absent.
// Only an invalid coordinate propagates as an error.
func Assemble(
	ctx context.Context,
	driverID string,
	origin domain.Coordinate,
	stops []domain.Stop,
	provider ports.DirectionsProvider,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "services.Assemble")(&err)

	if err := origin.Validate(); err != nil {
		return domain.Route{}, fmt.Errorf("assemble route: driver %s origin: %w", driverID, err)
	}

	active := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		if s.Status.Terminal() {
			continue
		}
		if err := s.Coordinate.Validate(); err != nil {
			return domain.Route{}, fmt.Errorf("assemble route: delivery %s: %w", s.DeliveryID, err)
		}
		active = append(active, s)
	}

	route := domain.Route{
		DriverID:   driverID,
		Stops:      []domain.Stop{},
		ComputedAt: time.Now().UTC(),
	}

	// Nothing left to deliver is success, not an error.
	if len(active) == 0 {
		return route, nil
	}

	ordered := Sequence(origin, active)

	result, err := fetchWithRetry(ctx, provider, origin, ordered)
	if err != nil {
		// Degraded but valid: heuristic order, no leg annotations, no totals.
		log.Printf("driver_id=%s directions unavailable, using heuristic order: %v", driverID, err)
		route.Stops = ordered
		return route, nil
	}

	route.Stops = annotate(origin, result)
	route.EncodedPath = result.EncodedPath

	totalKm := 0.0
	totalMin := 0.0
	for _, leg := range result.Legs {
		totalKm += float64(leg.DistanceMeters) / 1000
		totalMin += float64(leg.DurationSeconds) / 60
	}
	route.TotalDistanceKm = &totalKm
	route.TotalDurationMinutes = &totalMin

	return route, nil
}

// fetchWithRetry issues the directions call with at most one retry to
// absorb transient network blips. The whole pipeline is never retried.
func fetchWithRetry(
	ctx context.Context,
	provider ports.DirectionsProvider,
	origin domain.Coordinate,
	ordered []domain.Stop,
) (domain.DirectionsResult, error) {
	result, err := provider.FetchDirections(ctx, origin, ordered, true)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return domain.DirectionsResult{}, err
	}
	return provider.FetchDirections(ctx, origin, ordered, true)
}

// annotate copies the provider-ordered stops and fills in each stop's
// incoming-leg distance and cumulative ETA. The first leg is measured from
// the driver's origin. Stops beyond the provider's waypoint window (no
// corresponding leg) keep their base attributes only.
func annotate(origin domain.Coordinate, result domain.DirectionsResult) []domain.Stop {
	stops := make([]domain.Stop, len(result.Stops))
	copy(stops, result.Stops)

	elapsedMin := 0.0
	for i := range stops {
		if i >= len(result.Legs) {
			break
		}
		leg := result.Legs[i]

		legKm := float64(leg.DistanceMeters) / 1000
		elapsedMin += float64(leg.DurationSeconds) / 60

		eta := elapsedMin
		stops[i].LegDistanceKm = &legKm
		stops[i].EtaMinutes = &eta
	}

	return stops
}
