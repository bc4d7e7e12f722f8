package snapshot

import (
	"context"
	"driver-route-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteSnapshot implements the RouteSnapshotStore port.
//
// It holds the latest computed route per driver so the presentation layer
// can re-display a route without triggering recomputation. This is a cache
// of our own derived view, not of directions-provider responses (those are
// never cached; durations are traffic-aware). Entries expire with the
// planning horizon.
type RedisRouteSnapshot struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRouteSnapshot(client *redis.Client, ttl time.Duration) *RedisRouteSnapshot {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRouteSnapshot{client: client, ttl: ttl}
}

func key(driverID string) string {
	return "route:latest:" + driverID
}

type snapshotStop struct {
	DeliveryID     string   `json:"delivery_id"`
	OrderReference string   `json:"order_reference"`
	ClientName     string   `json:"client_name"`
	Address        string   `json:"address"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Status         string   `json:"status"`
	EtaMinutes     *float64 `json:"eta_minutes,omitempty"`
	LegDistanceKm  *float64 `json:"leg_distance_km,omitempty"`
}

type snapshotRoute struct {
	DriverID             string         `json:"driver_id"`
	Stops                []snapshotStop `json:"stops"`
	ComputedAt           time.Time      `json:"computed_at"`
	TotalDistanceKm      *float64       `json:"total_distance_km,omitempty"`
	TotalDurationMinutes *float64       `json:"total_duration_minutes,omitempty"`
	EncodedPath          string         `json:"encoded_path,omitempty"`
}

// Publish the latest route for a driver, replacing any previous snapshot.
func (r *RedisRouteSnapshot) PutLatest(ctx context.Context, route domain.Route) error {
	if route.DriverID == "" {
		return errors.New("put route snapshot: driverID must be non-empty")
	}

	stops := make([]snapshotStop, 0, len(route.Stops))
	for _, s := range route.Stops {
		stops = append(stops, snapshotStop{
			DeliveryID:     s.DeliveryID,
			OrderReference: s.OrderReference,
			ClientName:     s.ClientName,
			Address:        s.Address,
			Lat:            s.Coordinate.Lat,
			Lng:            s.Coordinate.Lng,
			Status:         string(s.Status),
			EtaMinutes:     s.EtaMinutes,
			LegDistanceKm:  s.LegDistanceKm,
		})
	}

	payload, err := json.Marshal(snapshotRoute{
		DriverID:             route.DriverID,
		Stops:                stops,
		ComputedAt:           route.ComputedAt,
		TotalDistanceKm:      route.TotalDistanceKm,
		TotalDurationMinutes: route.TotalDurationMinutes,
		EncodedPath:          route.EncodedPath,
	})
	if err != nil {
		return fmt.Errorf("put route snapshot: marshal: %w", err)
	}

	if err := r.client.Set(ctx, key(route.DriverID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("put route snapshot: driver_id=%s: %w", route.DriverID, err)
	}

	return nil
}

// Return the latest route snapshot for a driver, if one exists.
func (r *RedisRouteSnapshot) GetLatest(ctx context.Context, driverID string) (domain.Route, bool, error) {
	if driverID == "" {
		return domain.Route{}, false, errors.New("get route snapshot: driverID must be non-empty")
	}

	raw, err := r.client.Get(ctx, key(driverID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route snapshot: driver_id=%s: %w", driverID, err)
	}

	var decoded snapshotRoute
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route snapshot: unmarshal: %w", err)
	}

	stops := make([]domain.Stop, 0, len(decoded.Stops))
	for _, s := range decoded.Stops {
		stops = append(stops, domain.Stop{
			DeliveryID:     s.DeliveryID,
			OrderReference: s.OrderReference,
			ClientName:     s.ClientName,
			Address:        s.Address,
			Coordinate:     domain.Coordinate{Lat: s.Lat, Lng: s.Lng},
			Status:         domain.StopStatus(s.Status),
			EtaMinutes:     s.EtaMinutes,
			LegDistanceKm:  s.LegDistanceKm,
		})
	}

	return domain.Route{
		DriverID:             decoded.DriverID,
		Stops:                stops,
		ComputedAt:           decoded.ComputedAt,
		TotalDistanceKm:      decoded.TotalDistanceKm,
		TotalDurationMinutes: decoded.TotalDurationMinutes,
		EncodedPath:          decoded.EncodedPath,
	}, true, nil
}
