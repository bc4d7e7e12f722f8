package repositories

import (
	"context"
	"database/sql"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the RouteStore port.
//
// One row per driver: a Route is a disposable derived view, so a newer
// computation simply replaces the previous one (last-write-wins).
type SQLRouteStore struct{ DB *sql.DB }

func NewSQLRouteStore(db *sql.DB) *SQLRouteStore {
	return &SQLRouteStore{DB: db}
}

type storedStop struct {
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

// Persist a computed route summary, replacing any previous one for the driver.
func (s *SQLRouteStore) SaveRoute(ctx context.Context, route domain.Route) (err error) {
	defer obs.Time(ctx, "routes.SaveRoute")(&err)

	if s.DB == nil {
		return errors.New("route store: DB is nil")
	}
	if route.DriverID == "" {
		return errors.New("save route: driverID must be non-empty")
	}

	stops := make([]storedStop, 0, len(route.Stops))
	for _, st := range route.Stops {
		stops = append(stops, storedStop{
			DeliveryID:     st.DeliveryID,
			OrderReference: st.OrderReference,
			ClientName:     st.ClientName,
			Address:        st.Address,
			Lat:            st.Coordinate.Lat,
			Lng:            st.Coordinate.Lng,
			Status:         string(st.Status),
			EtaMinutes:     st.EtaMinutes,
			LegDistanceKm:  st.LegDistanceKm,
		})
	}

	payload, err := json.Marshal(stops)
	if err != nil {
		return fmt.Errorf("save route: marshal stops: %w", err)
	}

	query := `
	INSERT INTO driver_routes (
		driver_id, stops, total_distance_km, total_duration_minutes, encoded_path, computed_at
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (driver_id) DO UPDATE
	SET stops = EXCLUDED.stops,
		total_distance_km = EXCLUDED.total_distance_km,
		total_duration_minutes = EXCLUDED.total_duration_minutes,
		encoded_path = EXCLUDED.encoded_path,
		computed_at = EXCLUDED.computed_at;
	`

	var encodedPath sql.NullString
	if route.EncodedPath != "" {
		encodedPath = sql.NullString{String: route.EncodedPath, Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, query,
		route.DriverID,
		payload,
		nullFloat(route.TotalDistanceKm),
		nullFloat(route.TotalDurationMinutes),
		encodedPath,
		route.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("save route: driver_id=%s: %w", route.DriverID, err)
	}

	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
