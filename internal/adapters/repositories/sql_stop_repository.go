package repositories

import (
	"context"
	"database/sql"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"
)

// Postgres-backed implementation of the StopRepository port.
type SQLStopRepository struct{ DB *sql.DB }

func NewSQLStopRepository(db *sql.DB) *SQLStopRepository {
	return &SQLStopRepository{DB: db}
}

// Return the driver's non-terminal stops for the given day.
// Terminal deliveries are filtered server-side so route computation never
// sees them; ownership filtering happens here too and is trusted upstream.
func (s *SQLStopRepository) ListStopsForDriver(
	ctx context.Context,
	driverID string,
	day time.Time,
) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "stops.ListStopsForDriver")(&err)

	if s.DB == nil {
		return nil, errors.New("stop repository: DB is nil")
	}
	if driverID == "" {
		return nil, errors.New("list stops: driverID must be non-empty")
	}

	query := `
	SELECT
		delivery_id,
		order_reference,
		client_name,
		address,
		lat,
		lng,
		status
	FROM deliveries
	WHERE driver_id = $1
		AND delivery_date = $2
		AND status NOT IN ('DELIVERED', 'EXCEPTION')
	ORDER BY delivery_id;
	`

	rows, err := s.DB.QueryContext(ctx, query, driverID, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list stops: query deliveries table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 16)
	for rows.Next() {
		var stop domain.Stop
		var status string
		err := rows.Scan(
			&stop.DeliveryID,
			&stop.OrderReference,
			&stop.ClientName,
			&stop.Address,
			&stop.Coordinate.Lat,
			&stop.Coordinate.Lng,
			&status,
		)
		if err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stop.Status = domain.StopStatus(status)
		stops = append(stops, stop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}
