package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		delivery_id TEXT PRIMARY KEY,
		driver_id TEXT NOT NULL,
		delivery_date DATE NOT NULL,
		order_reference TEXT NOT NULL,
		client_name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'ASSIGNED'
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS driver_routes (
		driver_id TEXT PRIMARY KEY,
		stops JSONB NOT NULL,
		total_distance_km DOUBLE PRECISION,
		total_duration_minutes DOUBLE PRECISION,
		encoded_path TEXT,
		computed_at TIMESTAMPTZ NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_deliveries_driver_date
	ON deliveries(driver_id, delivery_date);
	`

	statements := []string{
		createDeliveriesQuery,
		createRoutesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DeliverySeed struct {
	DeliveryID     string  `json:"delivery_id"`
	DriverID       string  `json:"driver_id"`
	DeliveryDate   string  `json:"delivery_date"`
	OrderReference string  `json:"order_reference"`
	ClientName     string  `json:"client_name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Status         string  `json:"status"`
}

// Populate the database with delivery data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed deliveries: read %q: %w", jsonPath, err)
	}

	var data []DeliverySeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed deliveries: parse json: %w", err)
	}

	rows := make([]DeliverySeed, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(item.DeliveryID) == "" {
			return fmt.Errorf("seed deliveries: item at index %d: delivery_id cannot be empty", i+1)
		}
		if strings.TrimSpace(item.DriverID) == "" {
			return fmt.Errorf("seed deliveries: item at index %d: driver_id cannot be empty", i+1)
		}
		if item.Status == "" {
			item.Status = "ASSIGNED"
		}
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO deliveries (
		delivery_id, driver_id, delivery_date, order_reference,
		client_name, address, lat, lng, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (delivery_id) DO UPDATE
	SET driver_id = EXCLUDED.driver_id,
		delivery_date = EXCLUDED.delivery_date,
		order_reference = EXCLUDED.order_reference,
		client_name = EXCLUDED.client_name,
		address = EXCLUDED.address,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		status = EXCLUDED.status;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed deliveries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		_, err := stmt.Exec(
			d.DeliveryID, d.DriverID, d.DeliveryDate, d.OrderReference,
			d.ClientName, d.Address, d.Lat, d.Lng, d.Status,
		)
		if err != nil {
			return fmt.Errorf("seed deliveries: insert delivery_id=%s: %w", d.DeliveryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed deliveries: commit tx: %w", err)
	}

	return nil
}
