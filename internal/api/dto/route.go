package dto

import "time"

type RecalculateRequest struct {
	DriverID string        `json:"driver_id"`
	Origin   CoordinateDTO `json:"origin"`
}

type RouteResponse struct {
	DriverID             string         `json:"driver_id"`
	Stops                []StopResponse `json:"stops"`
	ComputedAt           time.Time      `json:"computed_at"`
	TotalDistanceKm      *float64       `json:"total_distance_km,omitempty"`
	TotalDurationMinutes *float64       `json:"total_duration_minutes,omitempty"`
	EncodedPath          string         `json:"encoded_path,omitempty"`
	Degraded             bool           `json:"degraded"`
}
