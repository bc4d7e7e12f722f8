package services

import (
	"driver-route-service/internal/domain"
	"math"
)

// Earth radius in kilometers.
const earthRadiusKm = 6371.0

// HaversineKm computes the great-circle distance between two coordinates.
//
// It is a cheap ordering heuristic for the tour sequencer, never shown to
// the user as authoritative distance (real legs come from the directions
// provider). Symmetric, deterministic, zero for equal points.
func HaversineKm(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lng1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lng2 := b.Lng * math.Pi / 180

	dlat := lat2 - lat1
	dlng := lng2 - lng1

	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
