package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate reports a coordinate outside the valid lat/lng range.
// It indicates a data-integrity problem upstream, not a transient condition.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Immutable geographic coordinate (latitude, longitude) in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Validate rejects coordinates outside [-90, 90] latitude or
// [-180, 180] longitude. Out-of-range values are never clamped.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}
