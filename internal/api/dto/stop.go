package dto

type CoordinateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type StopResponse struct {
	DeliveryID     string        `json:"delivery_id"`
	OrderReference string        `json:"order_reference"`
	ClientName     string        `json:"client_name"`
	Address        string        `json:"address"`
	Coordinate     CoordinateDTO `json:"coordinate"`
	Status         string        `json:"status"`
	EtaMinutes     *float64      `json:"eta_minutes,omitempty"`
	LegDistanceKm  *float64      `json:"leg_distance_km,omitempty"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}
