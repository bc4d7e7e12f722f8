package handlers

import (
	"driver-route-service/internal/api/dto"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/ports"
	"log"
	"net/http"
	"strings"
	"time"
)

// StopHandler exposes read-only delivery stop retrieval endpoints.
type StopHandler struct {
	Repo ports.StopRepository
}

func (h *StopHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	driverID := strings.TrimSpace(r.URL.Query().Get("driver_id"))
	if driverID == "" {
		writeError(w, r, http.StatusBadRequest, "driver_id is required")
		return
	}

	stops, err := h.Repo.ListStopsForDriver(r.Context(), driverID, time.Now())
	if err != nil {
		log.Printf("list stops failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStopsResponse{
		Stops: make([]dto.StopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, stopToDTO(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func stopToDTO(s domain.Stop) dto.StopResponse {
	return dto.StopResponse{
		DeliveryID:     s.DeliveryID,
		OrderReference: s.OrderReference,
		ClientName:     s.ClientName,
		Address:        s.Address,
		Coordinate:     dto.CoordinateDTO{Lat: s.Coordinate.Lat, Lng: s.Coordinate.Lng},
		Status:         string(s.Status),
		EtaMinutes:     s.EtaMinutes,
		LegDistanceKm:  s.LegDistanceKm,
	}
}
