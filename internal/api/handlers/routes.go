package handlers

import (
	"driver-route-service/internal/api/dto"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/ports"
	"driver-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
)

// RouteHandler exposes route recalculation and latest-route retrieval.
// Recalculation is explicitly user- or event-triggered: the service never
// recomputes routes on a timer.
type RouteHandler struct {
	Planner   *services.Planner
	Snapshots ports.RouteSnapshotStore
}

// Recalculate regenerates the route for one driver from its current stops.
func (h *RouteHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RecalculateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	driverID := strings.TrimSpace(req.DriverID)
	if driverID == "" {
		writeError(w, r, http.StatusBadRequest, "driver_id is required")
		return
	}

	origin := domain.Coordinate{Lat: req.Origin.Lat, Lng: req.Origin.Lng}
	if err := origin.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "origin is out of range")
		return
	}

	route, err := h.Planner.Recalculate(r.Context(), driverID, origin)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			// A stored stop with an out-of-range coordinate is a
			// data-integrity bug upstream, not a transient condition.
			log.Printf("recalculate rejected: %v", err)
			writeError(w, r, http.StatusUnprocessableEntity, "a delivery has an invalid coordinate")
			return
		}
		log.Printf("recalculate failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, routeToDTO(route))
}

// Latest serves the last published route snapshot for a driver.
func (h *RouteHandler) Latest(w http.ResponseWriter, r *http.Request) {
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

	route, ok, err := h.Snapshots.GetLatest(r.Context(), driverID)
	if err != nil {
		log.Printf("get latest route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "no route for driver")
		return
	}

	writeJSON(w, r, http.StatusOK, routeToDTO(route))
}

func routeToDTO(route domain.Route) dto.RouteResponse {
	stops := make([]dto.StopResponse, 0, len(route.Stops))
	for _, s := range route.Stops {
		stops = append(stops, stopToDTO(s))
	}

	return dto.RouteResponse{
		DriverID:             route.DriverID,
		Stops:                stops,
		ComputedAt:           route.ComputedAt,
		TotalDistanceKm:      route.TotalDistanceKm,
		TotalDurationMinutes: route.TotalDurationMinutes,
		EncodedPath:          route.EncodedPath,
		Degraded:             route.Degraded(),
	}
}
