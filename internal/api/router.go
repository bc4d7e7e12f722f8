package api

import (
	"driver-route-service/internal/api/handlers"
	"driver-route-service/internal/ports"
	"driver-route-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.Planner, repo ports.StopRepository, snapshots ports.RouteSnapshotStore) http.Handler {
	mux := http.NewServeMux()

	stopHandler := &handlers.StopHandler{Repo: repo}
	routeHandler := &handlers.RouteHandler{
		Planner:   planner,
		Snapshots: snapshots,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stops", stopHandler.List)
	mux.HandleFunc("/routes/recalculate", routeHandler.Recalculate)
	mux.HandleFunc("/routes/latest", routeHandler.Latest)

	return loggingMiddleware(mux)
}
