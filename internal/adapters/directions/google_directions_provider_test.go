package directions

import (
	"context"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/ports"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testStops(n int) []domain.Stop {
	stops := make([]domain.Stop, 0, n)
	for i := 0; i < n; i++ {
		stops = append(stops, domain.Stop{
			DeliveryID: fmt.Sprintf("d-%d", i+1),
			Status:     domain.StatusAssigned,
			Coordinate: domain.Coordinate{Lat: 41.90 + float64(i)*0.01, Lng: 12.50 - float64(i)*0.01},
		})
	}
	return stops
}

func legsJSON(n int) string {
	legs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		legs = append(legs, fmt.Sprintf(`{
			"distance": {"value": %d},
			"duration": {"value": %d},
			"start_location": {"lat": 41.9, "lng": 12.5},
			"end_location": {"lat": 41.91, "lng": 12.49}
		}`, (i+1)*1000, (i+1)*120))
	}
	return "[" + strings.Join(legs, ",") + "]"
}

func newTestProvider(t *testing.T, handler http.HandlerFunc, maxIntermediates int) (*GoogleDirectionsProvider, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewGoogleDirectionsProvider("test-key", time.Second, maxIntermediates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider.baseURL = server.URL

	return provider, server
}

func TestFetchDirectionsRemapsWaypointOrder(t *testing.T) {
	var gotQuery string

	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprintf(w, `{
			"status": "OK",
			"routes": [{
				"legs": %s,
				"waypoint_order": [2, 0, 1],
				"overview_polyline": {"points": "abc123"}
			}]
		}`, legsJSON(4))
	}, 0)

	origin := domain.Coordinate{Lat: 41.90, Lng: 12.50}
	stops := testStops(4) // d-1..d-3 intermediates, d-4 destination

	result, err := provider.FetchDirections(context.Background(), origin, stops, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"d-3", "d-1", "d-2", "d-4"}
	if len(result.Stops) != len(want) {
		t.Fatalf("got %d stops, want %d", len(result.Stops), len(want))
	}
	for i, id := range want {
		if result.Stops[i].DeliveryID != id {
			t.Fatalf("stop %d = %s, want %s", i, result.Stops[i].DeliveryID, id)
		}
	}

	if len(result.Legs) != 4 {
		t.Fatalf("got %d legs, want 4", len(result.Legs))
	}
	if result.Legs[0].DistanceMeters != 1000 || result.Legs[0].DurationSeconds != 120 {
		t.Fatalf("leg 0 = %+v, want 1000 m / 120 s", result.Legs[0])
	}
	if result.EncodedPath != "abc123" {
		t.Fatalf("encoded path = %q, want abc123", result.EncodedPath)
	}

	if !strings.Contains(gotQuery, "optimize%3Atrue") {
		t.Fatalf("request query missing optimize flag: %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "mode=driving") {
		t.Fatalf("request query missing driving mode: %s", gotQuery)
	}
}

func TestFetchDirectionsWithoutReoptimizationKeepsOrder(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status": "OK", "routes": [{"legs": %s, "overview_polyline": {"points": "p"}}]}`, legsJSON(3))
	}, 0)

	stops := testStops(3)

	result, err := provider.FetchDirections(context.Background(), domain.Coordinate{Lat: 41.90, Lng: 12.50}, stops, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range stops {
		if result.Stops[i].DeliveryID != stops[i].DeliveryID {
			t.Fatalf("stop %d = %s, want %s", i, result.Stops[i].DeliveryID, stops[i].DeliveryID)
		}
	}
}

func TestFetchDirectionsNonOKStatus(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "OVER_QUERY_LIMIT", "routes": []}`)
	}, 0)

	_, err := provider.FetchDirections(context.Background(), domain.Coordinate{Lat: 41.90, Lng: 12.50}, testStops(2), true)
	if !errors.Is(err, ports.ErrDirectionsUnavailable) {
		t.Fatalf("expected ErrDirectionsUnavailable, got %v", err)
	}
}

func TestFetchDirectionsEmptyRoutes(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "OK", "routes": []}`)
	}, 0)

	_, err := provider.FetchDirections(context.Background(), domain.Coordinate{Lat: 41.90, Lng: 12.50}, testStops(2), true)
	if !errors.Is(err, ports.ErrDirectionsUnavailable) {
		t.Fatalf("expected ErrDirectionsUnavailable, got %v", err)
	}
}

func TestFetchDirectionsNetworkFailure(t *testing.T) {
	provider, server := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {}, 0)
	server.Close()

	_, err := provider.FetchDirections(context.Background(), domain.Coordinate{Lat: 41.90, Lng: 12.50}, testStops(2), true)
	if !errors.Is(err, ports.ErrDirectionsUnavailable) {
		t.Fatalf("expected ErrDirectionsUnavailable, got %v", err)
	}
}

func TestFetchDirectionsTruncatesAtWaypointLimit(t *testing.T) {
	var gotWaypoints string

	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotWaypoints = r.URL.Query().Get("waypoints")
		fmt.Fprintf(w, `{"status": "OK", "routes": [{"legs": %s, "waypoint_order": [0], "overview_polyline": {"points": "p"}}]}`, legsJSON(2))
	}, 1)

	stops := testStops(4)

	result, err := provider.FetchDirections(context.Background(), domain.Coordinate{Lat: 41.90, Lng: 12.50}, stops, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One intermediate allowed: d-1 routed as waypoint, d-2 as
	// destination, d-3 and d-4 kept as an unrouted tail.
	if strings.Count(gotWaypoints, "|") != 1 {
		t.Fatalf("request waypoints = %q, want a single intermediate", gotWaypoints)
	}

	if len(result.Stops) != 4 {
		t.Fatalf("got %d stops, want all 4 back", len(result.Stops))
	}
	if len(result.Legs) != 2 {
		t.Fatalf("got %d legs, want 2", len(result.Legs))
	}
	if result.Stops[2].DeliveryID != "d-3" || result.Stops[3].DeliveryID != "d-4" {
		t.Fatalf("unrouted tail out of order: %s, %s", result.Stops[2].DeliveryID, result.Stops[3].DeliveryID)
	}
}

func TestFetchDirectionsSingleStop(t *testing.T) {
	var gotWaypoints string

	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotWaypoints = r.URL.Query().Get("waypoints")
		fmt.Fprintf(w, `{"status": "OK", "routes": [{"legs": %s, "overview_polyline": {"points": "p"}}]}`, legsJSON(1))
	}, 0)

	result, err := provider.FetchDirections(context.Background(), domain.Coordinate{Lat: 41.90, Lng: 12.50}, testStops(1), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotWaypoints != "" {
		t.Fatalf("single stop must not send waypoints, got %q", gotWaypoints)
	}
	if len(result.Stops) != 1 || len(result.Legs) != 1 {
		t.Fatalf("got %d stops / %d legs, want 1 / 1", len(result.Stops), len(result.Legs))
	}
}

func TestFetchDirectionsLegCountMismatch(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status": "OK", "routes": [{"legs": %s, "overview_polyline": {"points": "p"}}]}`, legsJSON(1))
	}, 0)

	_, err := provider.FetchDirections(context.Background(), domain.Coordinate{Lat: 41.90, Lng: 12.50}, testStops(3), false)
	if !errors.Is(err, ports.ErrDirectionsUnavailable) {
		t.Fatalf("expected ErrDirectionsUnavailable, got %v", err)
	}
}
