package directions

import (
	"context"
	"driver-route-service/internal/domain"
	"driver-route-service/internal/platform/obs"
	"driver-route-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://maps.googleapis.com"
	defaultTimeout = 5 * time.Second

	// Google Directions caps intermediate waypoints per request.
	defaultMaxIntermediates = 23
)

// GoogleDirectionsProvider implements DirectionsProvider using the Google
// Directions API.
//
// Per the port contract it performs exactly one outbound call per
// invocation: no internal retry (the route assembler owns retry policy)
// and no caching (durations are traffic-aware, freshness matters).
// The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	session          *http.Client
	apiKey           string
	baseURL          string
	mode             string
	maxIntermediates int
}

func NewGoogleDirectionsProvider(apiKey string, timeout time.Duration, maxIntermediates int) (*GoogleDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google directions api key is empty")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxIntermediates <= 0 {
		maxIntermediates = defaultMaxIntermediates
	}

	return &GoogleDirectionsProvider{
		session:          &http.Client{Timeout: timeout},
		apiKey:           apiKey,
		baseURL:          defaultBaseURL,
		mode:             "driving",
		maxIntermediates: maxIntermediates,
	}, nil
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			StartLocation latLng `json:"start_location"`
			EndLocation   latLng `json:"end_location"`
		} `json:"legs"`
		WaypointOrder    []int `json:"waypoint_order"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FetchDirections requests leg-by-leg travel data for the ordered stops.
//
// The last stop is the destination and all stops before it are intermediate
// waypoints. Stops beyond the provider's waypoint limit are cut from the
// request tail deterministically (the input is already in heuristic order)
// and returned unrouted; every dropped delivery is logged. With reoptimize
// set, the returned waypoint_order permutation is applied before returning,
// so callers always receive stops in final visiting order.
func (g *GoogleDirectionsProvider) FetchDirections(
	ctx context.Context,
	origin domain.Coordinate,
	orderedStops []domain.Stop,
	reoptimize bool,
) (_ domain.DirectionsResult, err error) {
	defer obs.Time(ctx, "google.FetchDirections")(&err)

	if len(orderedStops) == 0 {
		return domain.DirectionsResult{}, errors.New("fetch directions: no stops provided")
	}

	routed, dropped := g.truncate(orderedStops)
	for _, s := range dropped {
		log.Printf("delivery_id=%s dropped from directions request (waypoint limit %d)", s.DeliveryID, g.maxIntermediates)
	}

	destination := routed[len(routed)-1]
	intermediates := routed[:len(routed)-1]

	req, err := g.newRequest(ctx, origin, destination, intermediates, reoptimize)
	if err != nil {
		return domain.DirectionsResult{}, fmt.Errorf("fetch directions: %w", err)
	}

	resp, err := g.session.Do(req)
	if err != nil {
		return domain.DirectionsResult{}, fmt.Errorf("%w: request failed: %v", ports.ErrDirectionsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.DirectionsResult{}, fmt.Errorf("%w: unexpected http status %d", ports.ErrDirectionsUnavailable, resp.StatusCode)
	}

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.DirectionsResult{}, fmt.Errorf("%w: decode response: %v", ports.ErrDirectionsUnavailable, err)
	}

	// Granular provider error codes are deliberately not interpreted here:
	// a non-OK status or empty route set degrades identically downstream.
	if decoded.Status != "OK" {
		return domain.DirectionsResult{}, fmt.Errorf("%w: provider status %q", ports.ErrDirectionsUnavailable, decoded.Status)
	}
	if len(decoded.Routes) == 0 {
		return domain.DirectionsResult{}, fmt.Errorf("%w: empty routes", ports.ErrDirectionsUnavailable)
	}

	best := decoded.Routes[0]
	if len(best.Legs) != len(routed) {
		return domain.DirectionsResult{}, fmt.Errorf(
			"%w: got %d legs for %d stops",
			ports.ErrDirectionsUnavailable, len(best.Legs), len(routed),
		)
	}

	finalOrder, err := remap(intermediates, destination, best.WaypointOrder, reoptimize)
	if err != nil {
		return domain.DirectionsResult{}, fmt.Errorf("%w: %v", ports.ErrDirectionsUnavailable, err)
	}

	legs := make([]domain.Leg, 0, len(best.Legs))
	for _, l := range best.Legs {
		legs = append(legs, domain.Leg{
			DistanceMeters:  l.Distance.Value,
			DurationSeconds: l.Duration.Value,
			Start:           domain.Coordinate{Lat: l.StartLocation.Lat, Lng: l.StartLocation.Lng},
			End:             domain.Coordinate{Lat: l.EndLocation.Lat, Lng: l.EndLocation.Lng},
		})
	}

	return domain.DirectionsResult{
		Stops:         append(finalOrder, dropped...),
		Legs:          legs,
		WaypointOrder: best.WaypointOrder,
		EncodedPath:   best.OverviewPolyline.Points,
	}, nil
}

// truncate splits stops into the routed head (destination plus at most
// maxIntermediates waypoints) and the unrouted tail. The cut is
// deterministic: the input order is already the heuristic visiting order.
func (g *GoogleDirectionsProvider) truncate(stops []domain.Stop) (routed, dropped []domain.Stop) {
	limit := g.maxIntermediates + 1
	if len(stops) <= limit {
		return stops, nil
	}
	return stops[:limit], stops[limit:]
}

func (g *GoogleDirectionsProvider) newRequest(
	ctx context.Context,
	origin domain.Coordinate,
	destination domain.Stop,
	intermediates []domain.Stop,
	reoptimize bool,
) (*http.Request, error) {
	endpoint := g.baseURL + "/maps/api/directions/json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := url.Values{}
	q.Set("origin", formatCoordinate(origin))
	q.Set("destination", formatCoordinate(destination.Coordinate))
	q.Set("mode", g.mode)
	q.Set("key", g.apiKey)

	if len(intermediates) > 0 {
		parts := make([]string, 0, len(intermediates))
		for _, s := range intermediates {
			parts = append(parts, formatCoordinate(s.Coordinate))
		}
		waypoints := strings.Join(parts, "|")
		if reoptimize {
			waypoints = "optimize:true|" + waypoints
		}
		q.Set("waypoints", waypoints)
	}

	req.URL.RawQuery = q.Encode()
	return req, nil
}

// Coordinates are passed at full float precision, never rounded.
func formatCoordinate(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// remap applies the provider's waypoint permutation to the intermediate
// stops so the result is in final visiting order, never raw indices.
func remap(intermediates []domain.Stop, destination domain.Stop, order []int, reoptimize bool) ([]domain.Stop, error) {
	final := make([]domain.Stop, 0, len(intermediates)+1)

	if !reoptimize || len(order) == 0 {
		final = append(final, intermediates...)
		return append(final, destination), nil
	}

	if len(order) != len(intermediates) {
		return nil, fmt.Errorf("waypoint_order has %d entries for %d waypoints", len(order), len(intermediates))
	}

	seen := make(map[int]struct{}, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(intermediates) {
			return nil, fmt.Errorf("waypoint_order index %d out of range", idx)
		}
		if _, ok := seen[idx]; ok {
			return nil, fmt.Errorf("waypoint_order index %d repeated", idx)
		}
		seen[idx] = struct{}{}
		final = append(final, intermediates[idx])
	}

	return append(final, destination), nil
}
