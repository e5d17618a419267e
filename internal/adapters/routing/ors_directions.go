package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runmap-service/internal/domain"
	"runmap-service/internal/platform/obs"
	"runmap-service/internal/ports"
	"time"
)

// ORSRoutingProvider implements RoutingProvider using the OpenRouteService
// directions endpoint. Transient failures are retried with backoff.
//
// The provider is safe for concurrent use.
type ORSRoutingProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
}

var _ ports.RoutingProvider = (*ORSRoutingProvider)(nil)

// ErrNoRoute means ORS answered but found no route between the points,
// e.g. one of them is too far from any routable road. It is never retried.
var ErrNoRoute = errors.New("no route between points")

func NewORSRoutingProvider(apiKey string, profile string) (*ORSRoutingProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if profile == "" {
		profile = "foot-walking"
	}

	provider := &ORSRoutingProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     "https://api.openrouteservice.org",
		profile:     profile,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}

	return provider, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// Lookup fetches the routed polyline from a to b.
func (o *ORSRoutingProvider) Lookup(
	ctx context.Context,
	a domain.GeoPoint,
	b domain.GeoPoint,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.Lookup")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{a.CoordsToList(), b.CoordsToList()},
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.postWithRetry(ctx, endpoint, payload)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return ports.RouteResult{}, fmt.Errorf("%w from %s to %s: %s", ErrNoRoute, a, b, se.orsMessage())
		}
		return ports.RouteResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.RouteResult{}, fmt.Errorf("%w from %s to %s", ErrNoRoute, a, b)
	}

	f := dr.Features[0]
	if len(f.Geometry.Coordinates) == 0 {
		return ports.RouteResult{}, fmt.Errorf("empty route geometry from %s to %s", a, b)
	}

	geometry := make([]domain.GeoPoint, 0, len(f.Geometry.Coordinates))
	for i, c := range f.Geometry.Coordinates {
		// Elevation may follow as a third element.
		if len(c) < 2 {
			return ports.RouteResult{}, fmt.Errorf("invalid coordinate at index %d", i)
		}
		geometry = append(geometry, domain.GeoPoint{Lng: c[0], Lat: c[1]})
	}

	return ports.RouteResult{
		Geometry:       geometry,
		DistanceMeters: f.Properties.Summary.Distance,
	}, nil
}
