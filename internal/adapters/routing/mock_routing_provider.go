package routing

import (
	"context"
	"fmt"
	"runmap-service/internal/domain"
	"runmap-service/internal/ports"
	"sync"
)

type MockRoute struct {
	From, To domain.GeoPoint
	Geometry []domain.GeoPoint
	Meters   float64
}

// MockRoutingProvider answers lookups from a fixed table of point pairs
// and records every call it receives.
type MockRoutingProvider struct {
	m map[[2]domain.GeoPoint]ports.RouteResult

	mu    sync.Mutex
	calls [][2]domain.GeoPoint
}

func NewMockRoutingProvider(routes []MockRoute) *MockRoutingProvider {
	m := make(map[[2]domain.GeoPoint]ports.RouteResult, len(routes))
	for _, r := range routes {
		m[[2]domain.GeoPoint{r.From, r.To}] = ports.RouteResult{Geometry: r.Geometry, DistanceMeters: r.Meters}
	}
	return &MockRoutingProvider{m: m}
}

func (p *MockRoutingProvider) Lookup(ctx context.Context, a, b domain.GeoPoint) (ports.RouteResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, [2]domain.GeoPoint{a, b})
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.RouteResult{}, err
	}

	r, ok := p.m[[2]domain.GeoPoint{a, b}]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing route %s -> %s", a, b)
	}

	geometry := make([]domain.GeoPoint, len(r.Geometry))
	copy(geometry, r.Geometry)
	return ports.RouteResult{Geometry: geometry, DistanceMeters: r.DistanceMeters}, nil
}

// Calls returns the number of lookups made so far.
func (p *MockRoutingProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
