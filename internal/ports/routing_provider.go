package ports

import (
	"context"
	"runmap-service/internal/domain"
)

// Road-following geometry and length between two points.
type RouteResult struct {
	Geometry       []domain.GeoPoint
	DistanceMeters float64
}

// Contract for resolving two points into a route along real-world roads.
type RoutingProvider interface {
	// Return the routed polyline from a to b. The last coordinate may be
	// snapped away from b onto the road network.
	Lookup(ctx context.Context, a, b domain.GeoPoint) (RouteResult, error)
}
