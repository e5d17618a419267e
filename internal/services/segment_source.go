package services

import (
	"context"
	"errors"
	"fmt"
	"runmap-service/internal/domain"
	"runmap-service/internal/platform/metrics"
	"runmap-service/internal/platform/obs"
	"runmap-service/internal/ports"
)

// SegmentSource resolves a (previous, target) pair into a RunSegment.
// It holds no strategy of its own; callers pass the active one per call.
type SegmentSource struct {
	Routing ports.RoutingProvider
}

func NewSegmentSource(routing ports.RoutingProvider) *SegmentSource {
	return &SegmentSource{Routing: routing}
}

// CanFollowRoads reports whether road-following segments can be resolved.
func (s *SegmentSource) CanFollowRoads() bool {
	return s != nil && s.Routing != nil
}

// Resolve builds the segment from previous to target. Straight lines never
// touch the routing provider. Road-following failures wrap
// domain.ErrRoutingLookupFailed.
func (s *SegmentSource) Resolve(
	ctx context.Context,
	previous domain.GeoPoint,
	target domain.GeoPoint,
	strategy domain.Strategy,
) (seg domain.RunSegment, err error) {
	defer func() {
		metrics.SegmentsResolved.WithLabelValues(strategy.String(), metrics.Outcome(err)).Inc()
	}()

	if strategy == domain.StraightLine {
		return StraightSegment(previous, target), nil
	}

	return s.route(ctx, previous, target)
}

// StraightSegment is the direct segment from previous to target.
func StraightSegment(previous, target domain.GeoPoint) domain.RunSegment {
	return domain.RunSegment{
		Origin:         previous,
		Endpoint:       target,
		Geometry:       []domain.GeoPoint{previous, target},
		FollowsRoads:   false,
		DistanceMeters: domain.GreatCircleMeters(previous, target),
	}
}

func (s *SegmentSource) route(
	ctx context.Context,
	previous domain.GeoPoint,
	target domain.GeoPoint,
) (_ domain.RunSegment, err error) {
	defer obs.Time(ctx, "segment.route")(&err)

	if s.Routing == nil {
		return domain.RunSegment{}, fmt.Errorf("%w: no routing backend configured", domain.ErrRoutingLookupFailed)
	}

	res, err := s.Routing.Lookup(ctx, previous, target)
	if err != nil {
		// The caller giving up is not a backend failure.
		if callerGaveUp(ctx, err) {
			return domain.RunSegment{}, err
		}
		return domain.RunSegment{}, fmt.Errorf("%w: %s -> %s: %v", domain.ErrRoutingLookupFailed, previous, target, err)
	}

	if len(res.Geometry) == 0 {
		return domain.RunSegment{}, fmt.Errorf("%w: %s -> %s: empty geometry", domain.ErrRoutingLookupFailed, previous, target)
	}

	return domain.RunSegment{
		Origin:         previous,
		Endpoint:       res.Geometry[len(res.Geometry)-1],
		Geometry:       res.Geometry,
		FollowsRoads:   true,
		DistanceMeters: res.DistanceMeters,
	}, nil
}

func callerGaveUp(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded)
}
