package domain

// Opaque handle to a marker placed on the rendering surface.
type MarkerID string

// Anchor of a run. Exactly one per path.
type RunStart struct {
	Location GeoPoint
	Marker   MarkerID
}

// Represents one edge of a run.
// Geometry is the full polyline drawn for the segment. For road-following
// segments Endpoint is the last geometry coordinate, which may differ from
// the requested target because routing snaps to the road network.
type RunSegment struct {
	Origin         GeoPoint
	Endpoint       GeoPoint
	Geometry       []GeoPoint
	FollowsRoads   bool
	DistanceMeters float64
	Marker         MarkerID
}

// RunPath is the authoritative state of a run: a start point plus a stack
// of segments. The total distance is derived and recomputed on every mutation.
type RunPath struct {
	Start RunStart

	segments            []RunSegment
	totalDistanceMeters float64
}

func NewRunPath(start RunStart) *RunPath {
	return &RunPath{Start: start}
}

// LastPosition returns the endpoint of the tail segment, or the start
// location when the path has no segments.
func (p *RunPath) LastPosition() GeoPoint {
	if n := len(p.segments); n > 0 {
		return p.segments[n-1].Endpoint
	}
	return p.Start.Location
}

// Commit pushes one resolved segment onto the path.
func (p *RunPath) Commit(seg RunSegment) error {
	last := p.LastPosition()
	if !seg.Origin.Equal(last) {
		return &DiscontinuousPathError{Expected: last, Got: seg.Origin}
	}

	p.segments = append(p.segments, seg)
	p.recompute()
	return nil
}

// RemoveLast pops the tail segment. It reports false when the path has
// no segments left; removing the start is the owner's decision.
func (p *RunPath) RemoveLast() (Removal, bool) {
	n := len(p.segments)
	if n == 0 {
		return Removal{Kind: RemovedNone}, false
	}

	seg := p.segments[n-1]
	p.segments[n-1] = RunSegment{}
	p.segments = p.segments[:n-1]
	p.recompute()

	return Removal{Kind: RemovedSegment, Marker: seg.Marker}, true
}

func (p *RunPath) Len() int { return len(p.segments) }

// Segments returns a copy of the segment stack, oldest first.
func (p *RunPath) Segments() []RunSegment {
	out := make([]RunSegment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Distance is 0 for an absent path.
func (p *RunPath) Distance() float64 {
	if p == nil {
		return 0
	}
	return p.totalDistanceMeters
}

func (p *RunPath) recompute() {
	total := 0.0
	for _, s := range p.segments {
		total += s.DistanceMeters
	}
	p.totalDistanceMeters = total
}
