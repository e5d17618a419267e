package domain

// Lifecycle of the current run as seen by its owner.
type PathState int

const (
	Empty PathState = iota
	HasStart
	HasSegments
)

func (s PathState) String() string {
	switch s {
	case HasStart:
		return "has_start"
	case HasSegments:
		return "has_segments"
	default:
		return "empty"
	}
}

// StateOf derives the lifecycle state of a possibly absent path.
func StateOf(p *RunPath) PathState {
	switch {
	case p == nil:
		return Empty
	case p.Len() == 0:
		return HasStart
	default:
		return HasSegments
	}
}

// Segment-construction mode.
type Strategy int

const (
	StraightLine Strategy = iota
	RoadFollowing
)

func StrategyFor(followRoads bool) Strategy {
	if followRoads {
		return RoadFollowing
	}
	return StraightLine
}

func (s Strategy) FollowsRoads() bool { return s == RoadFollowing }

func (s Strategy) String() string {
	if s == RoadFollowing {
		return "road_following"
	}
	return "straight_line"
}

// What a single undo step removed.
type RemovedKind int

const (
	RemovedNone RemovedKind = iota
	RemovedSegment
	RemovedStart
)

func (k RemovedKind) String() string {
	switch k {
	case RemovedSegment:
		return "segment"
	case RemovedStart:
		return "start"
	default:
		return "none"
	}
}

// Removal carries the marker released by an undo step so the caller
// can take it off the rendering surface.
type Removal struct {
	Kind   RemovedKind
	Marker MarkerID
}
