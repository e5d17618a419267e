package domain

import (
	"errors"
	"fmt"
)

var (
	// The routing backend was unreachable or returned no route.
	ErrRoutingLookupFailed = errors.New("routing lookup failed")

	// A persisted or imported run document failed structural validation.
	ErrMalformedRunDocument = errors.New("malformed run document")

	// Another mutation of the current run has not settled yet.
	ErrAppendInProgress = errors.New("run mutation already in progress")

	// Road following was requested but no routing backend is configured.
	ErrRoadFollowingUnavailable = errors.New("road following unavailable: no routing backend configured")
)

// DiscontinuousPathError reports a segment whose origin does not match
// the position the path currently ends at.
type DiscontinuousPathError struct {
	Expected GeoPoint
	Got      GeoPoint
}

func (e *DiscontinuousPathError) Error() string {
	return fmt.Sprintf("discontinuous path: segment starts at %s, path ends at %s", e.Got, e.Expected)
}
