package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"runmap-service/internal/domain"
)

// Wire form of a run. Field order is the persisted key order.
type runDocument struct {
	Start       docPoint     `json:"start"`
	Distance    float64      `json:"distance"`
	Segments    []docSegment `json:"segments"`
	FollowRoads bool         `json:"followRoads"`
}

type docPoint struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type docSegment struct {
	Lng          float64 `json:"lng"`
	Lat          float64 `json:"lat"`
	FollowsRoads bool    `json:"followsRoads"`
}

// Decoding form: pointers mark required fields.
type inboundDocument struct {
	Start       *inboundPoint     `json:"start"`
	Segments    *[]inboundSegment `json:"segments"`
	FollowRoads *bool             `json:"followRoads"`
}

type inboundPoint struct {
	Lng *float64 `json:"lng"`
	Lat *float64 `json:"lat"`
}

type inboundSegment struct {
	Lng          *float64 `json:"lng"`
	Lat          *float64 `json:"lat"`
	FollowsRoads bool     `json:"followsRoads"`
}

var emptyDocument = []byte("{}")

// SerializeRun renders the persisted JSON document for path. An absent
// path is exactly "{}". Segment coordinates are endpoints, not geometry.
func SerializeRun(path *domain.RunPath, followRoads bool) ([]byte, error) {
	if path == nil {
		return append([]byte(nil), emptyDocument...), nil
	}

	segs := path.Segments()
	doc := runDocument{
		Start:       docPoint{Lng: unsignedZero(path.Start.Location.Lng), Lat: unsignedZero(path.Start.Location.Lat)},
		Distance:    unsignedZero(path.Distance()),
		Segments:    make([]docSegment, 0, len(segs)),
		FollowRoads: followRoads,
	}
	for _, s := range segs {
		doc.Segments = append(doc.Segments, docSegment{
			Lng:          unsignedZero(s.Endpoint.Lng),
			Lat:          unsignedZero(s.Endpoint.Lat),
			FollowsRoads: s.FollowsRoads,
		})
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize run: %w", err)
	}
	return b, nil
}

// Stored numbers never carry a sign on zero.
func unsignedZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// One stored segment to re-resolve during a load.
type ReplayStep struct {
	From     domain.GeoPoint
	To       domain.GeoPoint
	Strategy domain.Strategy
}

// ReplayPlan is a decoded run document. It carries only endpoints and
// strategies; geometry is always resolved again.
type ReplayPlan struct {
	Start       domain.GeoPoint
	Steps       []ReplayStep
	FollowRoads *bool
}

// DeserializeRun validates a run document and turns it into replay steps
// in stored order. Structural problems wrap domain.ErrMalformedRunDocument.
func DeserializeRun(doc []byte) (*ReplayPlan, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))

	var in inboundDocument
	if err := dec.Decode(&in); err != nil {
		return nil, malformed("invalid json: %v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, malformed("document must contain only one JSON object")
	}

	start, err := in.Start.point("start")
	if err != nil {
		return nil, err
	}
	if in.Segments == nil {
		return nil, malformed("segments is required")
	}

	plan := &ReplayPlan{
		Start:       start,
		Steps:       make([]ReplayStep, 0, len(*in.Segments)),
		FollowRoads: in.FollowRoads,
	}

	prev := start
	for i, s := range *in.Segments {
		to, err := (&inboundPoint{Lng: s.Lng, Lat: s.Lat}).point(fmt.Sprintf("segments[%d]", i))
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, ReplayStep{
			From:     prev,
			To:       to,
			Strategy: domain.StrategyFor(s.FollowsRoads),
		})
		prev = to
	}

	return plan, nil
}

func (p *inboundPoint) point(field string) (domain.GeoPoint, error) {
	if p == nil {
		return domain.GeoPoint{}, malformed("%s is required", field)
	}
	if p.Lng == nil || p.Lat == nil {
		return domain.GeoPoint{}, malformed("%s.lng and %s.lat are required", field, field)
	}
	if *p.Lat < -90 || *p.Lat > 90 {
		return domain.GeoPoint{}, malformed("%s.lat %v out of range", field, *p.Lat)
	}
	return domain.GeoPoint{Lng: *p.Lng, Lat: *p.Lat}, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedRunDocument, fmt.Sprintf(format, args...))
}
