package render

import (
	"runmap-service/internal/domain"
	"runmap-service/internal/ports"
	"strconv"
	"sync"
)

// GeoJSON shapes served to the map front end.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type marker struct {
	coord   domain.GeoPoint
	isStart bool
}

type line struct {
	geometry []domain.GeoPoint
	animate  bool
}

// LayerRenderer keeps the markers and segment lines of the run as layers
// keyed by marker id, in placement order.
// It is safe for concurrent use.
type LayerRenderer struct {
	mu      sync.Mutex
	seq     int
	order   []domain.MarkerID
	markers map[domain.MarkerID]marker
	lines   map[domain.MarkerID]line
	redraws int
}

var _ ports.Renderer = (*LayerRenderer)(nil)

func NewLayerRenderer() *LayerRenderer {
	return &LayerRenderer{
		markers: make(map[domain.MarkerID]marker),
		lines:   make(map[domain.MarkerID]line),
	}
}

func (r *LayerRenderer) AddMarker(coord domain.GeoPoint, isStart bool) domain.MarkerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	id := domain.MarkerID("marker-" + strconv.Itoa(r.seq))
	r.markers[id] = marker{coord: coord, isStart: isStart}
	r.order = append(r.order, id)
	return id
}

func (r *LayerRenderer) DrawSegment(id domain.MarkerID, geometry []domain.GeoPoint, animate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.markers[id]; !ok {
		return
	}
	g := make([]domain.GeoPoint, len(geometry))
	copy(g, geometry)
	r.lines[id] = line{geometry: g, animate: animate}
}

func (r *LayerRenderer) RemoveMarker(id domain.MarkerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.markers[id]; !ok {
		return
	}
	delete(r.markers, id)
	delete(r.lines, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Redraw replaces every layer with the given run, keeping marker ids.
func (r *LayerRenderer) Redraw(start *domain.RunStart, segments []domain.RunSegment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.redraws++
	r.order = r.order[:0]
	r.markers = make(map[domain.MarkerID]marker)
	r.lines = make(map[domain.MarkerID]line)
	if start == nil {
		return
	}

	r.markers[start.Marker] = marker{coord: start.Location, isStart: true}
	r.order = append(r.order, start.Marker)
	for _, s := range segments {
		r.markers[s.Marker] = marker{coord: s.Endpoint}
		r.lines[s.Marker] = line{geometry: s.Geometry}
		r.order = append(r.order, s.Marker)
	}
}

// Redraws counts style reloads handled so far.
func (r *LayerRenderer) Redraws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redraws
}

// FeatureCollection snapshots the layers: one Point per marker followed by
// its LineString, if it has one.
func (r *LayerRenderer) FeatureCollection() FeatureCollection {
	r.mu.Lock()
	defer r.mu.Unlock()

	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, 2*len(r.order))}
	for _, id := range r.order {
		m := r.markers[id]
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			ID:         string(id),
			Geometry:   Geometry{Type: "Point", Coordinates: m.coord.CoordsToList()},
			Properties: map[string]any{"kind": "marker", "start": m.isStart},
		})

		l, ok := r.lines[id]
		if !ok {
			continue
		}
		coords := make([][]float64, 0, len(l.geometry))
		for _, p := range l.geometry {
			coords = append(coords, p.CoordsToList())
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			ID:         string(id) + "-line",
			Geometry:   Geometry{Type: "LineString", Coordinates: coords},
			Properties: map[string]any{"kind": "segment", "animate": l.animate},
		})
	}
	return fc
}
