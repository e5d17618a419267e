package render

import (
	"runmap-service/internal/domain"
	"testing"
)

func TestLayerRendererTracksMarkersAndLines(t *testing.T) {
	r := NewLayerRenderer()

	a := domain.GeoPoint{Lng: 0, Lat: 0}
	b := domain.GeoPoint{Lng: 0, Lat: 1}

	start := r.AddMarker(a, true)
	end := r.AddMarker(b, false)
	r.DrawSegment(end, []domain.GeoPoint{a, b}, true)

	fc := r.FeatureCollection()
	if len(fc.Features) != 3 {
		t.Fatalf("features = %d, want 3", len(fc.Features))
	}
	if fc.Features[0].ID != string(start) || fc.Features[0].Properties["start"] != true {
		t.Fatalf("first feature = %+v, want start marker", fc.Features[0])
	}
	if fc.Features[2].Geometry.Type != "LineString" {
		t.Fatalf("third feature type = %s, want LineString", fc.Features[2].Geometry.Type)
	}

	r.RemoveMarker(end)
	fc = r.FeatureCollection()
	if len(fc.Features) != 1 {
		t.Fatalf("after removal features = %d, want 1", len(fc.Features))
	}

	// Unknown ids are ignored.
	r.RemoveMarker("nope")
	r.DrawSegment("nope", []domain.GeoPoint{a}, false)
	if got := len(r.FeatureCollection().Features); got != 1 {
		t.Fatalf("features = %d, want 1", got)
	}
}

func TestLayerRendererRedraw(t *testing.T) {
	r := NewLayerRenderer()
	r.AddMarker(domain.GeoPoint{Lng: 9, Lat: 9}, true)

	a := domain.GeoPoint{Lng: 1, Lat: 1}
	b := domain.GeoPoint{Lng: 2, Lat: 2}
	r.Redraw(
		&domain.RunStart{Location: a, Marker: "s"},
		[]domain.RunSegment{{Origin: a, Endpoint: b, Geometry: []domain.GeoPoint{a, b}, Marker: "m1"}},
	)

	fc := r.FeatureCollection()
	if len(fc.Features) != 3 {
		t.Fatalf("features = %d, want 3", len(fc.Features))
	}
	if fc.Features[0].ID != "s" || fc.Features[1].ID != "m1" {
		t.Fatalf("ids = %s,%s", fc.Features[0].ID, fc.Features[1].ID)
	}
	if r.Redraws() != 1 {
		t.Fatalf("redraws = %d", r.Redraws())
	}

	r.Redraw(nil, nil)
	if len(r.FeatureCollection().Features) != 0 {
		t.Fatalf("expected empty layers after redraw of absent run")
	}
}
