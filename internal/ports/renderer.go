package ports

import "runmap-service/internal/domain"

// Port: the surface that draws the run. Implementations report markers by
// opaque handles that the run keeps until the corresponding point is undone.
type Renderer interface {
	AddMarker(coord domain.GeoPoint, isStart bool) domain.MarkerID
	// Draw the line of the segment ending at marker.
	DrawSegment(marker domain.MarkerID, geometry []domain.GeoPoint, animate bool)
	// Remove a marker and the segment line attached to it.
	RemoveMarker(marker domain.MarkerID)
	// Drop every layer and re-add the given run, as after a style reload.
	Redraw(start *domain.RunStart, segments []domain.RunSegment)
}
