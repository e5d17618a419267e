package domain

import (
	"fmt"
	"math"
)

// WGS84 equatorial radius in meters.
const EarthRadiusMeters = 6378137.0

// Immutable geographic coordinate (longitude, latitude).
// Equality is exact; no tolerance is applied.
type GeoPoint struct {
	Lng float64
	Lat float64
}

// Return coordinates as [lng, lat] for external API compatibility.
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }

func (p GeoPoint) Equal(o GeoPoint) bool { return p.Lng == o.Lng && p.Lat == o.Lat }

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.7f, %.7f)", p.Lng, p.Lat)
}

// GreatCircleMeters returns the haversine distance between a and b.
func GreatCircleMeters(a, b GeoPoint) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
