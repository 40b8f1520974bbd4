// README: Pure geographic computation helpers shared by matching and meeting-point selection.
package geo

import (
	"math"

	"walkbuddy/internal/types"
)

const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle (haversine) distance in metres
// between two points. Either input being nil means "unknown location" and
// yields +Inf, so callers treat the pair as maximally dissimilar instead of
// failing.
func DistanceMeters(a, b *types.Point) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}

	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Midpoint returns the arithmetic mean of two coordinate pairs. A flat-plane
// approximation, fine at city scale.
func Midpoint(a, b types.Point) types.Point {
	return types.Point{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
