// README: Distance and midpoint unit tests.
package geo

import (
	"math"
	"testing"

	"walkbuddy/internal/types"
)

func TestDistanceMeters_Identity(t *testing.T) {
	p := &types.Point{Lat: 39.9526, Lng: -75.1652}
	if d := DistanceMeters(p, p); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	pairs := []struct{ a, b types.Point }{
		{types.Point{Lat: 39.9526, Lng: -75.1652}, types.Point{Lat: 39.9557, Lng: -75.1820}},
		{types.Point{Lat: 0, Lng: 0}, types.Point{Lat: -33.8688, Lng: 151.2093}},
		{types.Point{Lat: 89.9, Lng: 10}, types.Point{Lat: -89.9, Lng: -170}},
	}
	for _, p := range pairs {
		ab := DistanceMeters(&p.a, &p.b)
		ba := DistanceMeters(&p.b, &p.a)
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("asymmetric distance: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// Philadelphia City Hall to 30th Street Station, roughly 1.6 km.
	a := &types.Point{Lat: 39.9526, Lng: -75.1652}
	b := &types.Point{Lat: 39.9557, Lng: -75.1820}
	d := DistanceMeters(a, b)
	if d < 1300 || d > 1900 {
		t.Fatalf("distance = %v m, want roughly 1.6 km", d)
	}
}

func TestDistanceMeters_NilIsInfinite(t *testing.T) {
	p := &types.Point{Lat: 1, Lng: 1}
	if d := DistanceMeters(nil, p); !math.IsInf(d, 1) {
		t.Errorf("DistanceMeters(nil, p) = %v, want +Inf", d)
	}
	if d := DistanceMeters(p, nil); !math.IsInf(d, 1) {
		t.Errorf("DistanceMeters(p, nil) = %v, want +Inf", d)
	}
	if d := DistanceMeters(nil, nil); !math.IsInf(d, 1) {
		t.Errorf("DistanceMeters(nil, nil) = %v, want +Inf", d)
	}
}

func TestDistanceMeters_NonNegative(t *testing.T) {
	points := []types.Point{
		{Lat: 39.9526, Lng: -75.1652},
		{Lat: 39.9557, Lng: -75.1820},
		{Lat: 0, Lng: 180},
		{Lat: 0, Lng: -180},
	}
	for i := range points {
		for j := range points {
			d := DistanceMeters(&points[i], &points[j])
			if d < 0 || math.IsNaN(d) {
				t.Errorf("distance(%v, %v) = %v", points[i], points[j], d)
			}
		}
	}
}

func TestMidpoint(t *testing.T) {
	a := types.Point{Lat: 10, Lng: 20}
	b := types.Point{Lat: 20, Lng: 40}
	mid := Midpoint(a, b)
	if mid.Lat != 15 || mid.Lng != 30 {
		t.Fatalf("midpoint = %v, want {15 30}", mid)
	}
}
