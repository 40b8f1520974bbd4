// README: Meeting-point selection; nearest safe location to the route midpoint.
package safeloc

import (
	"context"
	"fmt"

	"walkbuddy/internal/geo"
	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/types"
)

// Catalog lists the safe locations in a fixed order. *Store implements it.
type Catalog interface {
	List(ctx context.Context) ([]SafeLocation, error)
}

type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// ChooseMeetingPoint picks the catalog entry nearest the flat-plane midpoint
// of the trip's origin and destination. Nil (with no error) when the trip is
// virtual-only, lacks coordinates, or the catalog is empty — absent data is
// a normal outcome, not a failure.
func (s *Service) ChooseMeetingPoint(ctx context.Context, t *trip.Trip) (*SafeLocation, error) {
	if t.MatchMode == trip.ModeVirtualOnly || !t.HasCoords() {
		return nil, nil
	}

	locs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list safe locations: %w: %v", trip.ErrStoreUnavailable, err)
	}

	mid := geo.Midpoint(*t.Origin.Coord, *t.Destination.Coord)
	return Nearest(mid, locs), nil
}

// Nearest returns the location closest to p, or nil for an empty catalog.
// Ties break to the first entry in catalog order, so a fixed catalog always
// yields the same choice.
func Nearest(p types.Point, locs []SafeLocation) *SafeLocation {
	var best *SafeLocation
	bestDist := 0.0
	for i := range locs {
		d := geo.DistanceMeters(&p, &locs[i].Coord)
		if best == nil || d < bestDist {
			best = &locs[i]
			bestDist = d
		}
	}
	return best
}
