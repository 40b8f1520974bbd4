// README: Route service; fetches walking routes and labels solo/together legs.
package route

import (
	"context"
	"errors"
	"fmt"

	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/types"
)

// ErrRouteUnavailable means the provider failed or returned unusable data.
// Matching and acceptance proceed without a drawn route; callers decide how
// to degrade.
var ErrRouteUnavailable = errors.New("route unavailable")

// Provider fetches a walking route. The maps adapter implements it; tests
// use canned legs.
type Provider interface {
	WalkingRoute(ctx context.Context, origin, destination types.Point, waypoints ...types.Point) ([]Leg, error)
}

type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Plan routes the trip through the meeting point and labels the legs. For
// virtual-only trips, or when no meeting point was chosen, the whole route
// is a single solo leg — each participant walks independently.
func (s *Service) Plan(ctx context.Context, t *trip.Trip, meeting *types.Point) (*SegmentedRoute, error) {
	if !t.HasCoords() {
		return nil, fmt.Errorf("%w: trip has no coordinates", ErrRouteUnavailable)
	}
	origin := *t.Origin.Coord
	dest := *t.Destination.Coord

	var legs []Leg
	var err error
	if t.MatchMode == trip.ModeVirtualOnly || meeting == nil {
		legs, err = s.provider.WalkingRoute(ctx, origin, dest)
	} else {
		legs, err = s.provider.WalkingRoute(ctx, origin, dest, *meeting)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	return Segment(legs)
}

// Segment labels provider legs around the stopover. Two or more legs: the
// first is solo, the rest merge into together. One leg: the waypoint
// collapsed, the whole route is solo. Zero legs is unusable data.
func Segment(legs []Leg) (*SegmentedRoute, error) {
	switch len(legs) {
	case 0:
		return nil, fmt.Errorf("%w: provider returned no legs", ErrRouteUnavailable)
	case 1:
		return &SegmentedRoute{Solo: legs[0]}, nil
	default:
		together := mergeLegs(legs[1:])
		return &SegmentedRoute{Solo: legs[0], Together: &together}, nil
	}
}

// mergeLegs folds consecutive legs into one. Providers insert extra legs
// when they reorder or split waypoints; the traveller experiences them as
// one shared stretch.
func mergeLegs(legs []Leg) Leg {
	merged := legs[0]
	// Fresh path slice: appending in place could write into the caller's
	// backing array when it has spare capacity.
	merged.Path = append([]types.Point(nil), legs[0].Path...)
	for _, l := range legs[1:] {
		merged.End = l.End
		merged.DistanceMeters += l.DistanceMeters
		merged.Duration += l.Duration
		merged.Path = append(merged.Path, l.Path...)
	}
	return merged
}
