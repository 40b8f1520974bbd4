// README: Google Maps Directions adapter; the routing provider behind the segmenter.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"walkbuddy/internal/modules/route"
	"walkbuddy/internal/types"
)

// DirectionsService handles interactions with the Google Directions API.
type DirectionsService struct {
	client *maps.Client
}

// NewDirectionsService creates a new DirectionsService with the given API key.
func NewDirectionsService(apiKey string) (*DirectionsService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DirectionsService{client: client}, nil
}

// WalkingRoute fetches a walking route from origin to destination, routed
// through the given stopover waypoints. The provider returns one leg per
// stop; downstream segmentation relies only on that shape.
func (s *DirectionsService) WalkingRoute(ctx context.Context, origin, destination types.Point, waypoints ...types.Point) ([]route.Leg, error) {
	r := &maps.DirectionsRequest{
		Origin:      formatPoint(origin),
		Destination: formatPoint(destination),
		Mode:        maps.TravelModeWalking,
	}
	for _, w := range waypoints {
		r.Waypoints = append(r.Waypoints, formatPoint(w))
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 {
		return nil, nil
	}

	legs := make([]route.Leg, 0, len(routes[0].Legs))
	for _, l := range routes[0].Legs {
		leg := route.Leg{
			Start:          types.Point{Lat: l.StartLocation.Lat, Lng: l.StartLocation.Lng},
			End:            types.Point{Lat: l.EndLocation.Lat, Lng: l.EndLocation.Lng},
			DistanceMeters: l.Distance.Meters,
			Duration:       l.Duration,
		}
		for _, step := range l.Steps {
			pts, err := step.Polyline.Decode()
			if err != nil {
				// A bad polyline only costs the drawn path, not the route.
				continue
			}
			for _, p := range pts {
				leg.Path = append(leg.Path, types.Point{Lat: p.Lat, Lng: p.Lng})
			}
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

func formatPoint(p types.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
