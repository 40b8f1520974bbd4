// README: Open-trip geo index backed by Redis GEO.
package matching

import (
	"context"

	"github.com/redis/go-redis/v9"

	"walkbuddy/internal/types"
)

const openTripGeoKey = "matching:open_trips"

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) AddOpenTrip(ctx context.Context, id types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, openTripGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *Store) RemoveOpenTrip(ctx context.Context, id types.ID) error {
	return s.redis.ZRem(ctx, openTripGeoKey, string(id)).Err()
}

// NearbyOpenTrips returns ids of indexed open trips whose origin lies within
// radiusKm of p, nearest first.
func (s *Store) NearbyOpenTrips(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, openTripGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}
