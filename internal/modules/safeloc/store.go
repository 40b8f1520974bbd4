// README: Safe-locations store; PostgreSQL catalog behind a Redis read-through cache.
package safeloc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	catalogCacheKey = "safeloc:catalog"
	catalogCacheTTL = 10 * time.Minute
)

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
	log   zerolog.Logger
}

func NewStore(db *pgxpool.Pool, redis *redis.Client, log zerolog.Logger) *Store {
	return &Store{db: db, redis: redis, log: log}
}

// List returns the catalog in a fixed order (by id) so meeting-point
// selection is reproducible. Cache problems fall through to the database.
func (s *Store) List(ctx context.Context) ([]SafeLocation, error) {
	if s.redis != nil {
		val, err := s.redis.Get(ctx, catalogCacheKey).Result()
		if err == nil {
			var locs []SafeLocation
			if err := json.Unmarshal([]byte(val), &locs); err == nil {
				return locs, nil
			}
			s.log.Warn().Msg("safe-locations cache entry unreadable, refetching")
		} else if err != redis.Nil {
			s.log.Warn().Err(err).Msg("safe-locations cache read failed")
		}
	}

	locs, err := s.listFromDB(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(locs); err == nil {
			if err := s.redis.Set(ctx, catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("safe-locations cache write failed")
			}
		}
	}
	return locs, nil
}

func (s *Store) listFromDB(ctx context.Context) ([]SafeLocation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, COALESCE(address, ''), lat, lng
		FROM safe_locations
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []SafeLocation
	for rows.Next() {
		var loc SafeLocation
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Coord.Lat, &loc.Coord.Lng); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}
