// README: Candidate finder; filters, scores, and ranks open trips.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"walkbuddy/internal/config"
	"walkbuddy/internal/geo"
	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/types"
)

// TripLister is the read surface the finder and the nearby browse need
// from the trip store.
type TripLister interface {
	Get(ctx context.Context, id types.ID) (*trip.Trip, error)
	ListByStatus(ctx context.Context, status trip.Status) ([]*trip.Trip, error)
}

// NearbyIndex resolves searching trips whose origin lies within a radius.
// Serves the nearby browse only; candidate search always scans every open
// trip, since compatibility can come from destination text alone.
type NearbyIndex interface {
	NearbyOpenTrips(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error)
}

type Service struct {
	trips TripLister
	index NearbyIndex
	cfg   config.MatchingConfig
	log   zerolog.Logger
}

func NewService(trips TripLister, index NearbyIndex, cfg config.MatchingConfig, log zerolog.Logger) *Service {
	return &Service{trips: trips, index: index, cfg: cfg, log: log}
}

// FindCandidates returns open trips compatible with my, best first. The
// result is a point-in-time snapshot; acceptance re-validates it. An empty
// slice is a normal outcome, distinct from a fetch failure.
func (s *Service) FindCandidates(ctx context.Context, my *trip.Trip, opts Options) ([]Candidate, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = s.cfg.MinScore
	}
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	windowMin := opts.TimeWindowMinutes
	if windowMin <= 0 {
		windowMin = s.cfg.TimeWindowMinutes
	}
	if windowMin <= 0 {
		windowMin = defaultTimeWindowMinutes
	}
	window := time.Duration(windowMin) * time.Minute

	open, err := s.trips.ListByStatus(ctx, trip.StatusSearching)
	if err != nil {
		return nil, fmt.Errorf("list searching trips: %w: %v", trip.ErrStoreUnavailable, err)
	}

	// Eligibility is exactly these four filters; geography only ever
	// influences the score, never membership. A trip on the far side of town
	// with the same named destination is still a valid buddy.
	// Fetch order is preserved for equal scores, so a fixed snapshot always
	// ranks identically.
	var candidates []Candidate
	for _, t := range open {
		if t.UserID == my.UserID {
			continue
		}
		if my.HasExcluded(t.UserID) {
			continue
		}
		if my.MatchMode != trip.ModeUnset && t.MatchMode != trip.ModeUnset && my.MatchMode != t.MatchMode {
			continue
		}
		if my.PlannedStartTime != nil && t.PlannedStartTime != nil {
			diff := my.PlannedStartTime.Sub(*t.PlannedStartTime)
			if diff < 0 {
				diff = -diff
			}
			if diff > window {
				continue
			}
		}

		score := Score(my, t)
		if score >= minScore {
			candidates = append(candidates, Candidate{Trip: t, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}

// NearbyOpen lists searching trips whose origin lies within radiusKm of
// pos, nearest first: the map-browse view of who is walking near you.
// Uses the geo index when available; otherwise (or when the index errors)
// it falls back to scanning open trips and measuring directly. Trips
// without origin coordinates never appear here.
func (s *Service) NearbyOpen(ctx context.Context, pos types.Point, radiusKm float64) ([]*trip.Trip, error) {
	if radiusKm <= 0 {
		radiusKm = s.cfg.RadiusKm
	}
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}

	if s.index != nil {
		ids, err := s.index.NearbyOpenTrips(ctx, pos, radiusKm)
		if err == nil {
			return s.hydrateOpenTrips(ctx, ids)
		}
		s.log.Warn().Err(err).Msg("open-trip index lookup failed, scanning open trips")
	}
	return s.scanNearby(ctx, pos, radiusKm)
}

// hydrateOpenTrips resolves index ids against the trip store. The index is
// maintained best-effort, so ids may be stale; gone or no-longer-searching
// trips are skipped rather than failing the whole listing.
func (s *Service) hydrateOpenTrips(ctx context.Context, ids []types.ID) ([]*trip.Trip, error) {
	trips := make([]*trip.Trip, 0, len(ids))
	for _, id := range ids {
		t, err := s.trips.Get(ctx, id)
		if errors.Is(err, trip.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get nearby trip: %w: %v", trip.ErrStoreUnavailable, err)
		}
		if t.Status != trip.StatusSearching {
			continue
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func (s *Service) scanNearby(ctx context.Context, pos types.Point, radiusKm float64) ([]*trip.Trip, error) {
	open, err := s.trips.ListByStatus(ctx, trip.StatusSearching)
	if err != nil {
		return nil, fmt.Errorf("list searching trips: %w: %v", trip.ErrStoreUnavailable, err)
	}
	var trips []*trip.Trip
	for _, t := range open {
		if t.Origin.Coord == nil {
			continue
		}
		if geo.DistanceMeters(&pos, t.Origin.Coord) <= radiusKm*1000 {
			trips = append(trips, t)
		}
	}
	sort.SliceStable(trips, func(i, j int) bool {
		return geo.DistanceMeters(&pos, trips[i].Origin.Coord) < geo.DistanceMeters(&pos, trips[j].Origin.Coord)
	})
	return trips, nil
}
