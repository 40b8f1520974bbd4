// README: Match candidates and search options for the walking-buddy finder.
package matching

import "walkbuddy/internal/modules/trip"

// Candidate is a scored open trip. Derived during a search call, never
// persisted.
type Candidate struct {
	Trip  *trip.Trip `json:"trip"`
	Score float64    `json:"score"`
}

// Options tune one search call. Zero values fall back to the configured
// defaults.
type Options struct {
	MaxResults        int
	MinScore          float64
	TimeWindowMinutes int
}

const (
	defaultMaxResults        = 5
	defaultMinScore          = 0.2
	defaultTimeWindowMinutes = 60
	defaultNearbyRadiusKm    = 10.0
)
