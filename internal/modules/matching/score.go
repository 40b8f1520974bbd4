// README: Match scoring; additive text/proximity/mode signals clamped to [0,1].
package matching

import (
	"math"
	"strings"

	"walkbuddy/internal/geo"
	"walkbuddy/internal/modules/trip"
)

const (
	weightDestinationText = 0.4
	weightStartProximity  = 0.3
	weightEndProximity    = 0.3
	weightModeBonus       = 0.1
	// proximityCutoffKm is where the linear similarity bottoms out.
	proximityCutoffKm = 2.0
)

// Score estimates how compatible two trips are, in [0,1]. Three independent
// additive terms: destination-text overlap (0.4), origin/destination
// coordinate proximity (0.3 each, only when both trips carry full
// coordinates), and a small same-mode bonus (0.1). Missing data contributes
// zero rather than penalising; improving any one signal never lowers the
// total.
func Score(my, other *trip.Trip) float64 {
	score := 0.0

	myText := strings.ToLower(my.Destination.Text)
	otherText := strings.ToLower(other.Destination.Text)
	if myText != "" && otherText != "" {
		// Substring either way covers "30th Street Station" vs
		// "30th Street Station, Philadelphia, PA".
		if strings.Contains(myText, otherText) || strings.Contains(otherText, myText) {
			score += weightDestinationText
		}
	}

	if my.HasCoords() && other.HasCoords() {
		startSim := proximitySimilarity(geo.DistanceMeters(my.Origin.Coord, other.Origin.Coord))
		endSim := proximitySimilarity(geo.DistanceMeters(my.Destination.Coord, other.Destination.Coord))
		score += weightStartProximity*startSim + weightEndProximity*endSim
	}

	if my.MatchMode != trip.ModeUnset && other.MatchMode != trip.ModeUnset && my.MatchMode == other.MatchMode {
		score += weightModeBonus
	}

	return math.Min(1, math.Max(0, score))
}

// proximitySimilarity maps a distance to [0,1]: 1 at zero metres, linearly
// decaying to 0 at the cutoff and beyond.
func proximitySimilarity(distanceMeters float64) float64 {
	if math.IsInf(distanceMeters, 1) {
		return 0
	}
	km := distanceMeters / 1000
	if km >= proximityCutoffKm {
		return 0
	}
	return 1 - km/proximityCutoffKm
}
