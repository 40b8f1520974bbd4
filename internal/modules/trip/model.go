// README: Trip aggregate, status definitions, and the trip state machine.
package trip

import (
	"time"

	"walkbuddy/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusSearching Status = "searching"
	StatusMatched   Status = "matched"
	StatusCompleted Status = "completed"
)

type MatchMode string

const (
	// ModeUnset means the owner expressed no preference.
	ModeUnset       MatchMode = ""
	ModeInPerson    MatchMode = "in_person"
	ModeVirtualOnly MatchMode = "virtual_only"
)

// Place is one endpoint of a trip. Coord is nil when the owner never pinned
// a location on the map (virtual-only trips often carry text only).
type Place struct {
	Text  string
	Coord *types.Point
}

type Trip struct {
	ID          types.ID
	UserID      types.ID
	Origin      Place
	Destination Place
	MatchMode   MatchMode
	// PlannedStartTime is nil when the owner wants to leave "whenever".
	PlannedStartTime *time.Time
	Status           Status
	// ActiveMatchUserID is set exactly when Status == StatusMatched.
	ActiveMatchUserID *types.ID
	// ExcludedUserIDs only ever grows; rejection is permanent for this trip.
	ExcludedUserIDs []types.ID
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// HasCoords reports whether both endpoints carry usable coordinates.
func (t *Trip) HasCoords() bool {
	return t.Origin.Coord != nil && t.Destination.Coord != nil
}

// HasExcluded reports whether the given user has been rejected on this trip.
func (t *Trip) HasExcluded(userID types.ID) bool {
	for _, id := range t.ExcludedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AllowedTransitions represents the trip state flow as code. The searching
// self-loop covers rejection: the trip stays open while its exclusion list
// grows. Completed is terminal.
var AllowedTransitions = map[Status][]Status{
	StatusSearching: {StatusSearching, StatusMatched},
	StatusMatched:   {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
