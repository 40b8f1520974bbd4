// README: Route legs and the solo/together segmentation result.
package route

import (
	"time"

	"walkbuddy/internal/types"
)

// Leg is one provider-returned stretch of a walking route.
type Leg struct {
	Start          types.Point   `json:"start"`
	End            types.Point   `json:"end"`
	DistanceMeters int           `json:"distance_meters"`
	Duration       time.Duration `json:"duration"`
	// Path is the decoded polyline, when the provider supplied one.
	Path []types.Point `json:"path,omitempty"`
}

// SegmentedRoute labels a route around the meeting point: the solo leg is
// walked before meeting the buddy, the together leg after. Together is nil
// when the provider collapsed the waypoint or the trip is virtual-only.
type SegmentedRoute struct {
	Solo     Leg  `json:"solo"`
	Together *Leg `json:"together,omitempty"`
}
