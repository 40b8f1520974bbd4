// README: Safe meeting locations; a small static catalog of vetted points.
package safeloc

import "walkbuddy/internal/types"

type SafeLocation struct {
	ID      types.ID    `json:"id"`
	Name    string      `json:"name"`
	Address string      `json:"address,omitempty"`
	Coord   types.Point `json:"coord"`
}
