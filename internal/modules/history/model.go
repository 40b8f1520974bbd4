// README: Append-only past-trip records shown in each user's history view.
package history

import (
	"time"

	"walkbuddy/internal/types"
)

type Record struct {
	ID            int64
	UserID        types.ID
	OtherUserID   types.ID
	StartLocation string
	EndLocation   string
	TripDate      time.Time
	CreatedAt     time.Time
}
