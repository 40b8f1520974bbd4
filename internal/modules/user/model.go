// README: User directory model; profile fields are pass-through, ratings are aggregated here.
package user

import "walkbuddy/internal/types"

type User struct {
	ID       types.ID
	Name     string
	Phone    string
	Bio      string
	Pronouns string
	Age      *int
	// RatingAverage is nil until the first rating arrives.
	RatingAverage *float64
	RatingCount   int
	// PrefersVideoFirst marks users open to a virtual walk before meeting.
	PrefersVideoFirst bool
}

// Rating is the aggregate returned after a rating submission.
type Rating struct {
	Average float64
	Count   int
}

// NextAverage computes the running mean after one more rating.
func NextAverage(oldAvg *float64, oldCount, rating int) float64 {
	prev := 0.0
	if oldAvg != nil {
		prev = *oldAvg
	}
	return (prev*float64(oldCount) + float64(rating)) / float64(oldCount+1)
}
