// README: Trip lifecycle service; owns status transitions and exclusion bookkeeping.
package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"walkbuddy/internal/modules/history"
	"walkbuddy/internal/modules/user"
	"walkbuddy/internal/types"
)

var (
	ErrNotFound             = errors.New("trip not found")
	ErrStoreUnavailable     = errors.New("trip store unavailable")
	ErrInvalidState         = errors.New("invalid trip state transition")
	ErrCandidateUnavailable = errors.New("candidate no longer available")
	ErrBadRequest           = errors.New("bad request")
)

// TripStore is the persistence surface the lifecycle needs. *Store
// implements it; tests use in-memory fakes. CommitMatch persists the given
// history records atomically with the status change.
type TripStore interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id types.ID) (*Trip, error)
	FindSearchingByUser(ctx context.Context, userID types.ID) (*Trip, error)
	AddExcludedUser(ctx context.Context, tripID, userID types.ID) error
	CommitMatch(ctx context.Context, myTripID, myUserID, otherTripID, otherUserID types.ID, records []history.Record) (bool, error)
	Complete(ctx context.Context, tripID types.ID, completedAt time.Time) (bool, error)
}

// Rater submits a rating for the other participant on completion.
type Rater interface {
	Rate(ctx context.Context, userID types.ID, rating int) (user.Rating, error)
}

// OpenTripIndex mirrors searching trips with origin coordinates into a geo
// index serving the nearby-trips browse. Maintained best-effort: index drift
// never fails a lifecycle operation.
type OpenTripIndex interface {
	AddOpenTrip(ctx context.Context, id types.ID, pos types.Point) error
	RemoveOpenTrip(ctx context.Context, id types.ID) error
}

type Service struct {
	store TripStore
	rater Rater
	index OpenTripIndex
	log   zerolog.Logger
}

func NewService(store TripStore, rater Rater, index OpenTripIndex, log zerolog.Logger) *Service {
	return &Service{store: store, rater: rater, index: index, log: log}
}

type CreateCommand struct {
	UserID           types.ID
	Origin           Place
	Destination      Place
	MatchMode        MatchMode
	PlannedStartTime *time.Time
}

type AcceptCommand struct {
	TripID      types.ID
	OtherUserID types.ID
}

type RejectCommand struct {
	TripID      types.ID
	OtherUserID types.ID
}

type CompleteCommand struct {
	TripID types.ID
	// Rating of the walking buddy, 1..5; zero means the owner skipped it.
	Rating int
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Trip, error) {
	if cmd.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrBadRequest)
	}
	if cmd.Origin.Text == "" && cmd.Origin.Coord == nil {
		return nil, fmt.Errorf("%w: origin required", ErrBadRequest)
	}
	if cmd.Destination.Text == "" && cmd.Destination.Coord == nil {
		return nil, fmt.Errorf("%w: destination required", ErrBadRequest)
	}
	switch cmd.MatchMode {
	case ModeUnset, ModeInPerson, ModeVirtualOnly:
	default:
		return nil, fmt.Errorf("%w: unknown match mode %q", ErrBadRequest, cmd.MatchMode)
	}

	t := &Trip{
		ID:               types.ID(uuid.NewString()),
		UserID:           cmd.UserID,
		Origin:           cmd.Origin,
		Destination:      cmd.Destination,
		MatchMode:        cmd.MatchMode,
		PlannedStartTime: cmd.PlannedStartTime,
		Status:           StatusSearching,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, storeFailure("create trip", err)
	}

	if s.index != nil && t.Origin.Coord != nil {
		if err := s.index.AddOpenTrip(ctx, t.ID, *t.Origin.Coord); err != nil {
			s.log.Warn().Err(err).Str("trip_id", string(t.ID)).Msg("open-trip index add failed")
		}
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	t, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storeFailure("get trip", err)
	}
	return t, nil
}

// Accept commits a match with the candidate's owner. The search result is a
// point-in-time snapshot, so both trips are re-validated as still searching
// inside the commit; a lost race surfaces as ErrCandidateUnavailable and the
// caller must re-search.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Trip, error) {
	if cmd.OtherUserID == "" {
		return nil, fmt.Errorf("%w: missing other user id", ErrBadRequest)
	}
	my, err := s.Get(ctx, cmd.TripID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(my.Status, StatusMatched) {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidState, my.Status)
	}
	if cmd.OtherUserID == my.UserID {
		return nil, fmt.Errorf("%w: cannot match own trip", ErrBadRequest)
	}

	other, err := s.store.FindSearchingByUser(ctx, cmd.OtherUserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrCandidateUnavailable
	}
	if err != nil {
		return nil, storeFailure("find candidate trip", err)
	}

	tripDate := time.Now().UTC()
	if my.PlannedStartTime != nil {
		tripDate = *my.PlannedStartTime
	}
	records := []history.Record{
		{
			UserID:        my.UserID,
			OtherUserID:   other.UserID,
			StartLocation: my.Origin.Text,
			EndLocation:   my.Destination.Text,
			TripDate:      tripDate,
		},
		{
			UserID:        other.UserID,
			OtherUserID:   my.UserID,
			StartLocation: other.Origin.Text,
			EndLocation:   other.Destination.Text,
			TripDate:      tripDate,
		},
	}

	ok, err := s.store.CommitMatch(ctx, my.ID, my.UserID, other.ID, other.UserID, records)
	if err != nil {
		return nil, storeFailure("commit match", err)
	}
	if !ok {
		return nil, ErrCandidateUnavailable
	}

	if s.index != nil {
		for _, id := range []types.ID{my.ID, other.ID} {
			if err := s.index.RemoveOpenTrip(ctx, id); err != nil {
				s.log.Warn().Err(err).Str("trip_id", string(id)).Msg("open-trip index remove failed")
			}
		}
	}

	return s.Get(ctx, my.ID)
}

// Reject permanently excludes the candidate's owner from this trip and
// leaves the trip searching. The exclusion is one-directional: the rejected
// user's own trip is untouched.
func (s *Service) Reject(ctx context.Context, cmd RejectCommand) (*Trip, error) {
	if cmd.OtherUserID == "" {
		return nil, fmt.Errorf("%w: missing other user id", ErrBadRequest)
	}
	t, err := s.Get(ctx, cmd.TripID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusSearching {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}
	if err := s.store.AddExcludedUser(ctx, t.ID, cmd.OtherUserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storeFailure("exclude user", err)
	}
	return s.Get(ctx, t.ID)
}

// Complete marks a matched walk finished and optionally rates the buddy.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) (*Trip, error) {
	if cmd.Rating < 0 || cmd.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1..5, or 0 to skip", ErrBadRequest)
	}
	t, err := s.Get(ctx, cmd.TripID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.Status, StatusCompleted) {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}

	ok, err := s.store.Complete(ctx, t.ID, time.Now().UTC())
	if err != nil {
		return nil, storeFailure("complete trip", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: trip is no longer matched", ErrInvalidState)
	}

	if cmd.Rating > 0 && t.ActiveMatchUserID != nil {
		if _, err := s.rater.Rate(ctx, *t.ActiveMatchUserID, cmd.Rating); err != nil {
			return nil, fmt.Errorf("rate buddy: %w", err)
		}
	}

	return s.Get(ctx, t.ID)
}

// storeFailure tags an infrastructure failure so callers can match
// ErrStoreUnavailable while the driver error stays in the message.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
