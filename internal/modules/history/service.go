// README: Trip history service; thin validation over the append-only store.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walkbuddy/internal/types"
)

var ErrBadRequest = errors.New("bad request")

type HistoryStore interface {
	Append(ctx context.Context, rec Record) error
	ListByUser(ctx context.Context, userID types.ID) ([]Record, error)
}

type Service struct {
	store HistoryStore
}

func NewService(store HistoryStore) *Service {
	return &Service{store: store}
}

func (s *Service) RecordCompletedTrip(ctx context.Context, rec Record) error {
	if rec.UserID == "" || rec.OtherUserID == "" {
		return fmt.Errorf("%w: both participants required", ErrBadRequest)
	}
	if rec.TripDate.IsZero() {
		rec.TripDate = time.Now().UTC()
	}
	rec.CreatedAt = time.Now().UTC()
	return s.store.Append(ctx, rec)
}

func (s *Service) ListByUser(ctx context.Context, userID types.ID) ([]Record, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrBadRequest)
	}
	return s.store.ListByUser(ctx, userID)
}
