// README: User directory service; ratings and the video-first candidate picker.
package user

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"walkbuddy/internal/types"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrBadRequest       = errors.New("bad request")
	ErrStoreUnavailable = errors.New("user store unavailable")
)

type UserStore interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id types.ID) (*User, error)
	Rate(ctx context.Context, id types.ID, rating int) (Rating, error)
	ListVideoFirst(ctx context.Context) ([]*User, error)
}

type Service struct {
	store UserStore
}

func NewService(store UserStore) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	Name              string
	Phone             string
	Bio               string
	Pronouns          string
	Age               *int
	PrefersVideoFirst bool
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*User, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrBadRequest)
	}
	u := &User{
		ID:                types.ID(uuid.NewString()),
		Name:              cmd.Name,
		Phone:             cmd.Phone,
		Bio:               cmd.Bio,
		Pronouns:          cmd.Pronouns,
		Age:               cmd.Age,
		PrefersVideoFirst: cmd.PrefersVideoFirst,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, storeFailure("create user", err)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*User, error) {
	u, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storeFailure("get user", err)
	}
	return u, nil
}

// Rate submits a 1..5 rating and returns the new aggregate. The running
// mean is computed at the store so submissions are atomic.
func (s *Service) Rate(ctx context.Context, id types.ID, rating int) (Rating, error) {
	if rating < 1 || rating > 5 {
		return Rating{}, fmt.Errorf("%w: rating must be 1..5", ErrBadRequest)
	}
	r, err := s.store.Rate(ctx, id, rating)
	if errors.Is(err, ErrNotFound) {
		return Rating{}, err
	}
	if err != nil {
		return Rating{}, storeFailure("rate user", err)
	}
	return r, nil
}

// PickVideoCandidate returns a random video-first user, excluding the
// caller and anyone already turned down this session. Nil with no error
// means nobody is available right now.
func (s *Service) PickVideoCandidate(ctx context.Context, selfID types.ID, excluded []types.ID) (*User, error) {
	all, err := s.store.ListVideoFirst(ctx)
	if err != nil {
		return nil, storeFailure("list video-first users", err)
	}

	skip := make(map[types.ID]struct{}, len(excluded)+1)
	skip[selfID] = struct{}{}
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	var pool []*User
	for _, u := range all {
		if _, ok := skip[u.ID]; ok {
			continue
		}
		pool = append(pool, u)
	}
	if len(pool) == 0 {
		return nil, nil
	}
	return pool[rand.Intn(len(pool))], nil
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
