// README: Trip lifecycle tests with in-memory store, history, and rater fakes.
package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"walkbuddy/internal/modules/history"
	"walkbuddy/internal/modules/user"
	"walkbuddy/internal/types"
)

type memTripStore struct {
	trips map[types.ID]*Trip
	err   error
	// historyErr makes the history insert inside CommitMatch fail, rolling
	// back the whole commit like the real transaction does.
	historyErr error
	committed  []history.Record
}

func newMemTripStore() *memTripStore {
	return &memTripStore{trips: map[types.ID]*Trip{}}
}

func (m *memTripStore) Create(_ context.Context, t *Trip) error {
	if m.err != nil {
		return m.err
	}
	cp := *t
	m.trips[t.ID] = &cp
	return nil
}

func (m *memTripStore) Get(_ context.Context, id types.ID) (*Trip, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTripStore) FindSearchingByUser(_ context.Context, userID types.ID) (*Trip, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.trips {
		if t.UserID == userID && t.Status == StatusSearching {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memTripStore) AddExcludedUser(_ context.Context, tripID, userID types.ID) error {
	if m.err != nil {
		return m.err
	}
	t, ok := m.trips[tripID]
	if !ok {
		return ErrNotFound
	}
	if !t.HasExcluded(userID) {
		t.ExcludedUserIDs = append(t.ExcludedUserIDs, userID)
	}
	return nil
}

func (m *memTripStore) CommitMatch(_ context.Context, myTripID, myUserID, otherTripID, otherUserID types.ID, records []history.Record) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	mine, myOK := m.trips[myTripID]
	other, otherOK := m.trips[otherTripID]
	if !myOK || !otherOK || mine.Status != StatusSearching || other.Status != StatusSearching {
		return false, nil
	}
	if m.historyErr != nil {
		return false, m.historyErr
	}
	mine.Status, other.Status = StatusMatched, StatusMatched
	mine.ActiveMatchUserID = &otherUserID
	other.ActiveMatchUserID = &myUserID
	m.committed = append(m.committed, records...)
	return true, nil
}

func (m *memTripStore) Complete(_ context.Context, tripID types.ID, completedAt time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	t, ok := m.trips[tripID]
	if !ok || t.Status != StatusMatched {
		return false, nil
	}
	t.Status = StatusCompleted
	t.CompletedAt = &completedAt
	return true, nil
}

type memRater struct {
	rated map[types.ID]int
	err   error
}

func (m *memRater) Rate(_ context.Context, userID types.ID, rating int) (user.Rating, error) {
	if m.err != nil {
		return user.Rating{}, m.err
	}
	if m.rated == nil {
		m.rated = map[types.ID]int{}
	}
	m.rated[userID] = rating
	return user.Rating{Average: float64(rating), Count: 1}, nil
}

type lifecycleFixture struct {
	store *memTripStore
	rater *memRater
	svc   *Service
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		store: newMemTripStore(),
		rater: &memRater{},
	}
	f.svc = NewService(f.store, f.rater, nil, zerolog.Nop())
	return f
}

func (f *lifecycleFixture) seed(t *testing.T, tr *Trip) *Trip {
	t.Helper()
	if err := f.store.Create(context.Background(), tr); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return tr
}

func searchingTrip(id, userID types.ID) *Trip {
	return &Trip{
		ID:          id,
		UserID:      userID,
		Origin:      Place{Text: "40th & Pine"},
		Destination: Place{Text: "Clark Park"},
		Status:      StatusSearching,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newLifecycleFixture()
	cases := []struct {
		name string
		cmd  CreateCommand
	}{
		{"missing user", CreateCommand{Origin: Place{Text: "a"}, Destination: Place{Text: "b"}}},
		{"missing origin", CreateCommand{UserID: "u1", Destination: Place{Text: "b"}}},
		{"missing destination", CreateCommand{UserID: "u1", Origin: Place{Text: "a"}}},
		{"unknown mode", CreateCommand{UserID: "u1", Origin: Place{Text: "a"}, Destination: Place{Text: "b"}, MatchMode: "carpool"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(context.Background(), tc.cmd); !errors.Is(err, ErrBadRequest) {
				t.Fatalf("err = %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestCreate_StartsSearching(t *testing.T) {
	f := newLifecycleFixture()
	got, err := f.svc.Create(context.Background(), CreateCommand{
		UserID:      "u1",
		Origin:      Place{Text: "40th & Pine"},
		Destination: Place{Text: "Clark Park"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Status != StatusSearching {
		t.Fatalf("status = %s, want searching", got.Status)
	}
	if got.ID == "" {
		t.Fatalf("trip id not assigned")
	}
	if got.ActiveMatchUserID != nil || len(got.ExcludedUserIDs) != 0 {
		t.Fatalf("new trip should have no match and no exclusions")
	}
}

func TestAccept_CommitsBothTripsAndWritesHistory(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))
	other := f.seed(t, searchingTrip("t2", "u2"))

	got, err := f.svc.Accept(context.Background(), AcceptCommand{TripID: mine.ID, OtherUserID: "u2"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got.Status != StatusMatched {
		t.Fatalf("status = %s, want matched", got.Status)
	}
	if got.ActiveMatchUserID == nil || *got.ActiveMatchUserID != "u2" {
		t.Fatalf("active match = %v, want u2", got.ActiveMatchUserID)
	}

	theirs, err := f.svc.Get(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("get other: %v", err)
	}
	if theirs.Status != StatusMatched || theirs.ActiveMatchUserID == nil || *theirs.ActiveMatchUserID != "u1" {
		t.Fatalf("candidate trip not matched symmetrically: %+v", theirs)
	}

	if len(f.store.committed) != 2 {
		t.Fatalf("got %d history records, want 2", len(f.store.committed))
	}
	if f.store.committed[0].UserID != "u1" || f.store.committed[0].OtherUserID != "u2" {
		t.Fatalf("first record wrong: %+v", f.store.committed[0])
	}
	if f.store.committed[1].UserID != "u2" || f.store.committed[1].OtherUserID != "u1" {
		t.Fatalf("second record wrong: %+v", f.store.committed[1])
	}
}

func TestAccept_HistoryFailureLeavesTripsSearching(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))
	other := f.seed(t, searchingTrip("t2", "u2"))
	f.store.historyErr = errors.New("trip_history insert failed")

	_, err := f.svc.Accept(context.Background(), AcceptCommand{TripID: mine.ID, OtherUserID: "u2"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}

	// The history rows ride in the match-commit transaction; its failure
	// must roll back the status change on both sides.
	for _, id := range []types.ID{mine.ID, other.ID} {
		got, err := f.svc.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if got.Status != StatusSearching || got.ActiveMatchUserID != nil {
			t.Fatalf("trip %s = %s/%v, want searching with no match", id, got.Status, got.ActiveMatchUserID)
		}
	}
	if len(f.store.committed) != 0 {
		t.Fatalf("history records persisted despite rollback: %+v", f.store.committed)
	}
}

func TestAccept_CandidateAlreadyMatched(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))
	stale := f.seed(t, searchingTrip("t2", "u2"))
	stale2 := f.store.trips[stale.ID]
	stale2.Status = StatusMatched

	_, err := f.svc.Accept(context.Background(), AcceptCommand{TripID: mine.ID, OtherUserID: "u2"})
	if !errors.Is(err, ErrCandidateUnavailable) {
		t.Fatalf("err = %v, want ErrCandidateUnavailable", err)
	}

	unchanged, _ := f.svc.Get(context.Background(), mine.ID)
	if unchanged.Status != StatusSearching {
		t.Fatalf("losing accept must leave the trip searching, got %s", unchanged.Status)
	}
}

func TestAccept_CandidateHasNoOpenTrip(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))

	_, err := f.svc.Accept(context.Background(), AcceptCommand{TripID: mine.ID, OtherUserID: "ghost"})
	if !errors.Is(err, ErrCandidateUnavailable) {
		t.Fatalf("err = %v, want ErrCandidateUnavailable", err)
	}
}

func TestAccept_OwnTrip(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))

	_, err := f.svc.Accept(context.Background(), AcceptCommand{TripID: mine.ID, OtherUserID: "u1"})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestReject_AddsExclusionAndStaysSearching(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))

	got, err := f.svc.Reject(context.Background(), RejectCommand{TripID: mine.ID, OtherUserID: "u2"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != StatusSearching {
		t.Fatalf("status = %s, want searching", got.Status)
	}
	if !got.HasExcluded("u2") {
		t.Fatalf("u2 missing from exclusion list: %v", got.ExcludedUserIDs)
	}

	// Rejecting again is idempotent.
	again, err := f.svc.Reject(context.Background(), RejectCommand{TripID: mine.ID, OtherUserID: "u2"})
	if err != nil {
		t.Fatalf("second reject: %v", err)
	}
	if len(again.ExcludedUserIDs) != 1 {
		t.Fatalf("exclusions = %v, want single entry", again.ExcludedUserIDs)
	}
}

func TestReject_RequiresSearching(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))
	f.store.trips[mine.ID].Status = StatusMatched

	_, err := f.svc.Reject(context.Background(), RejectCommand{TripID: mine.ID, OtherUserID: "u2"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestComplete_MarksCompletedAndRates(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))
	buddy := types.ID("u2")
	f.store.trips[mine.ID].Status = StatusMatched
	f.store.trips[mine.ID].ActiveMatchUserID = &buddy

	got, err := f.svc.Complete(context.Background(), CompleteCommand{TripID: mine.ID, Rating: 4})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
	if f.rater.rated[buddy] != 4 {
		t.Fatalf("buddy rating = %d, want 4", f.rater.rated[buddy])
	}
}

func TestComplete_RatingOptional(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))
	buddy := types.ID("u2")
	f.store.trips[mine.ID].Status = StatusMatched
	f.store.trips[mine.ID].ActiveMatchUserID = &buddy

	if _, err := f.svc.Complete(context.Background(), CompleteCommand{TripID: mine.ID}); err != nil {
		t.Fatalf("complete without rating: %v", err)
	}
	if len(f.rater.rated) != 0 {
		t.Fatalf("rater called without a rating: %v", f.rater.rated)
	}
}

func TestComplete_RequiresMatched(t *testing.T) {
	f := newLifecycleFixture()
	mine := f.seed(t, searchingTrip("t1", "u1"))

	_, err := f.svc.Complete(context.Background(), CompleteCommand{TripID: mine.ID})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("completing a searching trip: err = %v, want ErrInvalidState", err)
	}

	f.store.trips[mine.ID].Status = StatusCompleted
	_, err = f.svc.Complete(context.Background(), CompleteCommand{TripID: mine.ID})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("completing twice: err = %v, want ErrInvalidState", err)
	}
}

func TestComplete_RejectsOutOfRangeRating(t *testing.T) {
	f := newLifecycleFixture()
	_, err := f.svc.Complete(context.Background(), CompleteCommand{TripID: "t1", Rating: 6})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestStoreFailureSurfacesAsUnavailable(t *testing.T) {
	f := newLifecycleFixture()
	f.store.err = errors.New("connection reset")

	_, err := f.svc.Get(context.Background(), "t1")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}
