// README: Trip store backed by PostgreSQL; targeted field updates only.
package trip

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"walkbuddy/internal/modules/history"
	"walkbuddy/internal/types"
)

// historyAppender writes past-trip records inside the match-commit
// transaction. *history.Store implements it.
type historyAppender interface {
	AppendTx(ctx context.Context, tx pgx.Tx, rec history.Record) error
}

type Store struct {
	db      *pgxpool.Pool
	history historyAppender
}

func NewStore(db *pgxpool.Pool, hist historyAppender) *Store {
	return &Store{db: db, history: hist}
}

const tripColumns = `
	id, user_id,
	origin_text, origin_lat, origin_lng,
	destination_text, destination_lat, destination_lng,
	match_mode, planned_start_time, status, active_match_user_id,
	excluded_user_ids, created_at, completed_at`

func (s *Store) Create(ctx context.Context, t *Trip) error {
	var oLat, oLng, dLat, dLng *float64
	if t.Origin.Coord != nil {
		oLat, oLng = &t.Origin.Coord.Lat, &t.Origin.Coord.Lng
	}
	if t.Destination.Coord != nil {
		dLat, dLng = &t.Destination.Coord.Lat, &t.Destination.Coord.Lng
	}
	excluded := make([]string, len(t.ExcludedUserIDs))
	for i, id := range t.ExcludedUserIDs {
		excluded[i] = string(id)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, user_id,
			origin_text, origin_lat, origin_lng,
			destination_text, destination_lat, destination_lng,
			match_mode, planned_start_time, status, active_match_user_id,
			excluded_user_ids, created_at
		) VALUES (
			$1, $2,
			$3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12,
			$13, $14
		)`,
		string(t.ID),
		string(t.UserID),
		t.Origin.Text, oLat, oLng,
		t.Destination.Text, dLat, dLng,
		string(t.MatchMode),
		t.PlannedStartTime,
		string(t.Status),
		toStringPtr(t.ActiveMatchUserID),
		excluded,
		t.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, string(id))
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByStatus returns trips in creation order. The fixed order matters:
// the candidate finder's tie-break preserves it.
func (s *Store) ListByStatus(ctx context.Context, status Status) ([]*Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE status = $1
		ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// FindSearchingByUser returns the user's open trip, if any. A user is
// expected to hold at most one searching trip at a time; the oldest wins
// when the broader system has left more than one behind.
func (s *Store) FindSearchingByUser(ctx context.Context, userID types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE user_id = $1 AND status = 'searching'
		ORDER BY created_at
		LIMIT 1`, string(userID))
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// AddExcludedUser appends to the exclusion list as a single atomic set-add.
// Cleanup jobs also touch this column, so a read-modify-write of the whole
// array would lose updates.
func (s *Store) AddExcludedUser(ctx context.Context, tripID, userID types.ID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET excluded_user_ids = array_append(excluded_user_ids, $2)
		WHERE id = $1 AND NOT ($2 = ANY(excluded_user_ids))`,
		string(tripID), string(userID))
	if err != nil {
		return err
	}
	// Zero rows means the trip is gone or the user was already excluded;
	// only the former is an error.
	if tag.RowsAffected() == 0 {
		exists, err := s.exists(ctx, tripID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

// CommitMatch marks both trips matched with each other's owner, guarded by
// status = 'searching' on each side, and writes the symmetric trip-history
// records in the same transaction: a match either fully commits with its
// history or leaves both trips searching. Returns false when either trip
// has moved on since the search snapshot was taken.
func (s *Store) CommitMatch(ctx context.Context, myTripID, myUserID, otherTripID, otherUserID types.ID, records []history.Record) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	mine, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = 'matched', active_match_user_id = $2
		WHERE id = $1 AND status = 'searching'`,
		string(myTripID), string(otherUserID))
	if err != nil {
		return false, err
	}
	theirs, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = 'matched', active_match_user_id = $2
		WHERE id = $1 AND status = 'searching'`,
		string(otherTripID), string(myUserID))
	if err != nil {
		return false, err
	}
	if mine.RowsAffected() != 1 || theirs.RowsAffected() != 1 {
		return false, nil
	}
	for _, rec := range records {
		if err := s.history.AppendTx(ctx, tx, rec); err != nil {
			return false, err
		}
	}
	return true, tx.Commit(ctx)
}

// Complete moves a matched trip to completed. Returns false when the trip
// was not in the matched state.
func (s *Store) Complete(ctx context.Context, tripID types.ID, completedAt time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'matched'`,
		string(tripID), completedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) exists(ctx context.Context, tripID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, string(tripID)).Scan(&exists)
	return exists, err
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var oLat, oLng, dLat, dLng *float64
	var matchMode string
	var activeMatch *string
	var excluded []string

	err := row.Scan(
		&t.ID, &t.UserID,
		&t.Origin.Text, &oLat, &oLng,
		&t.Destination.Text, &dLat, &dLng,
		&matchMode, &t.PlannedStartTime, &t.Status, &activeMatch,
		&excluded, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if oLat != nil && oLng != nil {
		t.Origin.Coord = &types.Point{Lat: *oLat, Lng: *oLng}
	}
	if dLat != nil && dLng != nil {
		t.Destination.Coord = &types.Point{Lat: *dLat, Lng: *dLng}
	}
	t.MatchMode = MatchMode(matchMode)
	if activeMatch != nil {
		id := types.ID(*activeMatch)
		t.ActiveMatchUserID = &id
	}
	t.ExcludedUserIDs = make([]types.ID, len(excluded))
	for i, id := range excluded {
		t.ExcludedUserIDs[i] = types.ID(id)
	}
	return &t, nil
}

func toStringPtr(id *types.ID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}
