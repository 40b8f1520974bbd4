// README: Trip history store backed by PostgreSQL (append + list only).
package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"walkbuddy/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const appendSQL = `
	INSERT INTO trip_history (
		user_id, other_user_id, start_location, end_location, trip_date, created_at
	) VALUES ($1, $2, $3, $4, $5, $6)`

func (s *Store) Append(ctx context.Context, rec Record) error {
	_, err := s.db.Exec(ctx, appendSQL, appendArgs(rec)...)
	return err
}

// AppendTx writes a record inside a caller-held transaction, so the match
// commit and its history rows land or roll back together.
func (s *Store) AppendTx(ctx context.Context, tx pgx.Tx, rec Record) error {
	_, err := tx.Exec(ctx, appendSQL, appendArgs(rec)...)
	return err
}

func appendArgs(rec Record) []any {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return []any{
		string(rec.UserID),
		string(rec.OtherUserID),
		rec.StartLocation,
		rec.EndLocation,
		rec.TripDate,
		rec.CreatedAt,
	}
}

func (s *Store) ListByUser(ctx context.Context, userID types.ID) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, other_user_id, start_location, end_location, trip_date, created_at
		FROM trip_history
		WHERE user_id = $1
		ORDER BY trip_date DESC, id DESC`, string(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.OtherUserID,
			&rec.StartLocation, &rec.EndLocation,
			&rec.TripDate, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
