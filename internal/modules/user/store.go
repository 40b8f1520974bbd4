// README: User directory store backed by PostgreSQL; rating mean updated in SQL.
package user

import (
	"context"
	"errors"

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

const userColumns = `id, name, phone, bio, pronouns, age, rating_average, rating_count, prefers_video_first`

func (s *Store) Create(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, phone, bio, pronouns, age, rating_count, prefers_video_first)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)`,
		string(u.ID), u.Name, u.Phone, u.Bio, u.Pronouns, u.Age, u.PrefersVideoFirst,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Rate folds one rating into the running mean in a single statement so
// concurrent submissions never lose an update.
func (s *Store) Rate(ctx context.Context, id types.ID, rating int) (Rating, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET rating_average = (COALESCE(rating_average, 0) * rating_count + $2) / (rating_count + 1),
		    rating_count = rating_count + 1
		WHERE id = $1
		RETURNING rating_average, rating_count`,
		string(id), rating)

	var r Rating
	err := row.Scan(&r.Average, &r.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rating{}, ErrNotFound
	}
	if err != nil {
		return Rating{}, err
	}
	return r, nil
}

func (s *Store) ListVideoFirst(ctx context.Context) ([]*User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE prefers_video_first
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Phone, &u.Bio, &u.Pronouns,
		&u.Age, &u.RatingAverage, &u.RatingCount, &u.PrefersVideoFirst,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
