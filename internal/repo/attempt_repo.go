package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginAttemptRepo is the narrow store interface the rate limiter needs:
// append one attempt row, count recent failures.
type LoginAttemptRepo interface {
	Insert(ctx context.Context, username string, at time.Time, success bool) error
	CountFailedSince(ctx context.Context, username string, since time.Time) (int, error)
}

// PGLoginAttemptRepo implements LoginAttemptRepo with Postgres.
type PGLoginAttemptRepo struct {
	db *pgxpool.Pool
}

// NewPGLoginAttemptRepo returns a new PGLoginAttemptRepo.
func NewPGLoginAttemptRepo(db *pgxpool.Pool) *PGLoginAttemptRepo {
	return &PGLoginAttemptRepo{db: db}
}

// Insert appends one attempt row.
func (r *PGLoginAttemptRepo) Insert(ctx context.Context, username string, at time.Time, success bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO login_attempts (username, attempt_time, success) VALUES ($1, $2, $3)`,
		username, at, success)
	return err
}

// CountFailedSince counts failed attempts with attempt_time >= since.
// Lower edge inclusive; successful rows never count.
func (r *PGLoginAttemptRepo) CountFailedSince(ctx context.Context, username string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM login_attempts
		 WHERE username = $1 AND attempt_time >= $2 AND success = FALSE`,
		username, since,
	).Scan(&n)
	return n, err
}
