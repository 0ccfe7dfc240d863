package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Session is one bearer-token login. Tokens are opaque random strings;
// expiry policy lives in the auth service, the store only keeps rows.
type Session struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// SessionRepo manages login sessions.
type SessionRepo interface {
	// Create inserts a new session.
	Create(ctx context.Context, s *Session) error

	// ByToken returns the session for a token, expired or not.
	ByToken(ctx context.Context, token string) (*Session, error)

	// Delete removes a single session.
	Delete(ctx context.Context, token string) error

	// DeleteForUser removes every session belonging to a user.
	DeleteForUser(ctx context.Context, userID string) error

	// DeleteExpired removes sessions past their expiry and reports how
	// many were dropped.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepo struct {
	db *sqlx.DB
}

func (r *sessionRepo) Create(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		s.Token, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	return err
}

func (r *sessionRepo) ByToken(ctx context.Context, token string) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s,
		"SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?", token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

func (r *sessionRepo) DeleteForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
