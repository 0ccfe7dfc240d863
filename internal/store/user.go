package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// User is an account row. PasswordHash is a bcrypt hash; plaintext
// passwords never reach the store.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserRepo manages account rows.
type UserRepo interface {
	// Create inserts a new user. Returns ErrUsernameTaken when the
	// username already exists.
	Create(ctx context.Context, u *User) error

	// ByUsername returns the user with the given username.
	ByUsername(ctx context.Context, username string) (*User, error)

	// ByID returns the user with the given id.
	ByID(ctx context.Context, id string) (*User, error)
}

type userRepo struct {
	db *sqlx.DB
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.UTC(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrUsernameTaken
	}
	return err
}

func (r *userRepo) ByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
