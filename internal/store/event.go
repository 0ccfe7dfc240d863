package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AnswerEvent is one answered fact, kept append-only for history views
// and spreadsheet export. JSON tags shape the API history payload.
type AnswerEvent struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"-"`
	A               int       `db:"a" json:"a"`
	B               int       `db:"b" json:"b"`
	Answer          int       `db:"answer" json:"answer"`
	Correct         bool      `db:"correct" json:"correct"`
	ResponseSeconds float64   `db:"response_seconds" json:"response_seconds"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// EventRepo provides append access to the answer history.
type EventRepo interface {
	// Append records one answer. A missing ID is assigned.
	Append(ctx context.Context, ev *AnswerEvent) error

	// ListForUser returns a user's answers, newest first. A limit of 0
	// means no limit.
	ListForUser(ctx context.Context, userID string, limit int) ([]AnswerEvent, error)

	// CountForUser reports how many answers a user has recorded.
	CountForUser(ctx context.Context, userID string) (int, error)
}

type eventRepo struct {
	db *sqlx.DB
}

func (r *eventRepo) Append(ctx context.Context, ev *AnswerEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO answer_events (id, user_id, a, b, answer, correct, response_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.UserID, ev.A, ev.B, ev.Answer, ev.Correct, ev.ResponseSeconds, ev.CreatedAt.UTC(),
	)
	return err
}

func (r *eventRepo) ListForUser(ctx context.Context, userID string, limit int) ([]AnswerEvent, error) {
	query := `SELECT id, user_id, a, b, answer, correct, response_seconds, created_at
		FROM answer_events WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var events []AnswerEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM answer_events WHERE user_id = ?", userID); err != nil {
		return 0, err
	}
	return n, nil
}
