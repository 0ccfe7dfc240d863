package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/timestables/internal/progress"
)

// ProgressRepo persists each learner's full fact map as one JSON blob,
// rewritten whole after every answer.
type ProgressRepo interface {
	// Save upserts the learner's progress blob.
	Save(ctx context.Context, userID string, p *progress.Progress, now time.Time) error

	// Load returns the learner's decoded progress, or ErrNotFound when
	// none has been saved yet.
	Load(ctx context.Context, userID string) (*progress.Progress, error)
}

type progressRepo struct {
	db *sqlx.DB
}

func (r *progressRepo) Save(ctx context.Context, userID string, p *progress.Progress, now time.Time) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO progress (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(blob), now.UTC(),
	)
	return err
}

func (r *progressRepo) Load(ctx context.Context, userID string) (*progress.Progress, error) {
	var data string
	err := r.db.GetContext(ctx, &data, "SELECT data FROM progress WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var p progress.Progress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &p, nil
}
