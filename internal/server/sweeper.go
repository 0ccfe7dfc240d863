package server

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/timestables/internal/logger"
	"github.com/abhisek/timestables/internal/store"
)

// Sweeper purges expired sessions on a schedule so the sessions table
// doesn't grow without bound.
type Sweeper struct {
	sessions  store.SessionRepo
	scheduler *gocron.Scheduler
	log       *logger.Logger
}

// NewSweeper schedules an expired-session purge every interval.
func NewSweeper(sessions store.SessionRepo, interval time.Duration, log *logger.Logger) (*Sweeper, error) {
	s := &Sweeper{
		sessions:  sessions,
		scheduler: gocron.NewScheduler(time.UTC),
		log:       log.With("component", "sweeper"),
	}
	if _, err := s.scheduler.Every(interval).Do(s.sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins sweeping in the background.
func (s *Sweeper) Start() {
	s.scheduler.StartAsync()
}

// Stop halts the schedule. A sweep already in flight finishes.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Sweep runs one purge immediately, outside the schedule.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.Sweep(ctx)
	if err != nil {
		s.log.Error("purge expired sessions", "error", err)
		return
	}
	if n > 0 {
		s.log.Info("expired sessions purged", "count", n)
	}
}
