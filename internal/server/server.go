// Package server exposes the practice engine over HTTP: token auth,
// per-learner progress, answer grading, and history. The TUI and any
// web client speak the same API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abhisek/timestables/internal/auth"
	"github.com/abhisek/timestables/internal/logger"
	"github.com/abhisek/timestables/internal/store"
)

// Options carries the collaborators the server needs.
type Options struct {
	Auth     *auth.Service
	Progress store.ProgressRepo
	Events   store.EventRepo
	Sessions store.SessionRepo
	Log      *logger.Logger
}

// Server bundles the HTTP listener with background maintenance.
type Server struct {
	cfg     Config
	http    *http.Server
	sweeper *Sweeper
	log     *logger.Logger
}

// New builds a ready-to-run server from config and collaborators.
func New(cfg Config, opts Options) (*Server, error) {
	h := NewHandler(opts.Auth, opts.Progress, opts.Events, opts.Log)
	router := NewRouter(cfg, h, opts.Log)

	sweeper, err := NewSweeper(opts.Sessions, cfg.SweepInterval, opts.Log)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		sweeper: sweeper,
		log:     opts.Log.With("component", "server"),
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.sweeper.Start()
	defer s.sweeper.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
