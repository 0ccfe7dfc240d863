package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/timestables/internal/auth"
	"github.com/abhisek/timestables/internal/engine"
	"github.com/abhisek/timestables/internal/logger"
	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/store"
)

const defaultHistoryLimit = 50

// Handler serves the practice API. Each request loads the learner's
// progress blob, runs the scheduling engine on it, and writes it back.
type Handler struct {
	auth     *auth.Service
	progress store.ProgressRepo
	events   store.EventRepo
	log      *logger.Logger
}

// NewHandler wires the API handlers to their collaborators.
func NewHandler(authSvc *auth.Service, progressRepo store.ProgressRepo, events store.EventRepo, log *logger.Logger) *Handler {
	return &Handler{
		auth:     authSvc,
		progress: progressRepo,
		events:   events,
		log:      log.With("component", "api"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

// Register creates an account and returns a fresh session token.
func (h *Handler) Register(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ctx := c.Request.Context()
	user, sess, err := h.auth.Register(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		respondError(c, http.StatusBadRequest, "missing_credentials", err)
		return
	case errors.Is(err, store.ErrUsernameTaken):
		respondError(c, http.StatusConflict, "username_taken", err)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "registration_failed", err)
		return
	}

	// Seed progress so the first /state call starts warm. A failure
	// here is recoverable: loadProgress creates lazily.
	now := time.Now().UTC()
	if err := h.progress.Save(ctx, user.ID, progress.New(now), now); err != nil {
		h.log.Warn("seed progress", "error", err)
	}

	respondOK(c, TokenResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

// Login opens a new session for an existing account.
func (h *Handler) Login(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	_, sess, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		respondError(c, http.StatusBadRequest, "missing_credentials", err)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid_credentials", err)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "login_failed", err)
		return
	}

	respondOK(c, TokenResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

// Logout drops the calling session.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentToken(c)); err != nil {
		respondError(c, http.StatusInternalServerError, "logout_failed", err)
		return
	}
	respondOK(c, gin.H{"ok": true})
}

// State returns the problem to practice now plus aggregate counters.
func (h *Handler) State(c *gin.Context) {
	user := currentUser(c)
	now := time.Now().UTC()

	p, err := h.loadProgress(c.Request.Context(), user.ID, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "load_progress", err)
		return
	}

	respondOK(c, StateResponse{
		Problem:   p.NextProblem(nil, now),
		Aggregate: p.Summarize(now),
	})
}

// Answer grades one answer, updates the schedule, and returns the next
// problem. Validation failures leave the learner's state untouched.
func (h *Handler) Answer(c *gin.Context) {
	user := currentUser(c)

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	prob, err := engine.NewProblem(req.A, req.B)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_problem", err)
		return
	}
	elapsed := DefaultElapsedSeconds
	if req.ElapsedSecs != nil {
		elapsed = *req.ElapsedSecs
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()
	p, err := h.loadProgress(ctx, user.ID, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "load_progress", err)
		return
	}

	correct := req.Answer == prob.Answer()
	if _, err := p.RecordAnswer(prob, correct, elapsed, now); err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidLatency), errors.Is(err, engine.ErrInvalidProblem):
			respondError(c, http.StatusBadRequest, "invalid_answer", err)
		case errors.Is(err, engine.ErrUnknownFact):
			respondError(c, http.StatusNotFound, "unknown_fact", err)
		default:
			respondError(c, http.StatusInternalServerError, "record_answer", err)
		}
		return
	}
	if err := h.progress.Save(ctx, user.ID, p, now); err != nil {
		respondError(c, http.StatusInternalServerError, "save_progress", err)
		return
	}

	// History is best effort; the schedule update already committed.
	ev := &store.AnswerEvent{
		UserID:          user.ID,
		A:               prob.A,
		B:               prob.B,
		Answer:          req.Answer,
		Correct:         correct,
		ResponseSeconds: elapsed,
		CreatedAt:       now,
	}
	if err := h.events.Append(ctx, ev); err != nil {
		h.log.Warn("append answer event", "error", err)
	}

	respondOK(c, AnswerResponse{
		Correct:       correct,
		CorrectAnswer: prob.Answer(),
		NextProblem:   p.NextProblem(&prob, now),
		Aggregate:     p.Summarize(now),
	})
}

// Reset wipes the learner's progress back to a fresh start.
func (h *Handler) Reset(c *gin.Context) {
	user := currentUser(c)
	now := time.Now().UTC()

	if err := h.progress.Save(c.Request.Context(), user.ID, progress.New(now), now); err != nil {
		respondError(c, http.StatusInternalServerError, "reset_progress", err)
		return
	}
	h.log.Info("progress reset", "user_id", user.ID)
	respondOK(c, gin.H{"ok": true})
}

// History lists the learner's recent answers, newest first.
func (h *Handler) History(c *gin.Context) {
	user := currentUser(c)

	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	events, err := h.events.ListForUser(c.Request.Context(), user.ID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "load_history", err)
		return
	}
	if events == nil {
		events = []store.AnswerEvent{}
	}
	respondOK(c, HistoryResponse{Events: events})
}

// loadProgress fetches the learner's progress, creating it on first
// touch and backfilling facts added since the blob was written.
func (h *Handler) loadProgress(ctx context.Context, userID string, now time.Time) (*progress.Progress, error) {
	p, err := h.progress.Load(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return progress.New(now), nil
	}
	if err != nil {
		return nil, err
	}
	p.InitializeMissing(now)
	return p, nil
}
