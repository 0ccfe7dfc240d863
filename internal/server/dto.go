package server

import (
	"time"

	"github.com/abhisek/timestables/internal/engine"
	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/store"
)

// DefaultElapsedSeconds is assumed when a client omits elapsed_secs.
const DefaultElapsedSeconds = 5.0

// AuthRequest carries register and login credentials.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse hands back the bearer token clients attach to every
// later call.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StateResponse describes what to practice now.
type StateResponse struct {
	Problem   engine.Problem   `json:"problem"`
	Aggregate progress.Summary `json:"aggregate"`
}

// AnswerRequest submits one answer. ElapsedSecs is optional; omitting
// it counts as an unhurried answer.
type AnswerRequest struct {
	A           int      `json:"a"`
	B           int      `json:"b"`
	Answer      int      `json:"answer"`
	ElapsedSecs *float64 `json:"elapsed_secs"`
}

// AnswerResponse grades the submitted answer and schedules the next
// problem.
type AnswerResponse struct {
	Correct       bool             `json:"correct"`
	CorrectAnswer int              `json:"correct_answer"`
	NextProblem   engine.Problem   `json:"next_problem"`
	Aggregate     progress.Summary `json:"aggregate"`
}

// HistoryResponse lists a learner's recent answers, newest first.
type HistoryResponse struct {
	Events []store.AnswerEvent `json:"events"`
}
