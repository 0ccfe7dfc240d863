package engine

import "time"

// Ease factor bounds. Every reachable FactState stays inside them.
const (
	InitialEase = 2.5
	MinEase     = 1.3
	MaxEase     = 3.0
)

// Mastery thresholds: three consecutive correct answers with ease at or
// above 2.0.
const (
	masteryStreak = 3
	masteryEase   = 2.0
)

// FactState is the per-learner scheduling state of a single fact.
type FactState struct {
	Problem            Problem   `json:"problem"`
	EaseFactor         float64   `json:"ease_factor"`
	IntervalDays       float64   `json:"interval_days"`
	NextReview         time.Time `json:"next_review"`
	TimesCorrect       int       `json:"times_correct"`
	TimesWrong         int       `json:"times_wrong"`
	ConsecutiveCorrect int       `json:"consecutive_correct"`
}

// NewFactState returns the initial state for a fact: ease 2.5, interval
// 0, due immediately.
func NewFactState(p Problem, now time.Time) FactState {
	return FactState{
		Problem:    p,
		EaseFactor: InitialEase,
		NextReview: now,
	}
}

// IsDue reports whether the fact is due at or before now.
func (s FactState) IsDue(now time.Time) bool {
	return !now.Before(s.NextReview)
}

// IsMastered reports whether the fact currently counts as mastered.
// The label is recomputed every time, never stored: a single wrong
// answer zeroes the streak and the mastery with it.
func (s FactState) IsMastered() bool {
	return s.ConsecutiveCorrect >= masteryStreak && s.EaseFactor >= masteryEase
}
