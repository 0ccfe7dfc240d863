package engine

import (
	"fmt"
	"math"
	"time"
)

// Ease adjustments applied per answer. Fast recall earns the biggest
// bonus; any wrong answer costs a flat penalty.
const (
	easeBonusFast   = 0.15
	easeBonusNormal = 0.10
	easeBonusSlow   = 0.05
	easePenalty     = 0.2

	fastLatencySeconds   = 3.0
	normalLatencySeconds = 8.0
)

// ApplyAnswer returns the state after one answer. It never mutates s.
//
// On a correct answer the interval grows: a first success lands on one
// day, afterwards the interval multiplies by the pre-bonus ease factor.
// Ease then rises by a latency bonus, capped at MaxEase. On a wrong
// answer the interval and streak reset to zero and ease drops by 0.2,
// floored at MinEase. NextReview becomes now plus the new interval.
//
// responseSeconds must be finite and non-negative; anything else is
// rejected with ErrInvalidLatency rather than clamped into a latency
// band it never belonged to.
func ApplyAnswer(s FactState, correct bool, responseSeconds float64, now time.Time) (FactState, error) {
	if !s.Problem.valid() {
		return FactState{}, fmt.Errorf("%w: %dx%d", ErrInvalidProblem, s.Problem.A, s.Problem.B)
	}
	if responseSeconds < 0 || math.IsNaN(responseSeconds) || math.IsInf(responseSeconds, 0) {
		return FactState{}, fmt.Errorf("%w: %v", ErrInvalidLatency, responseSeconds)
	}

	next := s
	if correct {
		next.TimesCorrect++
		next.ConsecutiveCorrect++

		// A sub-day interval (including the initial 0) always promotes
		// to one day; the multiplier applies the ease factor as it was
		// before this answer's bonus.
		if next.IntervalDays < 1 {
			next.IntervalDays = 1
		} else {
			next.IntervalDays *= next.EaseFactor
		}

		next.EaseFactor = clampEase(next.EaseFactor + easeBonus(responseSeconds))
	} else {
		next.TimesWrong++
		next.ConsecutiveCorrect = 0
		next.IntervalDays = 0
		next.EaseFactor = clampEase(next.EaseFactor - easePenalty)
	}

	next.NextReview = now.Add(time.Duration(next.IntervalDays*86400) * time.Second)
	return next, nil
}

func easeBonus(responseSeconds float64) float64 {
	switch {
	case responseSeconds < fastLatencySeconds:
		return easeBonusFast
	case responseSeconds <= normalLatencySeconds:
		return easeBonusNormal
	default:
		return easeBonusSlow
	}
}

func clampEase(e float64) float64 {
	if e < MinEase {
		return MinEase
	}
	if e > MaxEase {
		return MaxEase
	}
	return e
}
