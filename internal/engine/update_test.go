package engine

import (
	"errors"
	"math"
	"testing"
	"time"
)

var updateNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func baseState(ease, interval float64) FactState {
	return FactState{
		Problem:      Problem{A: 3, B: 4},
		EaseFactor:   ease,
		IntervalDays: interval,
		NextReview:   updateNow,
	}
}

func TestApplyAnswer_FirstCorrectPromotesToOneDay(t *testing.T) {
	s, err := ApplyAnswer(baseState(2.5, 0), true, 2.0, updateNow)
	if err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	if s.IntervalDays != 1 {
		t.Errorf("IntervalDays = %v, want 1", s.IntervalDays)
	}
	if s.EaseFactor != 2.65 {
		t.Errorf("EaseFactor = %v, want 2.65", s.EaseFactor)
	}
	if s.TimesCorrect != 1 || s.ConsecutiveCorrect != 1 {
		t.Errorf("counters = (%d, %d), want (1, 1)", s.TimesCorrect, s.ConsecutiveCorrect)
	}
}

func TestApplyAnswer_IntervalMultipliesByPreBonusEase(t *testing.T) {
	s, err := ApplyAnswer(baseState(2.5, 5), true, 10.0, updateNow)
	if err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	// 5 * 2.5 using the ease factor before the slow bonus lands.
	if s.IntervalDays != 12.5 {
		t.Errorf("IntervalDays = %v, want 12.5", s.IntervalDays)
	}
	if s.EaseFactor != 2.55 {
		t.Errorf("EaseFactor = %v, want 2.55", s.EaseFactor)
	}
}

func TestApplyAnswer_WrongFloorsEaseAndResetsInterval(t *testing.T) {
	in := baseState(1.4, 6)
	in.ConsecutiveCorrect = 4

	s, err := ApplyAnswer(in, false, 5.0, updateNow)
	if err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	if s.EaseFactor != 1.3 {
		t.Errorf("EaseFactor = %v, want 1.3 (floor)", s.EaseFactor)
	}
	if s.IntervalDays != 0 {
		t.Errorf("IntervalDays = %v, want 0", s.IntervalDays)
	}
	if s.ConsecutiveCorrect != 0 {
		t.Errorf("ConsecutiveCorrect = %d, want 0", s.ConsecutiveCorrect)
	}
	if s.TimesWrong != 1 {
		t.Errorf("TimesWrong = %d, want 1", s.TimesWrong)
	}
	if !s.NextReview.Equal(updateNow) {
		t.Errorf("NextReview = %v, want %v (interval 0 is due immediately)", s.NextReview, updateNow)
	}
}

func TestApplyAnswer_LatencyBonusBands(t *testing.T) {
	tests := []struct {
		name     string
		latency  float64
		wantEase float64
	}{
		{"instant", 0, 2.65},
		{"just under fast cutoff", 2.99, 2.65},
		{"fast cutoff is normal", 3.0, 2.6},
		{"normal upper bound inclusive", 8.0, 2.6},
		{"just over normal", 8.01, 2.55},
		{"very slow", 120, 2.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ApplyAnswer(baseState(2.5, 0), true, tt.latency, updateNow)
			if err != nil {
				t.Fatalf("ApplyAnswer: %v", err)
			}
			if s.EaseFactor != tt.wantEase {
				t.Errorf("EaseFactor = %v, want %v", s.EaseFactor, tt.wantEase)
			}
		})
	}
}

func TestApplyAnswer_EaseCappedAtMax(t *testing.T) {
	s, err := ApplyAnswer(baseState(2.95, 2), true, 1.0, updateNow)
	if err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	if s.EaseFactor != MaxEase {
		t.Errorf("EaseFactor = %v, want %v (cap)", s.EaseFactor, MaxEase)
	}
}

func TestApplyAnswer_NextReviewFromNewInterval(t *testing.T) {
	s, err := ApplyAnswer(baseState(2.5, 0), true, 2.0, updateNow)
	if err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	want := updateNow.Add(24 * time.Hour)
	if !s.NextReview.Equal(want) {
		t.Errorf("NextReview = %v, want %v", s.NextReview, want)
	}
	if s.IsDue(updateNow) {
		t.Error("fact with a one-day interval should not be due right away")
	}
}

func TestApplyAnswer_RejectsBadLatency(t *testing.T) {
	tests := []struct {
		name    string
		latency float64
	}{
		{"negative", -0.1},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyAnswer(baseState(2.5, 0), true, tt.latency, updateNow)
			if !errors.Is(err, ErrInvalidLatency) {
				t.Errorf("error = %v, want ErrInvalidLatency", err)
			}
		})
	}
}

func TestApplyAnswer_RejectsInvalidProblem(t *testing.T) {
	s := baseState(2.5, 0)
	s.Problem = Problem{A: 0, B: 4}

	_, err := ApplyAnswer(s, true, 2.0, updateNow)
	if !errors.Is(err, ErrInvalidProblem) {
		t.Errorf("error = %v, want ErrInvalidProblem", err)
	}
}

func TestApplyAnswer_DoesNotMutateInput(t *testing.T) {
	in := baseState(2.5, 5)
	_, err := ApplyAnswer(in, true, 2.0, updateNow)
	if err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	if in.EaseFactor != 2.5 || in.IntervalDays != 5 || in.TimesCorrect != 0 {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestApplyAnswer_EaseStaysInBounds(t *testing.T) {
	// A long mixed run must never push ease outside [MinEase, MaxEase]
	// or the interval below zero.
	answers := []struct {
		correct bool
		latency float64
	}{
		{true, 1}, {true, 1}, {true, 1}, {true, 1}, {true, 1},
		{false, 5}, {false, 5}, {false, 5}, {false, 5}, {false, 5},
		{false, 5}, {false, 5}, {false, 5}, {false, 5}, {false, 5},
		{true, 12}, {false, 5}, {true, 2}, {true, 6}, {false, 9},
		{true, 1}, {true, 1}, {true, 1}, {true, 1}, {true, 1},
		{true, 1}, {true, 1},
	}

	s := NewFactState(Problem{A: 9, B: 9}, updateNow)
	now := updateNow
	for i, a := range answers {
		var err error
		s, err = ApplyAnswer(s, a.correct, a.latency, now)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if s.EaseFactor < MinEase || s.EaseFactor > MaxEase {
			t.Fatalf("step %d: EaseFactor = %v, out of [%v, %v]", i, s.EaseFactor, MinEase, MaxEase)
		}
		if s.IntervalDays < 0 {
			t.Fatalf("step %d: IntervalDays = %v, negative", i, s.IntervalDays)
		}
		now = now.Add(time.Hour)
	}
}
