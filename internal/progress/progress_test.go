package progress

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/timestables/internal/engine"
)

var progressNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNew_SeedsEveryFact(t *testing.T) {
	p := New(progressNow)

	if len(p.Facts) != 144 {
		t.Fatalf("len(Facts) = %d, want 144", len(p.Facts))
	}
	if p.UnlockedCount != 1 {
		t.Errorf("UnlockedCount = %d, want 1", p.UnlockedCount)
	}

	s, ok := p.Facts["7x8"]
	if !ok {
		t.Fatal("missing state for 7x8")
	}
	if s.EaseFactor != engine.InitialEase {
		t.Errorf("EaseFactor = %v, want %v", s.EaseFactor, engine.InitialEase)
	}
	if !s.NextReview.Equal(progressNow) {
		t.Errorf("NextReview = %v, want %v", s.NextReview, progressNow)
	}
}

func TestInitializeMissing_LeavesExistingFactsAlone(t *testing.T) {
	p := New(progressNow)
	prob := engine.Problem{A: 1, B: 1}
	if _, err := p.RecordAnswer(prob, true, 2.0, progressNow); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	later := progressNow.Add(48 * time.Hour)
	delete(p.Facts, "3x4")
	added := p.InitializeMissing(later)

	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if s := p.Facts[prob.Key()]; s.TimesCorrect != 1 {
		t.Errorf("existing fact reinitialized: TimesCorrect = %d, want 1", s.TimesCorrect)
	}
	if s := p.Facts["3x4"]; !s.NextReview.Equal(later) {
		t.Errorf("backfilled NextReview = %v, want %v", s.NextReview, later)
	}
}

func TestRecordAnswer_StoresUpdatedState(t *testing.T) {
	p := New(progressNow)
	prob := engine.Problem{A: 1, B: 1}

	updated, err := p.RecordAnswer(prob, true, 2.0, progressNow)
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if updated.IntervalDays != 1 {
		t.Errorf("IntervalDays = %v, want 1", updated.IntervalDays)
	}
	if got := p.Facts[prob.Key()]; got != updated {
		t.Errorf("stored state = %+v, want %+v", got, updated)
	}
}

func TestRecordAnswer_UnknownFact(t *testing.T) {
	p := &Progress{Facts: map[string]engine.FactState{}, UnlockedCount: 1}

	_, err := p.RecordAnswer(engine.Problem{A: 3, B: 4}, true, 2.0, progressNow)
	if !errors.Is(err, engine.ErrUnknownFact) {
		t.Fatalf("err = %v, want ErrUnknownFact", err)
	}
}

func TestRecordAnswer_BadLatencyChangesNothing(t *testing.T) {
	p := New(progressNow)
	prob := engine.Problem{A: 1, B: 1}
	before := p.Facts[prob.Key()]

	_, err := p.RecordAnswer(prob, true, -1.0, progressNow)
	if !errors.Is(err, engine.ErrInvalidLatency) {
		t.Fatalf("err = %v, want ErrInvalidLatency", err)
	}
	if p.Facts[prob.Key()] != before {
		t.Error("fact state changed on rejected answer")
	}
	if p.UnlockedCount != 1 {
		t.Errorf("UnlockedCount = %d, want 1", p.UnlockedCount)
	}
}

func TestRecordAnswer_UnlocksSecondTableAtMastery(t *testing.T) {
	p := New(progressNow)
	prob := engine.Problem{A: 1, B: 1}

	for i := 0; i < 2; i++ {
		if _, err := p.RecordAnswer(prob, true, 2.0, progressNow); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
		if p.UnlockedCount != 1 {
			t.Fatalf("after %d answers UnlockedCount = %d, want 1", i+1, p.UnlockedCount)
		}
	}

	// Third consecutive correct masters the only unlocked fact.
	if _, err := p.RecordAnswer(prob, true, 2.0, progressNow); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if p.UnlockedCount != 2 {
		t.Errorf("UnlockedCount = %d, want 2", p.UnlockedCount)
	}
}

func TestRecordAnswer_UnlocksAtMostOneTablePerAnswer(t *testing.T) {
	p := New(progressNow)
	for key, s := range p.Facts {
		s.ConsecutiveCorrect = 3
		p.Facts[key] = s
	}

	if _, err := p.RecordAnswer(engine.Problem{A: 1, B: 1}, true, 2.0, progressNow); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if p.UnlockedCount != 2 {
		t.Errorf("UnlockedCount = %d, want 2", p.UnlockedCount)
	}
}

func TestNextProblem_RepeatsOnlyUnlockedFact(t *testing.T) {
	p := New(progressNow)
	last := engine.Problem{A: 1, B: 1}

	got := p.NextProblem(&last, progressNow)
	if got != last {
		t.Errorf("NextProblem = %v, want %v", got, last)
	}
}

func TestNextProblem_AvoidsLastWhenAlternativeExists(t *testing.T) {
	p := New(progressNow)
	p.UnlockedCount = 2
	last := engine.Problem{A: 1, B: 1}

	got := p.NextProblem(&last, progressNow)
	if got == last {
		t.Errorf("NextProblem repeated %v with alternatives unlocked", last)
	}
	if !got.IsUnlocked(p.UnlockedCount) {
		t.Errorf("NextProblem returned locked fact %v", got)
	}
}

func TestNextProblem_EmptyStateFallsBackToOneTimesOne(t *testing.T) {
	p := &Progress{Facts: map[string]engine.FactState{}, UnlockedCount: 1}

	got := p.NextProblem(nil, progressNow)
	want := engine.Problem{A: 1, B: 1}
	if got != want {
		t.Errorf("NextProblem = %v, want %v", got, want)
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	p := New(progressNow)
	prob := engine.Problem{A: 1, B: 1}
	for i := 0; i < 3; i++ {
		if _, err := p.RecordAnswer(prob, true, 2.0, progressNow); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}
	if p.UnlockedCount != 2 {
		t.Fatalf("UnlockedCount = %d before reset, want 2", p.UnlockedCount)
	}

	later := progressNow.Add(time.Hour)
	p.Reset(later)

	if p.UnlockedCount != 1 {
		t.Errorf("UnlockedCount = %d, want 1", p.UnlockedCount)
	}
	if len(p.Facts) != 144 {
		t.Errorf("len(Facts) = %d, want 144", len(p.Facts))
	}
	s := p.Facts[prob.Key()]
	if s.TimesCorrect != 0 || s.ConsecutiveCorrect != 0 {
		t.Errorf("fact not reset: %+v", s)
	}
	if !s.NextReview.Equal(later) {
		t.Errorf("NextReview = %v, want %v", s.NextReview, later)
	}
}

func TestUnmarshalJSON_DefaultsMissingFields(t *testing.T) {
	var p Progress
	if err := json.Unmarshal([]byte(`{}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.UnlockedCount != 1 {
		t.Errorf("UnlockedCount = %d, want 1", p.UnlockedCount)
	}
	if p.Facts == nil {
		t.Error("Facts = nil, want empty map")
	}
}

func TestJSONRoundTrip_PreservesState(t *testing.T) {
	p := New(progressNow)
	if _, err := p.RecordAnswer(engine.Problem{A: 1, B: 1}, true, 2.0, progressNow); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	p.UnlockedCount = 3

	blob, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Progress
	if err := json.Unmarshal(blob, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if back.UnlockedCount != 3 {
		t.Errorf("UnlockedCount = %d, want 3", back.UnlockedCount)
	}
	if len(back.Facts) != 144 {
		t.Errorf("len(Facts) = %d, want 144", len(back.Facts))
	}
	if got, want := back.Facts["1x1"], p.Facts["1x1"]; got.TimesCorrect != want.TimesCorrect || got.EaseFactor != want.EaseFactor {
		t.Errorf("round-tripped 1x1 = %+v, want %+v", got, want)
	}
}
