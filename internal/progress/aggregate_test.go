package progress

import (
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/timestables/internal/engine"
)

// aggregateFixture opens tables 1 and 10, masters 1x1, leaves 1x10 due
// with a mixed record, pushes 10x10 out of the due window, and parks
// some history on the still-locked 12x12.
func aggregateFixture(t *testing.T) *Progress {
	t.Helper()
	p := New(progressNow)
	p.UnlockedCount = 2

	set := func(key string, mutate func(*engine.FactState)) {
		s, ok := p.Facts[key]
		if !ok {
			t.Fatalf("no state for %s", key)
		}
		mutate(&s)
		p.Facts[key] = s
	}

	set("1x1", func(s *engine.FactState) {
		s.ConsecutiveCorrect = 3
		s.TimesCorrect = 3
		s.NextReview = progressNow.Add(24 * time.Hour)
	})
	set("1x10", func(s *engine.FactState) {
		s.TimesCorrect = 1
		s.TimesWrong = 1
	})
	set("10x10", func(s *engine.FactState) {
		s.NextReview = progressNow.Add(24 * time.Hour)
	})
	set("12x12", func(s *engine.FactState) {
		s.TimesCorrect = 5
	})
	return p
}

func TestSummarize(t *testing.T) {
	p := aggregateFixture(t)

	got := p.Summarize(progressNow)
	want := Summary{
		MasteredCount:  1,
		UnlockedCount:  4,
		TotalAnswered:  10,
		DueCount:       2,
		UnlockedTables: []int{1, 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestAggregateCounters(t *testing.T) {
	p := aggregateFixture(t)

	if got := p.UnlockedProblems(); got != 4 {
		t.Errorf("UnlockedProblems = %d, want 4", got)
	}
	if got := p.MasteredCount(); got != 1 {
		t.Errorf("MasteredCount = %d, want 1", got)
	}
	if got := p.DueCount(progressNow); got != 2 {
		t.Errorf("DueCount = %d, want 2", got)
	}
	if got := p.TotalCorrect(); got != 9 {
		t.Errorf("TotalCorrect = %d, want 9", got)
	}
	if got := p.TotalWrong(); got != 1 {
		t.Errorf("TotalWrong = %d, want 1", got)
	}
	if got := p.TotalAnswered(); got != 10 {
		t.Errorf("TotalAnswered = %d, want 10", got)
	}
}

func TestNextTableToUnlock_FollowsUnlockOrder(t *testing.T) {
	p := New(progressNow)
	p.UnlockedCount = 2

	next, ok := p.NextTableToUnlock()
	if !ok || next != 5 {
		t.Errorf("NextTableToUnlock = %d, %v, want 5, true", next, ok)
	}

	p.UnlockedCount = 12
	if _, ok := p.NextTableToUnlock(); ok {
		t.Error("NextTableToUnlock ok = true with every table open")
	}
}
