package progress

import (
	"time"

	"github.com/abhisek/timestables/internal/engine"
)

// Summary is the aggregate view of a learner's progress, served after
// each answer and on state reads. UnlockedCount here counts unlocked
// facts, not tables; the table list carries the table view.
type Summary struct {
	MasteredCount  int   `json:"mastered_count"`
	UnlockedCount  int   `json:"unlocked_count"`
	TotalAnswered  int   `json:"total_answered"`
	DueCount       int   `json:"due_count"`
	UnlockedTables []int `json:"unlocked_tables"`
}

// Summarize computes the aggregate counters in one pass.
func (p *Progress) Summarize(now time.Time) Summary {
	sum := Summary{UnlockedTables: p.UnlockedTables()}
	for _, s := range p.Facts {
		sum.TotalAnswered += s.TimesCorrect + s.TimesWrong
		if !s.Problem.IsUnlocked(p.UnlockedCount) {
			continue
		}
		sum.UnlockedCount++
		if s.IsMastered() {
			sum.MasteredCount++
		}
		if s.IsDue(now) {
			sum.DueCount++
		}
	}
	return sum
}

// MasteredCount counts unlocked facts currently at mastery.
func (p *Progress) MasteredCount() int {
	n := 0
	for _, s := range p.Facts {
		if s.Problem.IsUnlocked(p.UnlockedCount) && s.IsMastered() {
			n++
		}
	}
	return n
}

// UnlockedProblems counts facts whose factors are both unlocked.
func (p *Progress) UnlockedProblems() int {
	n := 0
	for _, s := range p.Facts {
		if s.Problem.IsUnlocked(p.UnlockedCount) {
			n++
		}
	}
	return n
}

// DueCount counts unlocked facts due for review at now.
func (p *Progress) DueCount(now time.Time) int {
	n := 0
	for _, s := range p.Facts {
		if s.Problem.IsUnlocked(p.UnlockedCount) && s.IsDue(now) {
			n++
		}
	}
	return n
}

// TotalCorrect sums correct answers across every fact, locked or not.
func (p *Progress) TotalCorrect() int {
	n := 0
	for _, s := range p.Facts {
		n += s.TimesCorrect
	}
	return n
}

// TotalWrong sums wrong answers across every fact, locked or not.
func (p *Progress) TotalWrong() int {
	n := 0
	for _, s := range p.Facts {
		n += s.TimesWrong
	}
	return n
}

// TotalAnswered sums all recorded answers.
func (p *Progress) TotalAnswered() int {
	return p.TotalCorrect() + p.TotalWrong()
}

// UnlockedTables lists the unlocked factor values in unlock order.
func (p *Progress) UnlockedTables() []int {
	return engine.UnlockedTables(p.UnlockedCount)
}

// NextTableToUnlock reports the factor value the learner unlocks next,
// or false once every table is open.
func (p *Progress) NextTableToUnlock() (int, bool) {
	return engine.NextTableToUnlock(p.UnlockedCount)
}
