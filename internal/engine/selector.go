package engine

import "time"

// SelectNextProblem picks the fact to present next.
//
// Unlocked facts that are due and differ from last are considered
// first; when nothing is strictly due the whole unlocked set minus last
// becomes the extra-practice pool. Within the candidate set the lowest
// ease factor wins — hardest fact first — with exact ties broken by
// ascending (a, b) so the choice is deterministic. ok is false when no
// candidate exists, e.g. when the only unlocked fact is last.
func SelectNextProblem(states []FactState, unlockedCount int, last *Problem, now time.Time) (Problem, bool) {
	if p, ok := pickLowestEase(states, unlockedCount, last, &now); ok {
		return p, true
	}
	return pickLowestEase(states, unlockedCount, last, nil)
}

// pickLowestEase scans for the lowest-ease candidate. A non-nil dueAt
// restricts candidates to facts due at that instant.
func pickLowestEase(states []FactState, unlockedCount int, last *Problem, dueAt *time.Time) (Problem, bool) {
	var (
		best  FactState
		found bool
	)
	for _, s := range states {
		if !s.Problem.IsUnlocked(unlockedCount) {
			continue
		}
		if dueAt != nil && !s.IsDue(*dueAt) {
			continue
		}
		if last != nil && s.Problem == *last {
			continue
		}
		if !found || candidateLess(s, best) {
			best = s
			found = true
		}
	}
	return best.Problem, found
}

// candidateLess orders candidates by ease factor, then by (a, b).
func candidateLess(a, b FactState) bool {
	if a.EaseFactor != b.EaseFactor {
		return a.EaseFactor < b.EaseFactor
	}
	if a.Problem.A != b.Problem.A {
		return a.Problem.A < b.Problem.A
	}
	return a.Problem.B < b.Problem.B
}
