package engine

// UnlockThreshold is the mastered fraction of the unlocked facts
// required before the next table opens.
const UnlockThreshold = 0.75

// ShouldUnlockNextTable reports whether the learner has mastered enough
// of the currently unlocked facts to open the next table in TableOrder.
//
// Callers act on true by incrementing their unlocked count by exactly
// one. A single evaluation never jumps multiple tables, however high
// the mastered fraction.
func ShouldUnlockNextTable(states []FactState, unlockedCount int) bool {
	if unlockedCount >= len(TableOrder) {
		return false
	}

	var unlocked, mastered int
	for _, s := range states {
		if !s.Problem.IsUnlocked(unlockedCount) {
			continue
		}
		unlocked++
		if s.IsMastered() {
			mastered++
		}
	}
	if unlocked == 0 {
		return false
	}
	return float64(mastered)/float64(unlocked) >= UnlockThreshold
}
