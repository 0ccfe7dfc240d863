package engine

import "fmt"

// TableOrder is the fixed order in which multiplication tables unlock.
// It is a permutation of 1..12 chosen for pedagogical progression, not
// numeric order: the easy tables (1, 10, 5, 11) come first.
var TableOrder = []int{1, 10, 5, 11, 2, 3, 9, 4, 6, 7, 8, 12}

// MinFactor and MaxFactor bound both factors of every problem.
const (
	MinFactor = 1
	MaxFactor = 12
)

// Problem is an ordered multiplication fact. Order matters: (3,4) and
// (4,3) are distinct problems with independent state.
type Problem struct {
	A int `json:"a"`
	B int `json:"b"`
}

// NewProblem validates both factors and returns the problem.
func NewProblem(a, b int) (Problem, error) {
	p := Problem{A: a, B: b}
	if !p.valid() {
		return Problem{}, fmt.Errorf("%w: %dx%d", ErrInvalidProblem, a, b)
	}
	return p, nil
}

func (p Problem) valid() bool {
	return p.A >= MinFactor && p.A <= MaxFactor &&
		p.B >= MinFactor && p.B <= MaxFactor
}

// Answer returns the product.
func (p Problem) Answer() int {
	return p.A * p.B
}

// Key returns the canonical map key for the fact, e.g. "3x4".
func (p Problem) Key() string {
	return fmt.Sprintf("%dx%d", p.A, p.B)
}

func (p Problem) String() string {
	return fmt.Sprintf("%d × %d", p.A, p.B)
}

// AllProblems enumerates the full problem universe in deterministic
// order: factor a outer 1..12, factor b inner 1..12, 144 problems total.
// Used for seeding learner state.
func AllProblems() []Problem {
	problems := make([]Problem, 0, MaxFactor*MaxFactor)
	for a := MinFactor; a <= MaxFactor; a++ {
		for b := MinFactor; b <= MaxFactor; b++ {
			problems = append(problems, Problem{A: a, B: b})
		}
	}
	return problems
}

// UnlockedTables returns the first count entries of TableOrder.
func UnlockedTables(count int) []int {
	if count < 0 {
		count = 0
	}
	if count > len(TableOrder) {
		count = len(TableOrder)
	}
	tables := make([]int, count)
	copy(tables, TableOrder[:count])
	return tables
}

// NextTableToUnlock returns the table that opens after the current
// unlocked count, or false if every table is already open.
func NextTableToUnlock(unlockedCount int) (int, bool) {
	if unlockedCount < 0 || unlockedCount >= len(TableOrder) {
		return 0, false
	}
	return TableOrder[unlockedCount], true
}

// IsUnlocked reports whether both factors of p belong to the first
// unlockedCount entries of TableOrder. Both factors must be open: with
// count 2 the unlocked set is {1, 10}, so (10,1) is reachable while
// (1,2) stays locked.
func (p Problem) IsUnlocked(unlockedCount int) bool {
	return tableUnlocked(p.A, unlockedCount) && tableUnlocked(p.B, unlockedCount)
}

func tableUnlocked(factor, unlockedCount int) bool {
	if unlockedCount > len(TableOrder) {
		unlockedCount = len(TableOrder)
	}
	for i := 0; i < unlockedCount; i++ {
		if TableOrder[i] == factor {
			return true
		}
	}
	return false
}
