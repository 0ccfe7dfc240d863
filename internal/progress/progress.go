// Package progress tracks one learner's complete scheduling state: a
// FactState per multiplication fact plus the unlocked-table count. It
// owns the read-modify-write cycle around the engine and the unlock
// bump; storage and transport stay outside.
package progress

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/timestables/internal/engine"
)

// Progress is a learner's full state. It serializes to a single JSON
// blob keyed by fact ("3x4"), which is how the store persists it.
type Progress struct {
	Facts         map[string]engine.FactState `json:"facts"`
	UnlockedCount int                         `json:"unlocked_count"`
}

// New returns a fresh learner: all 144 facts at defaults, one table
// unlocked.
func New(now time.Time) *Progress {
	p := &Progress{
		Facts:         make(map[string]engine.FactState, engine.MaxFactor*engine.MaxFactor),
		UnlockedCount: 1,
	}
	p.InitializeMissing(now)
	return p
}

// UnmarshalJSON decodes a stored blob, defaulting fields older blobs
// may lack: at least one unlocked table and a non-nil fact map.
func (p *Progress) UnmarshalJSON(data []byte) error {
	type plain Progress
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.UnlockedCount < 1 {
		decoded.UnlockedCount = 1
	}
	if decoded.Facts == nil {
		decoded.Facts = make(map[string]engine.FactState)
	}
	*p = Progress(decoded)
	return nil
}

// InitializeMissing backfills default state for every fact that has
// none, leaving existing facts untouched. Returns the number added.
func (p *Progress) InitializeMissing(now time.Time) int {
	if p.Facts == nil {
		p.Facts = make(map[string]engine.FactState, engine.MaxFactor*engine.MaxFactor)
	}
	if p.UnlockedCount < 1 {
		p.UnlockedCount = 1
	}
	added := 0
	for _, prob := range engine.AllProblems() {
		if _, ok := p.Facts[prob.Key()]; !ok {
			p.Facts[prob.Key()] = engine.NewFactState(prob, now)
			added++
		}
	}
	return added
}

// RecordAnswer applies one answer to the named fact, stores the new
// state, and re-evaluates the unlock policy. The unlocked count moves
// by at most one per answer. Returns the updated fact state.
func (p *Progress) RecordAnswer(prob engine.Problem, correct bool, responseSeconds float64, now time.Time) (engine.FactState, error) {
	s, ok := p.Facts[prob.Key()]
	if !ok {
		return engine.FactState{}, fmt.Errorf("%w: %s", engine.ErrUnknownFact, prob.Key())
	}

	updated, err := engine.ApplyAnswer(s, correct, responseSeconds, now)
	if err != nil {
		return engine.FactState{}, err
	}
	p.Facts[prob.Key()] = updated

	if engine.ShouldUnlockNextTable(p.states(), p.UnlockedCount) {
		p.UnlockedCount++
	}
	return updated, nil
}

// NextProblem returns the fact to present next, preferring due facts
// and avoiding an immediate repeat of last whenever an alternative
// exists. A learner whose only unlocked fact is last still gets that
// fact back rather than nothing.
func (p *Progress) NextProblem(last *engine.Problem, now time.Time) engine.Problem {
	states := p.states()
	if prob, ok := engine.SelectNextProblem(states, p.UnlockedCount, last, now); ok {
		return prob
	}
	if prob, ok := engine.SelectNextProblem(states, p.UnlockedCount, nil, now); ok {
		return prob
	}
	return engine.Problem{A: 1, B: 1}
}

// Fact returns the state for a single fact.
func (p *Progress) Fact(prob engine.Problem) (engine.FactState, bool) {
	s, ok := p.Facts[prob.Key()]
	return s, ok
}

// Reset discards everything: all facts back to defaults, one table
// unlocked.
func (p *Progress) Reset(now time.Time) {
	p.Facts = make(map[string]engine.FactState, engine.MaxFactor*engine.MaxFactor)
	p.UnlockedCount = 1
	p.InitializeMissing(now)
}

func (p *Progress) states() []engine.FactState {
	states := make([]engine.FactState, 0, len(p.Facts))
	for _, s := range p.Facts {
		states = append(states, s)
	}
	return states
}
