// Package engine implements the multiplication-fact scheduling core:
// the per-fact state update rule, the mastery predicate, the table
// unlock policy, and next-problem selection.
//
// Every operation is a pure function over explicitly passed state. The
// engine performs no I/O, holds no shared mutable state, and never
// blocks; persistence and per-learner serialization belong to the
// caller. Concurrent answers for the same learner must be serialized at
// the storage boundary, since a fact update is read-modify-write.
//
// Basic usage:
//
//	state := engine.NewFactState(engine.Problem{A: 3, B: 4}, time.Now())
//	state, err := engine.ApplyAnswer(state, true, 2.1, time.Now())
package engine
