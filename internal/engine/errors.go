package engine

import "errors"

// Sentinel errors for the engine package.
// Use errors.Is to check: errors.Is(err, engine.ErrInvalidLatency)
var (
	ErrInvalidProblem = errors.New("engine: factor out of range")
	ErrInvalidLatency = errors.New("engine: response latency negative or not finite")
	ErrUnknownFact    = errors.New("engine: no state for fact")
)
