package store

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrUsernameTaken is returned by UserRepo.Create when the username
	// is already registered.
	ErrUsernameTaken = errors.New("store: username taken")
)
