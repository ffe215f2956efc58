package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrCredentialsRequired = errors.New("username and password required")
	ErrArenaNameRequired   = errors.New("arena name required")
	ErrInvalidMove         = errors.New("invalid move")

	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUserIDsExhausted = errors.New("user id space exhausted")

	// Arena errors
	ErrArenaNotFound  = errors.New("arena not found")
	ErrArenaFinished  = errors.New("arena already finished")
	ErrAlreadyInArena = errors.New("already in another arena")
	ErrArenaFull      = errors.New("no player slot available")
	ErrNotAPlayer     = errors.New("not a player in this arena")
)
