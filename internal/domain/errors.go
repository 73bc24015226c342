package domain

import "errors"

// Domain errors
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFinished      = errors.New("game already finished")
	ErrIncompleteGame    = errors.New("not enough rolls to resolve every frame")
	ErrEmptyBowler       = errors.New("bowler name cannot be empty")
	ErrInvalidTransition = errors.New("invalid status transition")
)
