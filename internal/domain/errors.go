package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game id is not registered.
	ErrGameNotFound = errors.New("game not found")
	// ErrUnknownTier is returned for tier names outside the closed set.
	ErrUnknownTier = errors.New("unknown tier")
	// ErrEmptyPool indicates a tier has no playable questions.
	ErrEmptyPool = errors.New("tier has no questions")
	// ErrInvalidQuestion marks a word bank entry that failed validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrNoIdentity is returned when an operation needs a player id.
	ErrNoIdentity = errors.New("player identity required")
)
