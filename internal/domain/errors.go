package domain

import "errors"

var (
	// ErrPackNotFound indicates the requested pack name does not resolve to a loadable bank.
	ErrPackNotFound = errors.New("trivia pack not found")
	// ErrSessionActive is returned when the channel already has a live round.
	ErrSessionActive = errors.New("a trivia session is already active in this channel")
	// ErrSessionNotFound is returned when acting on a channel with no live round.
	ErrSessionNotFound = errors.New("no trivia session in this channel")
	// ErrUnknownDifficulty indicates a difficulty name outside the known tiers.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrNoQuestions indicates the difficulty filter left nothing to ask.
	ErrNoQuestions = errors.New("pack has no questions for the requested difficulty")
)
