package repository

import "errors"

// Sentinel kinds for feed store errors.
var (
	ErrNotFound    = errors.New("game not found")
	ErrFeedFull    = errors.New("game feed is full")
	ErrInvalidGame = errors.New("invalid game id")
)
