// Package repository holds each game's ordered timeline and metadata.
package repository

import (
	"context"

	"github.com/okian/courtside/internal/domain/model"
)

// Store provides read/write access to game feeds.
type Store interface {
	// PutGame registers or updates game metadata. Existing events are kept.
	PutGame(ctx context.Context, g model.Game) error

	// Append stores an event in index order. An event with an index that is
	// already stored replaces it. Returns ErrFeedFull when the per-game cap
	// is reached.
	Append(ctx context.Context, gameID string, ev model.TimelineEvent) error

	// Feed returns the game metadata and a copy of its ordered events.
	// Returns ErrNotFound if the game is unknown.
	Feed(ctx context.Context, gameID string) (model.Game, []model.TimelineEvent, error)

	// Count returns the number of games tracked.
	Count(ctx context.Context) int

	// Events returns the total number of stored events across games.
	Events(ctx context.Context) int
}
