package storage

import (
	"context"

	"card-memory-server/game"
)

// ResultStore abstracts persistence for completed games.
// Implementations can be swapped for testing (mocks) or different backends.
type ResultStore interface {
	// Read
	ListByUserID(ctx context.Context, userID string) ([]GameRecord, error)
	ListLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Write
	InsertResult(ctx context.Context, res game.Result) error

	// Lifecycle
	Close()
}

// Ensure *Store implements ResultStore at compile time.
var _ ResultStore = (*Store)(nil)
