package storage

import (
	"context"
	"log/slog"
	"time"

	"card-memory-server/game"
)

const recordTimeout = 5 * time.Second

// Recorder fans a completed game out to the configured backends.
// Either backend may be nil.
type Recorder struct {
	store ResultStore
	board *Leaderboard
}

// NewRecorder creates a Recorder.
func NewRecorder(store ResultStore, board *Leaderboard) *Recorder {
	return &Recorder{store: store, board: board}
}

// Record persists res. Failures are logged; the game is already over for the player.
func (r *Recorder) Record(res game.Result) {
	if r == nil {
		return
	}
	if r.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.store.InsertResult(ctx, res); err != nil {
			slog.Error("insert result", "tag", "storage", "game", res.GameID, "err", err)
		}
		cancel()
	}
	if r.board != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.board.Submit(ctx, res); err != nil {
			slog.Error("leaderboard submit", "tag", "storage", "game", res.GameID, "err", err)
		}
		cancel()
	}
}
