package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"card-memory-server/game"
)

const (
	// Redis keys
	bestTriesKey = "memory:leaderboard:tries"
	namesKey     = "memory:leaderboard:names"
	gamesKey     = "memory:leaderboard:games"
)

// Leaderboard ranks signed-in players by the fewest tries they needed to clear the table.
type Leaderboard struct {
	redis *redis.Client
}

// NewLeaderboard wraps a Redis client. A nil client yields a nil Leaderboard.
func NewLeaderboard(client *redis.Client) *Leaderboard {
	if client == nil {
		return nil
	}
	return &Leaderboard{redis: client}
}

// Submit records a completed game. Only the player's best (lowest) tried count is kept.
// Anonymous results are ignored.
func (lb *Leaderboard) Submit(ctx context.Context, res game.Result) error {
	if lb == nil || res.UserID == "" {
		return nil
	}
	_, err := lb.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddLT(ctx, bestTriesKey, redis.Z{Score: float64(res.TriedTimes), Member: res.UserID})
		pipe.HSet(ctx, namesKey, res.UserID, res.PlayerName)
		pipe.HIncrBy(ctx, gamesKey, res.UserID, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("leaderboard submit: %w", err)
	}
	return nil
}

// Top returns the best players, fewest tries first.
func (lb *Leaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if lb == nil {
		return []LeaderboardEntry{}, nil
	}
	limit = clampLimit(limit)
	results, err := lb.redis.ZRangeWithScores(ctx, bestTriesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(results))
	if len(results) == 0 {
		return entries, nil
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i], _ = r.Member.(string)
	}
	names, err := lb.redis.HMGet(ctx, namesKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	games, err := lb.redis.HMGet(ctx, gamesKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	for i, r := range results {
		e := LeaderboardEntry{
			Rank:      i + 1,
			UserID:    ids[i],
			BestTries: int(r.Score),
		}
		if s, ok := names[i].(string); ok {
			e.DisplayName = s
		}
		if s, ok := games[i].(string); ok {
			e.Games, _ = strconv.Atoi(s)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Rank returns the player's 1-based position, or -1 when they have no completed game.
func (lb *Leaderboard) Rank(ctx context.Context, userID string) (int64, error) {
	if lb == nil {
		return -1, nil
	}
	rank, err := lb.redis.ZRank(ctx, bestTriesKey, userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}
