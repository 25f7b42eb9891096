package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"card-memory-server/game"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS game_results (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL DEFAULT '',
	player_name TEXT NOT NULL,
	score       INT NOT NULL,
	tried_times INT NOT NULL,
	duration_ms BIGINT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_game_results_user ON game_results(user_id);
CREATE INDEX IF NOT EXISTS idx_game_results_tried ON game_results(tried_times);
`

// Store persists completed games in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the game_results table exists.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InsertResult records a completed game. Anonymous games are stored with an empty user_id.
func (s *Store) InsertResult(ctx context.Context, res game.Result) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO game_results (id, user_id, player_name, score, tried_times, duration_ms, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.GameID, res.UserID, res.PlayerName, res.Score, res.TriedTimes,
		res.Duration().Milliseconds(), res.StartedAt, res.FinishedAt)
	return err
}

// GameRecord is a single row returned for the history API.
type GameRecord struct {
	ID         string `json:"id"`
	PlayedAt   string `json:"played_at"` // ISO8601
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	TriedTimes int    `json:"tried_times"`
	DurationMS int64  `json:"duration_ms"`
}

// ListByUserID returns the user's completed games, newest first.
func (s *Store) ListByUserID(ctx context.Context, userID string) ([]GameRecord, error) {
	if s == nil || s.pool == nil || userID == "" {
		return []GameRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, finished_at, player_name, score, tried_times, duration_ms
		FROM game_results
		WHERE user_id = $1
		ORDER BY finished_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameRecord{}
	for rows.Next() {
		var r GameRecord
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &playedAt, &r.PlayerName, &r.Score, &r.TriedTimes, &r.DurationMS); err != nil {
			return nil, err
		}
		r.PlayedAt = playedAt.UTC().Format(time.RFC3339)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LeaderboardEntry is a single row for the leaderboard API.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	DisplayName   string `json:"display_name"`
	BestTries     int    `json:"best_tries"`
	Games         int    `json:"games"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

// ListLeaderboard ranks signed-in players by their fewest tries in a completed game.
// It backs the leaderboard API when Redis is not configured.
func (s *Store) ListLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if s == nil || s.pool == nil {
		return []LeaderboardEntry{}, nil
	}
	limit = clampLimit(limit)
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, (array_agg(player_name ORDER BY finished_at DESC))[1], MIN(tried_times), COUNT(*)
		FROM game_results
		WHERE user_id <> ''
		GROUP BY user_id
		ORDER BY MIN(tried_times) ASC, user_id ASC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.BestTries, &e.Games); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
