package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"card-memory-server/config"
	"card-memory-server/storage"
)

const (
	bearerPrefix            = "Bearer "
	defaultLeaderboardLimit = 20
)

// TokenValidator resolves a bearer token to a user. *auth.Validator implements it.
type TokenValidator interface {
	Validate(token string) (userID, name string, err error)
}

// GameCounter reports how many games are in progress. *sessions.Manager implements it.
type GameCounter interface {
	Active() int
}

// Handler holds dependencies for API handlers. Store, Board and Auth may be nil.
type Handler struct {
	Config *config.Config
	Store  storage.ResultStore
	Board  *storage.Leaderboard
	Auth   TokenValidator
	Games  GameCounter
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(cfg *config.Config, store storage.ResultStore, board *storage.Leaderboard, auth TokenValidator, games GameCounter) *Handler {
	return &Handler{
		Config: cfg,
		Store:  store,
		Board:  board,
		Auth:   auth,
		Games:  games,
	}
}

// CORS sets CORS headers on every response and answers preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractUserID validates the Authorization header and returns the user ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	if h.Auth == nil {
		return ""
	}
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return ""
	}
	userID, _, err := h.Auth.Validate(token)
	if err != nil {
		slog.Debug("bearer token rejected", "tag", "api", "err", err)
		return ""
	}
	return userID
}

// Health reports liveness and the number of games in progress.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	active := 0
	if h.Games != nil {
		active = h.Games.Active()
	}
	writeJSON(w, map[string]any{"ok": true, "active_games": active})
}

// History returns the completed games of the authenticated user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	list := []storage.GameRecord{}
	if h.Store != nil {
		var err error
		list, err = h.Store.ListByUserID(r.Context(), userID)
		if err != nil {
			slog.Error("ListByUserID", "tag", "api", "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, list)
}

// LeaderboardResponse is the JSON structure for /api/leaderboard.
type LeaderboardResponse struct {
	Entries         []storage.LeaderboardEntry `json:"entries"`
	CurrentUserRank *int64                     `json:"current_user_rank,omitempty"`
}

// Leaderboard returns the players with the fewest tries. Redis is used when configured,
// Postgres otherwise.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries := []storage.LeaderboardEntry{}
	var err error
	switch {
	case h.Board != nil:
		entries, err = h.Board.Top(r.Context(), limit)
	case h.Store != nil:
		entries, err = h.Store.ListLeaderboard(r.Context(), limit)
	}
	if err != nil {
		slog.Error("leaderboard", "tag", "api", "err", err)
		http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	resp := LeaderboardResponse{Entries: entries}
	if userID := h.extractUserID(r); userID != "" {
		for i := range entries {
			if entries[i].UserID == userID {
				entries[i].IsCurrentUser = true
			}
		}
		if h.Board != nil {
			rank, err := h.Board.Rank(r.Context(), userID)
			if err != nil {
				slog.Warn("leaderboard rank", "tag", "api", "err", err)
			} else if rank > 0 {
				resp.CurrentUserRank = &rank
			}
		}
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "tag", "api", "err", err)
	}
}
