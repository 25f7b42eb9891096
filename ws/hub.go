package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"card-memory-server/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The game page is served by this process; other origins are allowed for local development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SessionManager is what the Hub needs from the sessions package.
type SessionManager interface {
	Restart(c *Client) error
	End(c *Client)
}

// TokenValidator resolves an auth token to a user ID and display name.
type TokenValidator interface {
	Validate(token string) (userID, name string, err error)
}

// Hub maintains the set of active clients.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Sessions   SessionManager
	Auth       TokenValidator // nil when auth is not configured
	Config     *config.Config

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, sessions SessionManager, auth TokenValidator) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Sessions:   sessions,
		Auth:       auth,
		Config:     cfg,
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "hub")
			for client := range h.Clients {
				delete(h.Clients, client)
				close(client.Send)
			}
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "hub", "total", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				slog.Info("client disconnected", "tag", "hub", "total", len(h.Clients))
			}
		}
	}
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "hub", "err", err)
		return
	}

	client := NewClient(h, conn)
	if !h.register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
