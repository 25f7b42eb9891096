package ws

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"card-memory-server/game"
	"card-memory-server/gameerrors"
	"card-memory-server/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	defaultName = "Player"
)

// Client is a middleman between the websocket connection and its game.
// Name, UserID and Game are only touched from the read pump goroutine.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Name   string
	UserID string
	Game   *game.Game

	limiter   *rate.Limiter
	throttled bool // an error frame was sent for the current burst of dropped messages
}

// NewClient creates a client for an upgraded connection.
func NewClient(h *Hub, conn *websocket.Conn) *Client {
	perSec := 20
	if h != nil && h.Config != nil && h.Config.MaxMessagesPerSec > 0 {
		perSec = h.Config.MaxMessagesPerSec
	}
	return &Client{
		Hub:     h,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Name:    defaultName,
		limiter: rate.NewLimiter(rate.Limit(perSec), perSec),
	}
}

// ReadPump pumps messages from the websocket connection to the game.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Sessions.End(c)
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	if c.limiter != nil && !c.limiter.Allow() {
		if !c.throttled {
			c.throttled = true
			slog.Warn("client rate limited", "tag", "ws", "player", c.Name)
			c.sendError("Too many messages; slow down.")
		}
		return
	}
	c.throttled = false

	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "auth":
		c.handleAuth(envelope.Raw)
	case "set_name":
		c.handleSetName(envelope.Raw)
	case "new_game":
		c.handleNewGame()
	case "flip_card":
		c.handleFlipCard(envelope.Raw)
	case "cue_ended":
		c.handleCueEnded(envelope.Raw)
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) inActiveGame() bool {
	return c.Game != nil && !c.Game.Over()
}

func (c *Client) handleAuth(raw json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil || strings.TrimSpace(msg.Token) == "" {
		c.sendError("Invalid auth message.")
		return
	}
	if c.Hub.Auth == nil {
		c.sendError("Server auth not configured.")
		return
	}
	if c.inActiveGame() {
		c.sendError("Cannot sign in while in a game.")
		return
	}
	userID, name, err := c.Hub.Auth.Validate(msg.Token)
	if err != nil || userID == "" {
		slog.Info("auth rejected", "tag", "ws", "err", err)
		c.sendError("Invalid or expired token.")
		return
	}
	c.UserID = userID
	c.Name = truncateName(name, c.Hub.Config.MaxNameLength)
	c.sendIdentity()
}

func (c *Client) handleSetName(raw json.RawMessage) {
	var msg SetNameMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid set_name message.")
		return
	}

	name := strings.TrimSpace(msg.Name)
	maxLen := c.Hub.Config.MaxNameLength
	if n := utf8.RuneCountInString(name); n < 1 || n > maxLen {
		c.sendError("Name must be between 1 and " + strconv.Itoa(maxLen) + " characters.")
		return
	}

	if c.inActiveGame() {
		c.sendError("Cannot change name while in a game.")
		return
	}

	c.Name = name
	c.sendIdentity()
}

func (c *Client) handleNewGame() {
	if err := c.Hub.Sessions.Restart(c); err != nil {
		slog.Error("starting game", "tag", "ws", "err", err)
		c.sendError("Could not start a new game.")
	}
}

func (c *Client) handleFlipCard(raw json.RawMessage) {
	if c.Game == nil {
		c.sendError(capitalize(gameerrors.ErrNotInGame.Error()) + ".")
		return
	}

	var msg FlipCardMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid flip_card message.")
		return
	}

	// A finished game has stopped its loop; the click is a no-op.
	c.Game.Submit(game.Action{Type: game.ActionFlipCard, Index: msg.Index})
}

func (c *Client) handleCueEnded(raw json.RawMessage) {
	if c.Game == nil {
		return
	}
	var msg CueEndedMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid cue_ended message.")
		return
	}
	c.Game.Submit(game.Action{Type: game.ActionCueEnded, Index: msg.Index})
}

func (c *Client) sendIdentity() {
	wsutil.SendJSON(c.Send, IdentityMsg{Type: "identity", Name: c.Name, Authenticated: c.UserID != ""})
}

func (c *Client) sendError(message string) {
	wsutil.SendJSON(c.Send, ErrorMsg{Type: "error", Message: message})
}

func truncateName(name string, maxLen int) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) == 0 {
		return defaultName
	}
	if maxLen > 0 && len(r) > maxLen {
		r = r[:maxLen]
	}
	return string(r)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
