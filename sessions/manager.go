package sessions

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"card-memory-server/config"
	"card-memory-server/game"
	"card-memory-server/gameerrors"
	"card-memory-server/view"
	"card-memory-server/ws"
)

// endTimeout bounds how long End waits for an abandoned game loop to exit.
const endTimeout = 2 * time.Second

// ResultRecorder receives every completed game. storage.Recorder implements it.
type ResultRecorder interface {
	Record(res game.Result)
}

// Manager starts one game per client and keeps track of the games in progress.
type Manager struct {
	config   *config.Config
	renderer *view.Renderer
	recorder ResultRecorder

	mu    sync.Mutex
	games map[string]*game.Game

	// newOrder deals the table; replaced in tests for a fixed layout.
	newOrder func() []int
}

// NewManager creates a Manager. recorder may be nil.
func NewManager(cfg *config.Config, renderer *view.Renderer, recorder ResultRecorder) *Manager {
	return &Manager{
		config:   cfg,
		renderer: renderer,
		recorder: recorder,
		games:    make(map[string]*game.Game),
	}
}

// Restart abandons the client's current game, if any, and deals a new one.
func (m *Manager) Restart(c *ws.Client) error {
	m.End(c)
	return m.Start(c)
}

// Start deals a new game for the client and starts its loop.
func (m *Manager) Start(c *ws.Client) error {
	id := uuid.NewString()
	player := game.NewPlayer(c.Name, c.Send)
	player.UserID = c.UserID

	var g *game.Game
	if m.newOrder != nil {
		g = game.NewGameWithOrder(id, m.config, player, m.renderer, m.newOrder())
	} else {
		g = game.NewGame(id, m.config, player, m.renderer)
	}
	g.OnGameEnd = m.onGameEnd

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	c.Game = g
	slog.Info("game dealt", "tag", "sessions", "game", id, "player", c.Name)

	go func() {
		g.Run()
		m.remove(id)
	}()
	return nil
}

// End stops the client's game if it is still running. It returns once the game loop
// has exited, so no op of the old game reaches the client after a new deal.
func (m *Manager) End(c *ws.Client) {
	g := c.Game
	if g == nil {
		return
	}
	c.Game = nil
	if !g.Submit(game.Action{Type: game.ActionDisconnect}) {
		return
	}
	select {
	case <-g.Done:
		slog.Info("game abandoned", "tag", "sessions", "game", g.ID)
	case <-time.After(endTimeout):
		slog.Warn("game loop did not stop in time", "tag", "sessions", "game", g.ID)
	}
}

// Get returns a game in progress by ID.
func (m *Manager) Get(id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, gameerrors.ErrGameNotFound
	}
	return g, nil
}

// Active returns the number of games in progress.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()
}

func (m *Manager) onGameEnd(res game.Result) {
	if m.recorder == nil {
		return
	}
	m.recorder.Record(res)
}
