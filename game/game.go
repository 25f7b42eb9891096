package game

import (
	"log/slog"
	"time"

	"card-memory-server/config"
	"card-memory-server/deck"
	"card-memory-server/view"
	"card-memory-server/wsutil"
)

// ActionType enumerates the kinds of actions a game can process.
type ActionType int

const (
	ActionFlipCard      ActionType = iota
	ActionCueEnded                 // the client finished playing the mismatch cue on a card
	ActionResetMismatch            // internal: fired after the reveal delay expires
	ActionDisconnect
)

// Action represents an event sent into the game's action channel.
type Action struct {
	Type  ActionType
	Index int // card index (FlipCard, CueEnded)
	Turn  int // attempt number the reset belongs to (ResetMismatch)
}

// Result is reported through OnGameEnd when every pair is found.
type Result struct {
	GameID     string
	UserID     string
	PlayerName string
	Score      int
	TriedTimes int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the time spent from deal to the last pair.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Game is the controller of a single game: it owns the session, turns clicks into
// state transitions and pushes the matching render operations to the player.
type Game struct {
	ID        string
	Session   *Session
	Player    *Player
	Config    *config.Config
	Renderer  *view.Renderer
	StartedAt time.Time
	Finished  bool

	Actions chan Action
	Done    chan struct{}

	// OnGameEnd is called once when the last pair is found. Optional.
	OnGameEnd func(Result)
}

// NewGame creates a game with a freshly shuffled deck.
func NewGame(id string, cfg *config.Config, player *Player, renderer *view.Renderer) *Game {
	return NewGameWithOrder(id, cfg, player, renderer, deck.NewOrder(deck.DeckSize))
}

// NewGameWithOrder creates a game dealt in a fixed display order.
func NewGameWithOrder(id string, cfg *config.Config, player *Player, renderer *view.Renderer, order []int) *Game {
	return &Game{
		ID:        id,
		Session:   NewSession(order, cfg.PointsPerPair),
		Player:    player,
		Config:    cfg,
		Renderer:  renderer,
		StartedAt: time.Now(),
		Actions:   make(chan Action, 16),
		Done:      make(chan struct{}),
	}
}

// Submit queues an action. It returns false once the game loop has exited,
// so callers never block on a finished game.
func (g *Game) Submit(a Action) bool {
	select {
	case <-g.Done:
		return false
	default:
	}
	select {
	case g.Actions <- a:
		return true
	case <-g.Done:
		return false
	}
}

// Over reports whether the game loop has exited (finished or abandoned).
func (g *Game) Over() bool {
	select {
	case <-g.Done:
		return true
	default:
		return false
	}
}

// Run is the main game loop. It processes actions sequentially.
// It should be run as a goroutine.
func (g *Game) Run() {
	defer close(g.Done)

	g.sendDeal()
	g.sendState()

	for {
		action, ok := <-g.Actions
		if !ok {
			return
		}
		switch action.Type {
		case ActionFlipCard:
			g.handleFlipCard(action.Index)
		case ActionCueEnded:
			g.handleCueEnded(action.Index)
		case ActionResetMismatch:
			g.handleResetMismatch(action.Turn)
		case ActionDisconnect:
			slog.Debug("player left", "tag", "game", "game", g.ID)
			return
		}
		if g.Finished {
			return
		}
	}
}

// scheduleReset sends ActionResetMismatch back into the loop after the reveal delay.
// The loop, not this goroutine, touches the session.
func (g *Game) scheduleReset(turn int) {
	delay := g.Config.RevealDuration()
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-g.Done:
			return
		}
		select {
		case g.Actions <- Action{Type: ActionResetMismatch, Turn: turn}:
		case <-g.Done:
		}
	}()
}

func (g *Game) send(v any) {
	if g.Player == nil {
		return
	}
	wsutil.SendJSON(g.Player.Send, v)
}

func (g *Game) sendError(message string) {
	g.send(map[string]string{
		"type":    "error",
		"message": message,
	})
}

func (g *Game) sendDeal() {
	g.send(DealMsg{
		Type:      "deal",
		GameID:    g.ID,
		HTML:      g.Renderer.DisplayCards(g.Session.Board.Order),
		ScoreText: view.ScoreText(g.Session.Score),
		TriedText: view.TriedText(g.Session.TriedTimes),
	})
}

func (g *Game) sendState() {
	g.send(BuildState(g.ID, g.Session))
}

func (g *Game) sendFlip(c deck.Card, faceUp bool) {
	msg := FlipMsg{Type: "flip", Index: int(c), FaceUp: faceUp}
	if faceUp {
		msg.HTML = g.Renderer.CardContent(c)
	}
	g.send(msg)
}

func (g *Game) sendCards(kind, class string, cards []deck.Card) {
	g.send(CardsMsg{Type: kind, Class: class, Indices: cardIndices(cards)})
}

func (g *Game) sendScore() {
	g.send(CounterMsg{Type: "score", Value: g.Session.Score, Text: view.ScoreText(g.Session.Score)})
}

func (g *Game) sendTried() {
	g.send(CounterMsg{Type: "tried", Value: g.Session.TriedTimes, Text: view.TriedText(g.Session.TriedTimes)})
}

func (g *Game) sendCompleted() {
	g.send(CompletedMsg{
		Type:       "completed",
		HTML:       g.Renderer.CompletedBanner(g.Session.Score, g.Session.TriedTimes),
		Score:      g.Session.Score,
		TriedTimes: g.Session.TriedTimes,
	})
}

func (g *Game) finish() {
	g.Finished = true
	slog.Info("game complete", "tag", "game", "game", g.ID,
		"score", g.Session.Score, "tried", g.Session.TriedTimes)
	if g.OnGameEnd == nil {
		return
	}
	res := Result{
		GameID:     g.ID,
		Score:      g.Session.Score,
		TriedTimes: g.Session.TriedTimes,
		StartedAt:  g.StartedAt,
		FinishedAt: time.Now(),
	}
	if g.Player != nil {
		res.UserID = g.Player.UserID
		res.PlayerName = g.Player.Name
	}
	g.OnGameEnd(res)
}
