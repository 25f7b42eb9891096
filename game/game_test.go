package game

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"card-memory-server/config"
	"card-memory-server/view"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.RevealDurationMS = 100 // Short for testing
	return cfg
}

// createTestGame creates a game dealt in index order and returns it with the player's send channel.
func createTestGame(cfg *config.Config) (*Game, chan []byte) {
	send := make(chan []byte, 256)
	p := NewPlayer("Alice", send)
	g := NewGameWithOrder("test-1", cfg, p, view.NewRenderer(cfg.SuitImageURLs), identityOrder())
	return g, send
}

// drainChannel reads all available messages from a channel.
func drainChannel(ch chan []byte) [][]byte {
	var msgs [][]byte
	for {
		select {
		case msg := <-ch:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// messageTypes decodes the "type" of each message.
func messageTypes(t *testing.T, msgs [][]byte) []string {
	t.Helper()
	types := make([]string, 0, len(msgs))
	for _, m := range msgs {
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(m, &env); err != nil {
			t.Fatalf("bad message %s: %v", m, err)
		}
		types = append(types, env.Type)
	}
	return types
}

// lastState returns the last game_state snapshot among msgs.
func lastState(t *testing.T, msgs [][]byte) StateMsg {
	t.Helper()
	var st StateMsg
	found := false
	for _, m := range msgs {
		var s StateMsg
		if err := json.Unmarshal(m, &s); err == nil && s.Type == "game_state" {
			st = s
			found = true
		}
	}
	if !found {
		t.Fatal("no game_state message received")
	}
	return st
}

func startGame(t *testing.T, g *Game) {
	t.Helper()
	go g.Run()
	t.Cleanup(func() { g.Submit(Action{Type: ActionDisconnect}) })
	time.Sleep(30 * time.Millisecond)
}

func TestNewGame(t *testing.T) {
	cfg := testConfig()
	g := NewGame("g-1", cfg, NewPlayer("Alice", nil), view.NewRenderer(cfg.SuitImageURLs))

	if g.ID != "g-1" {
		t.Errorf("expected ID='g-1', got %q", g.ID)
	}
	if g.Session.State != FirstCardAwaits {
		t.Errorf("expected FirstCardAwaits, got %v", g.Session.State)
	}
	if len(g.Session.Board.Order) != 52 {
		t.Errorf("expected 52 cards dealt, got %d", len(g.Session.Board.Order))
	}
}

func TestRun_DealsOnStart(t *testing.T) {
	g, send := createTestGame(testConfig())
	startGame(t, g)

	msgs := drainChannel(send)
	types := messageTypes(t, msgs)
	if len(types) < 2 || types[0] != "deal" || types[1] != "game_state" {
		t.Fatalf("expected deal then game_state, got %v", types)
	}

	var deal DealMsg
	json.Unmarshal(msgs[0], &deal)
	if deal.GameID != "test-1" {
		t.Errorf("expected gameId test-1, got %q", deal.GameID)
	}
	if deal.ScoreText != "Score: 0" || deal.TriedText != "You've tried: 0 times" {
		t.Errorf("unexpected counters %q / %q", deal.ScoreText, deal.TriedText)
	}
}

func TestFlipCard_OutOfBounds(t *testing.T) {
	g, send := createTestGame(testConfig())
	startGame(t, g)
	drainChannel(send)

	g.Submit(Action{Type: ActionFlipCard, Index: 100})
	time.Sleep(30 * time.Millisecond)

	msgs := drainChannel(send)
	if len(msgs) == 0 {
		t.Fatal("expected error message for out-of-bounds")
	}

	var errMsg map[string]string
	json.Unmarshal(msgs[0], &errMsg)
	if errMsg["type"] != "error" {
		t.Errorf("expected error message, got type=%q", errMsg["type"])
	}
}

func TestFlipCard_SuccessfulMatch(t *testing.T) {
	g, send := createTestGame(testConfig())
	startGame(t, g)
	drainChannel(send)

	g.Submit(Action{Type: ActionFlipCard, Index: 5})
	time.Sleep(30 * time.Millisecond)
	first := messageTypes(t, drainChannel(send))
	if len(first) != 2 || first[0] != "flip" || first[1] != "game_state" {
		t.Errorf("expected flip, game_state after first card, got %v", first)
	}

	g.Submit(Action{Type: ActionFlipCard, Index: 18})
	time.Sleep(30 * time.Millisecond)

	msgs := drainChannel(send)
	types := messageTypes(t, msgs)
	want := []string{"tried", "flip", "score", "pair", "game_state"}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], types[i])
		}
	}

	st := lastState(t, msgs)
	if st.Score != 10 || st.TriedTimes != 1 || st.State != "FirstCardAwaits" || len(st.Revealed) != 0 {
		t.Errorf("unexpected state after match: %+v", st)
	}

	var pair CardsMsg
	if err := json.Unmarshal(msgs[3], &pair); err != nil {
		t.Fatalf("unmarshal pair: %v", err)
	}
	if pair.Class != view.ClassPaired || len(pair.Indices) != 2 {
		t.Errorf("expected paired class on both cards, got %+v", pair)
	}
}

func TestFlipCard_MismatchResetsAfterDelay(t *testing.T) {
	cfg := testConfig()
	g, send := createTestGame(cfg)
	startGame(t, g)
	drainChannel(send)

	g.Submit(Action{Type: ActionFlipCard, Index: 0})
	g.Submit(Action{Type: ActionFlipCard, Index: 1})
	time.Sleep(30 * time.Millisecond)

	msgs := drainChannel(send)
	types := messageTypes(t, msgs)
	hasWrong := false
	for _, ty := range types {
		if ty == "wrong" {
			hasWrong = true
		}
	}
	if !hasWrong {
		t.Errorf("expected a wrong cue, got %v", types)
	}
	for i, ty := range types {
		if ty != "wrong" {
			continue
		}
		var wrong CardsMsg
		if err := json.Unmarshal(msgs[i], &wrong); err != nil {
			t.Fatalf("unmarshal wrong: %v", err)
		}
		if wrong.Class != view.ClassWrong || len(wrong.Indices) != 2 {
			t.Errorf("expected %q class on both cards, got %+v", view.ClassWrong, wrong)
		}
	}
	st := lastState(t, msgs)
	if st.State != "CardMatchFailed" || st.TriedTimes != 1 {
		t.Errorf("expected CardMatchFailed with 1 try, got %+v", st)
	}

	// Clicks while resolving are ignored.
	g.Submit(Action{Type: ActionFlipCard, Index: 2})
	time.Sleep(20 * time.Millisecond)
	if got := drainChannel(send); len(got) != 0 {
		t.Errorf("expected no messages for a click during the reveal delay, got %v", messageTypes(t, got))
	}

	time.Sleep(time.Duration(cfg.RevealDurationMS+100) * time.Millisecond)

	msgs = drainChannel(send)
	types = messageTypes(t, msgs)
	flips := 0
	for i, m := range msgs {
		if types[i] != "flip" {
			continue
		}
		var f FlipMsg
		json.Unmarshal(m, &f)
		if f.FaceUp || f.HTML != "" {
			t.Errorf("reset flip should turn the card face-down: %+v", f)
		}
		flips++
	}
	if flips != 2 {
		t.Errorf("expected 2 face-down flips, got %d (%v)", flips, types)
	}
	st = lastState(t, msgs)
	if st.State != "FirstCardAwaits" || len(st.Revealed) != 0 {
		t.Errorf("expected FirstCardAwaits with empty buffer after reset, got %+v", st)
	}
}

func TestResetMismatch_StaleTurnIgnored(t *testing.T) {
	g, send := createTestGame(testConfig())
	g.Session.Reveal(0)
	g.Session.Reveal(1)

	g.handleResetMismatch(g.Session.TriedTimes - 1)

	if g.Session.State != CardMatchFailed {
		t.Errorf("stale reset must be ignored, state=%v", g.Session.State)
	}
	if len(drainChannel(send)) != 0 {
		t.Error("stale reset must not render anything")
	}

	g.handleResetMismatch(g.Session.TriedTimes)
	if g.Session.State != FirstCardAwaits {
		t.Errorf("expected reset to apply, state=%v", g.Session.State)
	}
}

func TestCueEnded(t *testing.T) {
	g, _ := createTestGame(testConfig())
	g.Session.Reveal(0)
	g.Session.Reveal(1)

	g.handleCueEnded(0)
	g.handleCueEnded(0)

	if g.Session.Board.Slots[0].Wrong {
		t.Error("cue on card 0 should be cleared")
	}
	if !g.Session.Board.Slots[1].Wrong {
		t.Error("cue on card 1 should remain until its own animation ends")
	}
}

func TestFullGame_CompletesAndReportsResult(t *testing.T) {
	g, send := createTestGame(testConfig())

	var mu sync.Mutex
	var results []Result
	g.OnGameEnd = func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	go g.Run()
	for r := 0; r < 13; r++ {
		for _, p := range [][2]int{{r, r + 13}, {r + 26, r + 39}} {
			g.Submit(Action{Type: ActionFlipCard, Index: p[0]})
			g.Submit(Action{Type: ActionFlipCard, Index: p[1]})
		}
	}

	select {
	case <-g.Done:
	case <-time.After(2 * time.Second):
		t.Fatal("game loop did not finish")
	}

	msgs := drainChannel(send)
	types := messageTypes(t, msgs)
	completed := 0
	for i, ty := range types {
		if ty != "completed" {
			continue
		}
		completed++
		var c CompletedMsg
		json.Unmarshal(msgs[i], &c)
		if c.Score != 260 || c.TriedTimes != 26 {
			t.Errorf("unexpected completion %+v", c)
		}
	}
	if completed != 1 {
		t.Errorf("expected exactly one completion banner, got %d", completed)
	}

	st := lastState(t, msgs)
	if st.State != "GameFinished" || st.Score != 260 {
		t.Errorf("expected GameFinished with 260, got %+v", st)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].Score != 260 || results[0].TriedTimes != 26 || results[0].PlayerName != "Alice" {
		t.Errorf("unexpected result %+v", results[0])
	}

	// The loop has exited; further clicks are dropped.
	if g.Submit(Action{Type: ActionFlipCard, Index: 0}) {
		t.Error("Submit after finish should report false")
	}
}
