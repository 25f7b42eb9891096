package game

// Server-to-client render operations. The browser applies each one to the DOM as-is;
// all markup comes from the view package.

// DealMsg fills the #cards container and resets the counters.
type DealMsg struct {
	Type      string `json:"type"`
	GameID    string `json:"gameId"`
	HTML      string `json:"html"`
	ScoreText string `json:"scoreText"`
	TriedText string `json:"triedText"`
}

// FlipMsg toggles one card. HTML is the face-up content, empty when flipping back.
type FlipMsg struct {
	Type   string `json:"type"`
	Index  int    `json:"index"`
	FaceUp bool   `json:"faceUp"`
	HTML   string `json:"html"`
}

// CardsMsg names a group of cards for the "pair" and "wrong" operations.
// Class is the CSS class the client adds to each of them.
type CardsMsg struct {
	Type    string `json:"type"`
	Class   string `json:"class"`
	Indices []int  `json:"indices"`
}

// CounterMsg updates the score ("score") or attempts ("tried") display.
type CounterMsg struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
	Text  string `json:"text"`
}

// CompletedMsg carries the banner inserted before #header when the game ends.
type CompletedMsg struct {
	Type       string `json:"type"`
	HTML       string `json:"html"`
	Score      int    `json:"score"`
	TriedTimes int    `json:"triedTimes"`
}

// StateMsg is a snapshot of the controller after each handled action.
type StateMsg struct {
	Type        string `json:"type"`
	GameID      string `json:"gameId"`
	State       string `json:"state"`
	Score       int    `json:"score"`
	TriedTimes  int    `json:"triedTimes"`
	Revealed    []int  `json:"revealed"`
	PairedCount int    `json:"pairedCount"`
	WinScore    int    `json:"winScore"`
}

// BuildState returns the snapshot of a game session.
func BuildState(gameID string, s *Session) StateMsg {
	return StateMsg{
		Type:        "game_state",
		GameID:      gameID,
		State:       s.State.String(),
		Score:       s.Score,
		TriedTimes:  s.TriedTimes,
		Revealed:    s.RevealedIndices(),
		PairedCount: s.Board.PairedCount(),
		WinScore:    s.WinScore,
	}
}

func cardIndices[T ~int](cards []T) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = int(c)
	}
	return out
}
