package game

import (
	"card-memory-server/deck"
	"card-memory-server/gameerrors"
)

// GameState is the controller state. Every value is distinct.
type GameState int

const (
	FirstCardAwaits GameState = iota
	SecondCardAwaits
	CardMatchFailed
	CardMatched
	GameFinished
)

// String returns the state name used on the wire and in logs.
func (s GameState) String() string {
	switch s {
	case FirstCardAwaits:
		return "FirstCardAwaits"
	case SecondCardAwaits:
		return "SecondCardAwaits"
	case CardMatchFailed:
		return "CardMatchFailed"
	case CardMatched:
		return "CardMatched"
	case GameFinished:
		return "GameFinished"
	default:
		return "unknown"
	}
}

// Outcome describes what a click did.
type Outcome int

const (
	Ignored Outcome = iota
	FirstRevealed
	Matched
	Mismatched
	Finished
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case FirstRevealed:
		return "first_revealed"
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// RevealResult is returned by Session.Reveal. Pair holds both cards of a resolved turn.
type RevealResult struct {
	Outcome Outcome
	Card    deck.Card
	Pair    []deck.Card
}

// Session is the model of one game: the table, the revealed-cards buffer, score and attempts.
// It is owned by its caller and mutated only through its methods; nothing here is global.
type Session struct {
	Board      *Board
	Revealed   []deck.Card
	Score      int
	TriedTimes int
	State      GameState

	PointsPerPair int
	// WinScore is TotalPairs * PointsPerPair; reaching it finishes the game.
	WinScore int
}

// NewSession deals a table in the given display order.
func NewSession(order []int, pointsPerPair int) *Session {
	return &Session{
		Board:         NewBoard(order),
		Revealed:      make([]deck.Card, 0, 2),
		State:         FirstCardAwaits,
		PointsPerPair: pointsPerPair,
		WinScore:      deck.TotalPairs(len(order)) * pointsPerPair,
	}
}

// Reveal handles a click on the card with the given index.
// Clicks on face-up or paired cards, clicks while a mismatch is resolving and clicks after the
// game finished are no-ops reported as Ignored. Only an index outside the board is an error.
func (s *Session) Reveal(index int) (RevealResult, error) {
	slot := s.Board.Slot(index)
	if slot == nil {
		return RevealResult{Outcome: Ignored}, gameerrors.ErrCardOutOfRange
	}
	if slot.State != FaceDown {
		return RevealResult{Outcome: Ignored, Card: slot.Card}, nil
	}

	switch s.State {
	case FirstCardAwaits:
		slot.State = FaceUp
		s.Revealed = append(s.Revealed, slot.Card)
		s.State = SecondCardAwaits
		return RevealResult{Outcome: FirstRevealed, Card: slot.Card}, nil

	case SecondCardAwaits:
		s.TriedTimes++
		slot.State = FaceUp
		s.Revealed = append(s.Revealed, slot.Card)
		pair := []deck.Card{s.Revealed[0], s.Revealed[1]}

		matched, err := deck.RevealedMatch(s.Revealed)
		if err != nil {
			return RevealResult{Outcome: Ignored, Card: slot.Card}, err
		}
		if !matched {
			s.State = CardMatchFailed
			for _, c := range pair {
				s.Board.Slots[c].Wrong = true
			}
			return RevealResult{Outcome: Mismatched, Card: slot.Card, Pair: pair}, nil
		}

		s.State = CardMatched
		s.Score += s.PointsPerPair
		for _, c := range pair {
			s.Board.Slots[c].State = Paired
		}
		s.Revealed = s.Revealed[:0]
		if s.Score >= s.WinScore {
			s.State = GameFinished
			return RevealResult{Outcome: Finished, Card: slot.Card, Pair: pair}, nil
		}
		s.State = FirstCardAwaits
		return RevealResult{Outcome: Matched, Card: slot.Card, Pair: pair}, nil

	default:
		return RevealResult{Outcome: Ignored, Card: slot.Card}, nil
	}
}

// ResetMismatch flips a mismatched pair back face-down and clears the buffer.
// It returns the flipped cards, or false when no mismatch is pending.
func (s *Session) ResetMismatch() ([]deck.Card, bool) {
	if s.State != CardMatchFailed {
		return nil, false
	}
	flipped := make([]deck.Card, len(s.Revealed))
	copy(flipped, s.Revealed)
	for _, c := range flipped {
		slot := &s.Board.Slots[c]
		slot.State = FaceDown
		slot.Wrong = false
	}
	s.Revealed = s.Revealed[:0]
	s.State = FirstCardAwaits
	return flipped, true
}

// EndWrongCue clears the mismatch cue on one card. It reports false when no cue was set,
// so each cue occurrence is cleared exactly once.
func (s *Session) EndWrongCue(index int) bool {
	slot := s.Board.Slot(index)
	if slot == nil || !slot.Wrong {
		return false
	}
	slot.Wrong = false
	return true
}

// RevealedIndices returns the revealed buffer as plain ints.
func (s *Session) RevealedIndices() []int {
	out := make([]int, len(s.Revealed))
	for i, c := range s.Revealed {
		out[i] = int(c)
	}
	return out
}
