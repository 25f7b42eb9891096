package deck

import (
	"errors"
	"strconv"
)

const (
	// DeckSize is the number of cards dealt in every game.
	DeckSize = 52
	// RanksPerSuit is the number of ranks (Ace..King) in each suit.
	RanksPerSuit = 13
	// SuitCount is the number of suits in the deck.
	SuitCount = DeckSize / RanksPerSuit
)

// ErrNeedTwoCards is returned when the match predicate is evaluated without exactly two revealed cards.
var ErrNeedTwoCards = errors.New("exactly two revealed cards are required")

// Suit identifies one of the four suits. The order follows the card index ranges:
// spades 0-12, hearts 13-25, diamonds 26-38, clubs 39-51.
type Suit int

const (
	Spade Suit = iota
	Heart
	Diamond
	Club
)

// String returns the suit name.
func (s Suit) String() string {
	switch s {
	case Spade:
		return "spade"
	case Heart:
		return "heart"
	case Diamond:
		return "diamond"
	case Club:
		return "club"
	default:
		return "unknown"
	}
}

// Card is a card identified by its index in [0, DeckSize).
type Card int

// Valid reports whether the index lies inside the deck.
func (c Card) Valid() bool {
	return c >= 0 && c < DeckSize
}

// Rank returns 1 (Ace) through 13 (King).
func (c Card) Rank() int {
	return int(c)%RanksPerSuit + 1
}

// Suit returns the suit derived from the index range.
func (c Card) Suit() Suit {
	return Suit(int(c) / RanksPerSuit)
}

// Label returns the face label shown on the card, e.g. "A", "7", "K".
func (c Card) Label() string {
	return RankLabel(c.Rank())
}

// RankLabel converts a rank number to its face label. Court cards and the ace get letters.
func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return strconv.Itoa(rank)
	}
}

// IsMatch returns true when both cards share a rank. Suit is irrelevant.
func IsMatch(a, b Card) bool {
	return int(a)%RanksPerSuit == int(b)%RanksPerSuit
}

// RevealedMatch evaluates the match predicate over a revealed-cards buffer.
func RevealedMatch(revealed []Card) (bool, error) {
	if len(revealed) != 2 {
		return false, ErrNeedTwoCards
	}
	return IsMatch(revealed[0], revealed[1]), nil
}

// TotalPairs returns how many rank pairs can be formed from the first n cards of the deck.
func TotalPairs(n int) int {
	counts := make(map[int]int, RanksPerSuit)
	for i := 0; i < n; i++ {
		counts[i%RanksPerSuit]++
	}
	pairs := 0
	for _, c := range counts {
		pairs += c / 2
	}
	return pairs
}
