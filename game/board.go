package game

import (
	"card-memory-server/deck"
)

// CardState represents the visible state of a card on the table.
type CardState int

const (
	FaceDown CardState = iota
	FaceUp
	Paired
)

// String returns the string representation of a CardState.
func (cs CardState) String() string {
	switch cs {
	case FaceDown:
		return "back"
	case FaceUp:
		return "front"
	case Paired:
		return "paired"
	default:
		return "unknown"
	}
}

// Slot is a dealt card together with its visual state.
// Wrong is the transient mismatch cue; it is a flag, so repeated cues never stack.
type Slot struct {
	Card  deck.Card
	State CardState
	Wrong bool
}

// Board holds the dealt cards. Order is the display order; Slots is indexed by card index.
type Board struct {
	Order []int
	Slots []Slot
}

// NewBoard deals the cards in the given display order. All cards start face-down.
func NewBoard(order []int) *Board {
	slots := make([]Slot, len(order))
	for i := range slots {
		slots[i] = Slot{Card: deck.Card(i), State: FaceDown}
	}
	o := make([]int, len(order))
	copy(o, order)
	return &Board{Order: o, Slots: slots}
}

// Slot returns the slot for a card index, or nil when the index is not on the board.
func (b *Board) Slot(index int) *Slot {
	if !deck.Card(index).Valid() || index >= len(b.Slots) {
		return nil
	}
	return &b.Slots[index]
}

// PairedCount returns how many cards are permanently paired.
func (b *Board) PairedCount() int {
	n := 0
	for _, s := range b.Slots {
		if s.State == Paired {
			n++
		}
	}
	return n
}

// AllPaired returns true if every card on the board is paired.
func AllPaired(board *Board) bool {
	for _, s := range board.Slots {
		if s.State != Paired {
			return false
		}
	}
	return true
}
