package gameerrors

import "errors"

// Game and session sentinel errors. Shared by the game, sessions and ws packages
// to avoid circular imports.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrCardOutOfRange = errors.New("card index out of range")
	ErrNotInGame      = errors.New("you are not in a game")
)
