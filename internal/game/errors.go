// internal/game/errors.go
package game

import "errors"

// Errors returned by ApplyMove. A rejected move leaves the state untouched.
var (
	ErrGameOver       = errors.New("game is already over")
	ErrUnknownPlayer  = errors.New("player is not seated in this game")
	ErrNotYourTurn    = errors.New("it is not your turn")
	ErrUnknownMove    = errors.New("unknown move kind")
	ErrCardNotInHand  = errors.New("card is not in your hand")
	ErrIllegalPlay    = errors.New("card does not match the active color or the top card")
	ErrColorRequired  = errors.New("a wild card needs a chosen color")
	ErrNothingToCall  = errors.New("no call-out is due")
	ErrInvalidSetup   = errors.New("invalid game setup")
	ErrNotInitialized = errors.New("game state has no discard pile")
)
