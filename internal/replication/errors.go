// internal/replication/errors.go
package replication

import "errors"

var (
	ErrNotHost            = errors.New("only the lobby host may initialize the game")
	ErrAlreadyInitialized = errors.New("game already initialized for this lobby")
	ErrLobbyNotFull       = errors.New("lobby needs two players")
	ErrNoGame             = errors.New("no game in progress")
	ErrNotSeated          = errors.New("local player is not seated in the snapshot")
	ErrInvalidSnapshot    = errors.New("snapshot fails validation")
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownKind        = errors.New("unknown message kind")
	ErrRelayClosed        = errors.New("relay closed")
)
