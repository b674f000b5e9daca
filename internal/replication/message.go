// internal/replication/message.go
package replication

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/game"
)

// Kind tags a relay message.
type Kind string

const (
	KindInit    Kind = "init"
	KindUpdate  Kind = "update"
	KindCall    Kind = "call"
	KindGameEnd Kind = "gameEnd"
)

// Message is the self-describing envelope exchanged over the relay. Which
// fields are set depends on Kind.
type Message struct {
	Kind     Kind      `json:"kind"`
	LobbyID  uuid.UUID `json:"lobbyId"`
	SenderID uuid.UUID `json:"senderId"`

	// init, update
	Snapshot *game.GameState `json:"snapshot,omitempty"`
	Move     string          `json:"move,omitempty"`

	// call
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
	ActorName string     `json:"actorName,omitempty"`

	// gameEnd
	Winner *uuid.UUID `json:"winner,omitempty"`
}

// InitMessage carries the first snapshot of a game.
func InitMessage(sender uuid.UUID, s game.GameState) Message {
	return Message{Kind: KindInit, LobbyID: s.LobbyID, SenderID: sender, Snapshot: &s}
}

// UpdateMessage carries the snapshot after one move, with its description.
func UpdateMessage(sender uuid.UUID, s game.GameState, move string) Message {
	return Message{Kind: KindUpdate, LobbyID: s.LobbyID, SenderID: sender, Snapshot: &s, Move: move}
}

// CallMessage announces a one-card declaration.
func CallMessage(lobbyID, sender uuid.UUID, actorID uuid.UUID, actorName string) Message {
	return Message{Kind: KindCall, LobbyID: lobbyID, SenderID: sender, ActorID: &actorID, ActorName: actorName}
}

// GameEndMessage announces the winner.
func GameEndMessage(lobbyID, sender, winner uuid.UUID) Message {
	return Message{Kind: KindGameEnd, LobbyID: lobbyID, SenderID: sender, Winner: &winner}
}

// Encode serializes a message for the relay.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", m.Kind, err)
	}
	return data, nil
}

// Decode parses a relay payload. It fails with ErrMalformedMessage when the
// payload is not a usable message and with ErrUnknownKind for kinds this
// build does not know; receivers ignore both.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	switch m.Kind {
	case KindInit, KindUpdate:
		if m.Snapshot == nil {
			return Message{}, fmt.Errorf("%w: %s without snapshot", ErrMalformedMessage, m.Kind)
		}
	case KindCall:
		if m.ActorID == nil {
			return Message{}, fmt.Errorf("%w: call without actor", ErrMalformedMessage)
		}
	case KindGameEnd:
		if m.Winner == nil {
			return Message{}, fmt.Errorf("%w: gameEnd without winner", ErrMalformedMessage)
		}
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
	return m, nil
}
