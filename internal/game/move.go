// internal/game/move.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/models"
)

// MoveKind names one of the three moves a player can make.
type MoveKind string

const (
	MovePlayCard MoveKind = "play_card"
	MoveDrawCard MoveKind = "draw_card"
	MoveCallOut  MoveKind = "call_out"
)

// Move is a candidate transition submitted by a player.
type Move struct {
	Kind     MoveKind  `json:"kind"`
	PlayerID uuid.UUID `json:"playerId"`

	// CardID and ChosenColor are only read for MovePlayCard. ChosenColor is
	// required for wild cards and ignored otherwise.
	CardID      uuid.UUID    `json:"cardId,omitempty"`
	ChosenColor models.Color `json:"chosenColor,omitempty"`
}

// PlayCard builds a play move. Pass an empty color for non-wild cards.
func PlayCard(playerID, cardID uuid.UUID, chosen models.Color) Move {
	return Move{Kind: MovePlayCard, PlayerID: playerID, CardID: cardID, ChosenColor: chosen}
}

// DrawCard builds a draw move.
func DrawCard(playerID uuid.UUID) Move {
	return Move{Kind: MoveDrawCard, PlayerID: playerID}
}

// CallOut builds the one-card declaration.
func CallOut(playerID uuid.UUID) Move {
	return Move{Kind: MoveCallOut, PlayerID: playerID}
}
