// internal/models/player.go
package models

import "github.com/google/uuid"

// Player is one of the two seats of a game. Hand order is the order cards
// were received in.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Hand []Card    `json:"hand"`

	// Bot marks a seat driven by the local bot; its one-card call is declared automatically.
	Bot bool `json:"bot,omitempty"`

	// HasCalled is set by a call-out and cleared whenever the hand grows again.
	HasCalled bool `json:"hasCalled"`

	// MustCall is the pending call-out obligation for a player left with one card.
	MustCall bool `json:"mustCall"`
}

// CardIndex returns the position of the card with the given ID in the hand, or -1.
func (p Player) CardIndex(cardID uuid.UUID) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}
