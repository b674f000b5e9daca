// internal/models/lobby.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Lobby is the creation record of a two-seat table. The host is whoever
// claimed the lobby at creation; the joiner fills the second seat.
type Lobby struct {
	ID         uuid.UUID `json:"id"`
	HostUserID uuid.UUID `json:"host_user_id"`
	HostName   string    `json:"host_name"`

	JoinerUserID uuid.UUID `json:"joiner_user_id,omitempty"`
	JoinerName   string    `json:"joiner_name,omitempty"`
	JoinerIsBot  bool      `json:"joiner_is_bot,omitempty"`
	// JoinerOnline is set while the joiner's relay socket is open.
	JoinerOnline bool `json:"joiner_online,omitempty"`

	// Rules holds raw house-rule overrides, parsed by the game package at initialization.
	Rules map[string]interface{} `json:"rules,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Full reports whether both seats are taken.
func (l Lobby) Full() bool {
	return l.JoinerUserID != uuid.Nil
}
