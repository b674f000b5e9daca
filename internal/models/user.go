// internal/models/user.go
package models

import "github.com/google/uuid"

// User is a registered account. Guests never get a row.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"password,omitempty"`

	IsEphemeral bool `json:"is_ephemeral"`

	Elo1v1 int `json:"elo_1v1"`

	// Glicko2 for 1v1
	Phi1v1   float64 `json:"phi_1v1"`
	Sigma1v1 float64 `json:"sigma_1v1"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}
