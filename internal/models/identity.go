// internal/models/identity.go
package models

import "github.com/google/uuid"

// Identity is the stable id and display name of whoever is at the keyboard,
// guest or registered.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
