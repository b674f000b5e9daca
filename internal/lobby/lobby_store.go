// internal/lobby/lobby_store.go
package lobby

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/sirupsen/logrus"
)

// LobbyStore keeps the creation records of open lobbies in memory. Records
// are returned by value so callers cannot mutate the stored copy.
type LobbyStore struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]models.Lobby
}

// NewLobbyStore initializes and returns an empty LobbyStore.
func NewLobbyStore() *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[uuid.UUID]models.Lobby),
	}
}

// AddLobby stores a new lobby. An existing record with the same ID is kept.
func (s *LobbyStore) AddLobby(l models.Lobby) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lobbies[l.ID]; exists {
		logrus.WithField("lobby", l.ID).Warn("attempted to add a lobby that already exists")
		return false
	}
	s.lobbies[l.ID] = l
	return true
}

// UpdateLobby applies fn to the stored record under the store lock.
func (s *LobbyStore) UpdateLobby(id uuid.UUID, fn func(*models.Lobby) error) (models.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	if !ok {
		return models.Lobby{}, ErrLobbyNotFound
	}
	if err := fn(&l); err != nil {
		return models.Lobby{}, err
	}
	s.lobbies[id] = l
	return l, nil
}

// DeleteLobby removes a lobby from the store.
func (s *LobbyStore) DeleteLobby(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, id)
}

// GetLobby retrieves a lobby by ID.
func (s *LobbyStore) GetLobby(id uuid.UUID) (models.Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	return l, ok
}

// GetLobbies returns a copy of every open lobby.
func (s *LobbyStore) GetLobbies() []models.Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lobby, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		out = append(out, l)
	}
	return out
}
