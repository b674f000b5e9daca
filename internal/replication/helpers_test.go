// internal/replication/helpers_test.go
package replication

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/deck"
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/stretchr/testify/require"
)

type face struct {
	color models.Color
	value models.Value
}

func take(t *testing.T, pool *[]models.Card, want face) models.Card {
	t.Helper()
	for i, c := range *pool {
		if c.Color == want.color && c.Value == want.value {
			*pool = append((*pool)[:i], (*pool)[i+1:]...)
			return c
		}
	}
	require.FailNowf(t, "card not available", "%v", want)
	return models.Card{}
}

// manualState seats host in slot 0 and joiner in slot 1 with exact hands.
func manualState(t *testing.T, lobbyID uuid.UUID, host, joiner models.Identity, hostHand, joinerHand []face, top face, active int) game.GameState {
	t.Helper()
	pool := deck.BuildFullDeck()
	s := game.GameState{
		GameID:            uuid.New(),
		LobbyID:           lobbyID,
		ActivePlayerIndex: active,
		Rules:             game.DefaultHouseRules(),
	}
	s.Players[0] = models.Player{ID: host.ID, Name: host.Name}
	s.Players[1] = models.Player{ID: joiner.ID, Name: joiner.Name}
	for _, fc := range hostHand {
		s.Players[0].Hand = append(s.Players[0].Hand, take(t, &pool, fc))
	}
	for _, fc := range joinerHand {
		s.Players[1].Hand = append(s.Players[1].Hand, take(t, &pool, fc))
	}
	s.DiscardPile = []models.Card{take(t, &pool, top)}
	s.ActiveColor = top.color
	s.Deck = pool
	require.NoError(t, s.Validate())
	return s
}

// seed makes sessions hold st as if it had been received.
func seed(t *testing.T, st game.GameState, sessions ...*Session) {
	t.Helper()
	for _, s := range sessions {
		s.mu.Lock()
		_, err := s.reconciler.Apply(st)
		s.mu.Unlock()
		require.NoError(t, err)
	}
}

func identity(name string) models.Identity {
	return models.Identity{ID: uuid.New(), Name: name}
}

type recordedResult struct {
	winnerID   uuid.UUID
	winnerName string
	loserID    uuid.UUID
	loserName  string
}

// mockStats collects results instead of writing them to the database.
type mockStats struct {
	mu      sync.Mutex
	results []recordedResult
}

func (m *mockStats) RecordResult(_ context.Context, winnerID uuid.UUID, winnerName string, loserID uuid.UUID, loserName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, recordedResult{winnerID, winnerName, loserID, loserName})
	return nil
}

func (m *mockStats) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// mockActions collects logged actions.
type mockActions struct {
	mu      sync.Mutex
	actions []models.GameAction
}

func (m *mockActions) LogAction(_ context.Context, a models.GameAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, a)
	return nil
}

func (m *mockActions) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.actions))
	for i, a := range m.actions {
		out[i] = a.ActionType
	}
	return out
}

// collector is a relay subscriber that keeps every decoded message.
type collector struct {
	mu   sync.Mutex
	msgs []Message
}

func (c *collector) handle(payload []byte) {
	m, err := Decode(payload)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
}

func (c *collector) kinds() []Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Kind, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = m.Kind
	}
	return out
}
