// internal/game/helpers_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/deck"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/stretchr/testify/require"
)

// face is a card without identity, used to pick cards out of a fresh deck.
type face struct {
	color models.Color
	value models.Value
}

func f(c models.Color, v models.Value) face { return face{c, v} }

// take removes the first card with the given face from pool.
func take(t *testing.T, pool *[]models.Card, want face) models.Card {
	t.Helper()
	for i, c := range *pool {
		if c.Color == want.color && c.Value == want.value {
			*pool = append((*pool)[:i], (*pool)[i+1:]...)
			return c
		}
	}
	require.FailNowf(t, "card not available", "%s %s", want.color, want.value)
	return models.Card{}
}

// setupTestState builds a mid-game state with exact hands and discard top.
// Every other card of the deck becomes the draw pile, so the state holds all
// 108 cards. Player 0 is to act.
func setupTestState(t *testing.T, hand0, hand1 []face, top face, activeColor models.Color) GameState {
	t.Helper()
	pool := deck.BuildFullDeck()

	s := GameState{
		GameID:  uuid.New(),
		LobbyID: uuid.New(),
		Rules:   DefaultHouseRules(),
	}
	s.Players[0] = models.Player{ID: uuid.New(), Name: "Alice"}
	s.Players[1] = models.Player{ID: uuid.New(), Name: "Bob"}
	for _, fc := range hand0 {
		s.Players[0].Hand = append(s.Players[0].Hand, take(t, &pool, fc))
	}
	for _, fc := range hand1 {
		s.Players[1].Hand = append(s.Players[1].Hand, take(t, &pool, fc))
	}
	s.DiscardPile = []models.Card{take(t, &pool, top)}
	s.Deck = pool
	s.ActiveColor = activeColor
	require.NoError(t, s.Validate())
	return s
}

// stackedDeck returns a full deck arranged so that starter is the card
// flipped after dealing handSize cards to each seat.
func stackedDeck(t *testing.T, handSize int, starter face) []models.Card {
	t.Helper()
	pool := deck.BuildFullDeck()
	card := take(t, &pool, starter)
	pos := len(pool) - 2*handSize
	out := make([]models.Card, 0, deck.Size)
	out = append(out, pool[:pos]...)
	out = append(out, card)
	out = append(out, pool[pos:]...)
	return out
}

func newSeats() [NumPlayers]Seat {
	return [NumPlayers]Seat{
		{ID: uuid.New(), Name: "Alice"},
		{ID: uuid.New(), Name: "Bob"},
	}
}

func mustApply(t *testing.T, s GameState, m Move) GameState {
	t.Helper()
	next, _, err := ApplyMove(s, m)
	require.NoError(t, err)
	require.Equal(t, deck.Size, next.CardCount(), "card conservation")
	return next
}

func cardID(t *testing.T, p models.Player, want face) uuid.UUID {
	t.Helper()
	for _, c := range p.Hand {
		if c.Color == want.color && c.Value == want.value {
			return c.ID
		}
	}
	require.FailNowf(t, "card not in hand", "%s %s", want.color, want.value)
	return uuid.Nil
}
