// internal/game/state.go

// Package game holds the two-player card game: the replicated GameState
// snapshot and the pure ApplyMove reducer that moves it forward.
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/deck"
	"github.com/jason-s-yu/arcade/internal/models"
)

// NumPlayers is fixed: one creator, one joiner.
const NumPlayers = 2

// CallKeyword is what a player shouts when down to one card.
const CallKeyword = "UNO"

// GameState is one complete, serializable snapshot of a game. Values are
// treated as immutable: every transition works on a Clone and returns it.
// Players are always ordered [creator, joiner].
type GameState struct {
	GameID  uuid.UUID `json:"gameId"`
	LobbyID uuid.UUID `json:"lobbyId"`

	Players           [NumPlayers]models.Player `json:"players"`
	Deck              []models.Card             `json:"deck"`
	DiscardPile       []models.Card             `json:"discardPile"` // top = last
	ActivePlayerIndex int                       `json:"activePlayerIndex"`
	ActiveColor       models.Color              `json:"activeColor"`
	IsReversed        bool                      `json:"isReversed"`
	Winner            *uuid.UUID                `json:"winner"`
	Log               []string                  `json:"log"`

	Rules HouseRules `json:"rules"`

	// Version counts accepted transitions.
	Version int `json:"version"`
}

// Clone returns a deep copy that shares no slices with s.
func (s GameState) Clone() GameState {
	out := s
	out.Deck = append([]models.Card(nil), s.Deck...)
	out.DiscardPile = append([]models.Card(nil), s.DiscardPile...)
	out.Log = append([]string(nil), s.Log...)
	for i := range s.Players {
		out.Players[i].Hand = append([]models.Card(nil), s.Players[i].Hand...)
	}
	if s.Winner != nil {
		w := *s.Winner
		out.Winner = &w
	}
	return out
}

// Top returns the top of the discard pile. ok is false before initialization.
func (s GameState) Top() (models.Card, bool) {
	if len(s.DiscardPile) == 0 {
		return models.Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// IsOver reports whether a winner has been decided.
func (s GameState) IsOver() bool {
	return s.Winner != nil
}

// ActivePlayer returns the seat whose turn it is.
func (s GameState) ActivePlayer() models.Player {
	return s.Players[s.ActivePlayerIndex]
}

// SlotOf resolves a player identity to its seat index.
func (s GameState) SlotOf(id uuid.UUID) (int, error) {
	for i, p := range s.Players {
		if p.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
}

// CardCount is the number of cards across deck, discard pile and both hands.
func (s GameState) CardCount() int {
	n := len(s.Deck) + len(s.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand)
	}
	return n
}

// IsPlayable reports whether card may be played on the current discard top.
func (s GameState) IsPlayable(card models.Card) bool {
	if card.IsWild() {
		return true
	}
	if card.Color == s.ActiveColor {
		return true
	}
	top, ok := s.Top()
	return ok && card.Value == top.Value
}

// PlayableCards returns the cards in the given seat's hand that may be played now.
func (s GameState) PlayableCards(slot int) []models.Card {
	var out []models.Card
	for _, c := range s.Players[slot].Hand {
		if s.IsPlayable(c) {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the snapshot invariants. It is used on received snapshots
// and in tests.
func (s GameState) Validate() error {
	if n := s.CardCount(); n != deck.Size {
		return fmt.Errorf("card count is %d, want %d", n, deck.Size)
	}
	if len(s.DiscardPile) == 0 {
		return ErrNotInitialized
	}
	if s.ActivePlayerIndex < 0 || s.ActivePlayerIndex >= NumPlayers {
		return fmt.Errorf("active player index %d out of range", s.ActivePlayerIndex)
	}
	if !s.ActiveColor.IsPlayColor() {
		return fmt.Errorf("active color %q is not a play color", s.ActiveColor)
	}
	if top, _ := s.Top(); !top.IsWild() && top.Color != s.ActiveColor {
		return fmt.Errorf("active color %s does not match top card %s", s.ActiveColor, top)
	}
	if s.Players[0].ID == s.Players[1].ID {
		return fmt.Errorf("both seats hold player %s", s.Players[0].ID)
	}
	return nil
}

// nextIndex is the seat after from in the current direction.
func (s GameState) nextIndex(from int) int {
	if s.IsReversed {
		return (from - 1 + NumPlayers) % NumPlayers
	}
	return (from + 1) % NumPlayers
}

func (s *GameState) logf(format string, args ...interface{}) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}
