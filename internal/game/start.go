// internal/game/start.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/deck"
	"github.com/jason-s-yu/arcade/internal/models"
)

// Seat is the identity placed in one of the two player slots.
type Seat struct {
	ID   uuid.UUID
	Name string
	Bot  bool
}

// Setup describes a new game. Seats are ordered [creator, joiner].
type Setup struct {
	GameID  uuid.UUID
	LobbyID uuid.UUID
	Seats   [NumPlayers]Seat
	Rules   HouseRules

	// Rand drives every shuffle during setup. Nil uses the package-level source.
	Rand *rand.Rand

	// Deck, when set, is used as the draw pile as-is (top = last) instead of a
	// freshly shuffled full deck. It must hold all 108 cards.
	Deck []models.Card
}

// NewGame deals a fresh game: each seat receives Rules.HandSize cards, one
// card is flipped to start the discard pile, and its starting effect is
// applied before the first turn.
func NewGame(setup Setup) (GameState, error) {
	if setup.Seats[0].ID == uuid.Nil || setup.Seats[1].ID == uuid.Nil {
		return GameState{}, fmt.Errorf("%w: both seats need an identity", ErrInvalidSetup)
	}
	if setup.Seats[0].ID == setup.Seats[1].ID {
		return GameState{}, fmt.Errorf("%w: a player cannot take both seats", ErrInvalidSetup)
	}
	rules := setup.Rules
	if rules == (HouseRules{}) {
		rules = DefaultHouseRules()
	}
	if rules.HandSize < 1 || rules.HandSize > maxHandSize {
		return GameState{}, fmt.Errorf("%w: hand size %d", ErrInvalidSetup, rules.HandSize)
	}
	if !rules.DefaultWildColor.IsPlayColor() {
		return GameState{}, fmt.Errorf("%w: default wild color %q", ErrInvalidSetup, rules.DefaultWildColor)
	}

	cards := setup.Deck
	if cards == nil {
		cards = deck.Shuffle(deck.BuildFullDeck(), setup.Rand)
	} else if len(cards) != deck.Size {
		return GameState{}, fmt.Errorf("%w: stacked deck has %d cards", ErrInvalidSetup, len(cards))
	}

	gameID := setup.GameID
	if gameID == uuid.Nil {
		gameID = uuid.New()
	}
	s := GameState{
		GameID:  gameID,
		LobbyID: setup.LobbyID,
		Deck:    append([]models.Card(nil), cards...),
		Rules:   rules,
	}
	for i, seat := range setup.Seats {
		s.Players[i] = models.Player{ID: seat.ID, Name: seat.Name, Bot: seat.Bot}
	}

	for n := 0; n < rules.HandSize; n++ {
		for i := range s.Players {
			s.drawInto(i, 1)
		}
	}

	s.flipStartingCard(setup.Rand)
	s.applyStartingEffect()
	return s, nil
}

// flipStartingCard turns over the first discard. A Wild Draw Four may not
// start the game; it goes back into the deck and the deck is reshuffled until
// some other card comes up.
func (s *GameState) flipStartingCard(r *rand.Rand) {
	for {
		top := s.Deck[len(s.Deck)-1]
		s.Deck = s.Deck[:len(s.Deck)-1]
		if top.Value != models.ValueDrawFour {
			s.DiscardPile = []models.Card{top}
			return
		}
		s.Deck = deck.Shuffle(append(s.Deck, top), r)
		s.logf("%s cannot start the game, reshuffling", top)
	}
}

func (s *GameState) applyStartingEffect() {
	top, _ := s.Top()
	first := s.Players[0].Name
	s.ActivePlayerIndex = 0
	s.ActiveColor = top.Color
	s.logf("Starting card is %s", top)

	switch top.Value {
	case models.ValueSkip:
		s.ActivePlayerIndex = s.nextIndex(0)
		s.logf("%s is skipped", first)
	case models.ValueReverse:
		s.IsReversed = !s.IsReversed
		s.ActivePlayerIndex = s.nextIndex(0)
		s.logf("Direction reversed, %s is skipped", first)
	case models.ValueDrawTwo:
		n := s.drawInto(0, 2)
		s.ActivePlayerIndex = s.nextIndex(0)
		s.logf("%s drew %d cards and is skipped", first, n)
	case models.ValueWild:
		s.ActiveColor = s.Rules.DefaultWildColor
		s.logf("Color is %s", s.ActiveColor.Label())
	}
}
