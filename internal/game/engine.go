// internal/game/engine.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/arcade/internal/deck"
	"github.com/jason-s-yu/arcade/internal/models"
)

// ApplyMove validates m against s and returns the next state together with a
// one-line description of what happened. A rejected move returns s unchanged
// and an error wrapping one of the package sentinels. s itself is never
// modified.
func ApplyMove(s GameState, m Move) (GameState, string, error) {
	if s.IsOver() {
		return s, "", ErrGameOver
	}
	if len(s.DiscardPile) == 0 {
		return s, "", ErrNotInitialized
	}
	slot, err := s.SlotOf(m.PlayerID)
	if err != nil {
		return s, "", err
	}

	switch m.Kind {
	case MoveCallOut:
		return callOut(s, slot)
	case MovePlayCard:
		if slot != s.ActivePlayerIndex {
			return s, "", ErrNotYourTurn
		}
		return playCard(s, slot, m)
	case MoveDrawCard:
		if slot != s.ActivePlayerIndex {
			return s, "", ErrNotYourTurn
		}
		return drawCard(s, slot)
	default:
		return s, "", fmt.Errorf("%w: %q", ErrUnknownMove, m.Kind)
	}
}

func playCard(s GameState, slot int, m Move) (GameState, string, error) {
	idx := s.Players[slot].CardIndex(m.CardID)
	if idx < 0 {
		return s, "", ErrCardNotInHand
	}
	card := s.Players[slot].Hand[idx]
	if !s.IsPlayable(card) {
		top, _ := s.Top()
		return s, "", fmt.Errorf("%w: %s on %s (active %s)", ErrIllegalPlay, card, top, s.ActiveColor.Label())
	}
	if card.IsWild() && !m.ChosenColor.IsPlayColor() {
		return s, "", ErrColorRequired
	}

	next := s.Clone()
	next.resolvePendingCalls()

	actor := &next.Players[slot]
	// The penalty draw may have appended to the hand but never reorders it.
	actor.Hand = append(actor.Hand[:idx], actor.Hand[idx+1:]...)
	next.DiscardPile = append(next.DiscardPile, card)
	if card.IsWild() {
		next.ActiveColor = m.ChosenColor
	} else {
		next.ActiveColor = card.Color
	}

	desc := fmt.Sprintf("%s played %s", actor.Name, card)
	if card.IsWild() {
		desc = fmt.Sprintf("%s played %s and chose %s", actor.Name, card, m.ChosenColor.Label())
	}
	next.logf("%s", desc)
	next.Version++

	if len(actor.Hand) == 0 {
		w := actor.ID
		next.Winner = &w
		next.logf("%s wins!", actor.Name)
		return next, desc, nil
	}

	if len(actor.Hand) == 1 && !actor.HasCalled {
		if actor.Bot {
			actor.HasCalled = true
			next.logf("%s calls %s!", actor.Name, CallKeyword)
		} else {
			actor.MustCall = true
		}
	}

	opp := next.nextIndex(slot)
	nextPlayer := opp
	oppName := next.Players[opp].Name
	switch card.Value {
	case models.ValueSkip:
		nextPlayer = next.nextIndex(opp)
		next.logf("%s is skipped", oppName)
	case models.ValueReverse:
		next.IsReversed = !next.IsReversed
		// With two seats a reverse hands the turn straight back, like a skip.
		nextPlayer = next.nextIndex(opp)
		next.logf("Direction reversed, %s is skipped", oppName)
	case models.ValueDrawTwo:
		n := next.drawInto(opp, 2)
		nextPlayer = next.nextIndex(opp)
		next.logf("%s drew %d cards and is skipped", oppName, n)
	case models.ValueDrawFour:
		n := next.drawInto(opp, 4)
		nextPlayer = next.nextIndex(opp)
		next.logf("%s drew %d cards and is skipped", oppName, n)
	}
	next.ActivePlayerIndex = nextPlayer
	return next, desc, nil
}

func drawCard(s GameState, slot int) (GameState, string, error) {
	next := s.Clone()
	next.resolvePendingCalls()
	next.Version++

	name := next.Players[slot].Name
	if next.drawInto(slot, 1) == 0 {
		desc := fmt.Sprintf("%s could not draw, no cards left", name)
		next.logf("%s", desc)
		return next, desc, nil
	}

	desc := fmt.Sprintf("%s drew a card", name)
	next.logf("%s", desc)
	next.ActivePlayerIndex = next.nextIndex(slot)
	return next, desc, nil
}

func callOut(s GameState, slot int) (GameState, string, error) {
	p := s.Players[slot]
	preemptive := slot == s.ActivePlayerIndex && len(p.Hand) == 2 && !p.HasCalled
	if !p.MustCall && !preemptive {
		return s, "", ErrNothingToCall
	}

	next := s.Clone()
	actor := &next.Players[slot]
	actor.MustCall = false
	actor.HasCalled = true
	desc := fmt.Sprintf("%s calls %s!", actor.Name, CallKeyword)
	next.logf("%s", desc)
	next.Version++
	return next, desc, nil
}

// resolvePendingCalls charges the penalty to every seat still owing a call.
// It runs at the start of each play or draw, so a call must land before the
// next move is applied.
func (s *GameState) resolvePendingCalls() {
	for i := range s.Players {
		if !s.Players[i].MustCall {
			continue
		}
		n := s.drawInto(i, s.Rules.PenaltyDrawCount)
		s.Players[i].MustCall = false
		s.logf("%s did not call %s and drew %d cards", s.Players[i].Name, CallKeyword, n)
	}
}

// drawInto moves up to n cards from the deck into the seat's hand,
// reshuffling the discard pile when the deck runs out. It returns how many
// cards were actually drawn.
func (s *GameState) drawInto(slot, n int) int {
	drawn := 0
	for ; drawn < n; drawn++ {
		if len(s.Deck) == 0 {
			s.Deck, s.DiscardPile = deck.ReshuffleFromDiscard(s.DiscardPile, nil)
			if len(s.Deck) == 0 {
				s.logf("Draw pile is empty")
				break
			}
			s.logf("Reshuffled %d cards from the discard pile", len(s.Deck))
		}
		card := s.Deck[len(s.Deck)-1]
		s.Deck = s.Deck[:len(s.Deck)-1]
		s.Players[slot].Hand = append(s.Players[slot].Hand, card)
	}
	if drawn > 0 && len(s.Players[slot].Hand) > 1 {
		s.Players[slot].HasCalled = false
		s.Players[slot].MustCall = false
	}
	return drawn
}
