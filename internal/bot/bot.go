// internal/bot/bot.go

// Package bot is the single-player opponent.
package bot

import (
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
)

// ChooseMove picks the bot's move for the given seat. It prefers a matching
// colored card, then any matching card, and keeps wilds for last. Wilds take
// the color the bot holds most of. With nothing playable it draws.
// ok is false when it is not the seat's turn or the game is over.
func ChooseMove(s game.GameState, slot int) (game.Move, bool) {
	if s.IsOver() || slot != s.ActivePlayerIndex {
		return game.Move{}, false
	}
	me := s.Players[slot]

	playable := s.PlayableCards(slot)
	if len(playable) == 0 {
		return game.DrawCard(me.ID), true
	}

	best := playable[0]
	for _, c := range playable {
		if rank(c, s.ActiveColor) < rank(best, s.ActiveColor) {
			best = c
		}
	}

	var chosen models.Color
	if best.IsWild() {
		chosen = PickColor(me.Hand)
	}
	return game.PlayCard(me.ID, best.ID, chosen), true
}

// rank orders candidates: same color, then value matches, then plain wilds,
// then wild draw fours.
func rank(c models.Card, active models.Color) int {
	switch {
	case c.Color == active:
		return 0
	case !c.IsWild():
		return 1
	case c.Value == models.ValueWild:
		return 2
	}
	return 3
}

// PickColor returns the color the hand holds most of, ignoring wilds.
// Ties go to the earlier color in models.PlayColors; an all-wild hand picks red.
func PickColor(hand []models.Card) models.Color {
	counts := make(map[models.Color]int, len(models.PlayColors))
	for _, c := range hand {
		if !c.IsWild() {
			counts[c.Color]++
		}
	}
	best := models.PlayColors[0]
	for _, c := range models.PlayColors[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
