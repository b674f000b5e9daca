// internal/deck/deck.go

// Package deck builds and shuffles the 108-card deck.
package deck

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/models"
)

// Size is the number of cards in a full deck.
const Size = 108

// BuildFullDeck returns the fixed 108-card multiset in a stable order: for each
// color one 0, two of each 1-9, two Skip, two Reverse and two Draw Two,
// followed by four Wild and four Wild Draw Four.
func BuildFullDeck() []models.Card {
	cards := make([]models.Card, 0, Size)
	add := func(c models.Color, v models.Value) {
		cards = append(cards, models.Card{ID: uuid.New(), Color: c, Value: v})
	}

	for _, color := range models.PlayColors {
		add(color, models.Value0)
		for _, v := range models.NumberValues[1:] {
			add(color, v)
			add(color, v)
		}
		for _, v := range []models.Value{models.ValueSkip, models.ValueReverse, models.ValueDrawTwo} {
			add(color, v)
			add(color, v)
		}
	}
	for i := 0; i < 4; i++ {
		add(models.ColorWild, models.ValueWild)
	}
	for i := 0; i < 4; i++ {
		add(models.ColorWild, models.ValueDrawFour)
	}
	return cards
}

// Shuffle returns a uniformly random permutation of cards using Fisher-Yates.
// The input is left untouched. A nil r uses the package-level source.
func Shuffle(cards []models.Card, r *rand.Rand) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)

	intn := rand.Intn
	if r != nil {
		intn = r.Intn
	}
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ReshuffleFromDiscard takes every card but the top of the discard pile and
// shuffles them into a new draw deck. It returns the new deck and the discard
// pile that remains (just the top card). With one card or fewer there is
// nothing to reshuffle and the deck comes back empty.
func ReshuffleFromDiscard(discard []models.Card, r *rand.Rand) (newDeck, remaining []models.Card) {
	if len(discard) <= 1 {
		remaining = make([]models.Card, len(discard))
		copy(remaining, discard)
		return nil, remaining
	}
	top := discard[len(discard)-1]
	newDeck = Shuffle(discard[:len(discard)-1], r)
	return newDeck, []models.Card{top}
}
