// internal/game/rules.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/arcade/internal/models"
)

// HouseRules are the per-lobby knobs of a game.
type HouseRules struct {
	HandSize         int          `json:"handSize"`         // cards dealt to each player
	PenaltyDrawCount int          `json:"penaltyDrawCount"` // cards drawn for a missed call-out
	DefaultWildColor models.Color `json:"defaultWildColor"` // active color when the starting card is a Wild
}

// DefaultHouseRules returns the standard rules: seven cards, two-card call-out penalty, red for a starting Wild.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		HandSize:         7,
		PenaltyDrawCount: 2,
		DefaultWildColor: models.ColorRed,
	}
}

// maxHandSize keeps both hands plus a starting card inside one deck.
const maxHandSize = 50

// Update applies the rules present in newRules. Absent keys keep their old value.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignInt := func(field *int, key string, minVal, maxVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var n int
		switch v := val.(type) {
		case float64: // JSON numbers decode as float64
			n = int(v)
		case int:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal || n > maxVal {
			return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
		}
		*field = n
		return nil
	}

	if err := assignInt(&rules.HandSize, "handSize", 1, maxHandSize); err != nil {
		return err
	}
	if err := assignInt(&rules.PenaltyDrawCount, "penaltyDrawCount", 0, 10); err != nil {
		return err
	}
	if val, exists := newRules["defaultWildColor"]; exists && val != nil {
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("invalid type for defaultWildColor")
		}
		c := models.Color(s)
		if !c.IsPlayColor() {
			return fmt.Errorf("defaultWildColor must be one of red, yellow, green, blue")
		}
		rules.DefaultWildColor = c
	}
	return nil
}

// ParseRules applies raw overrides on top of current and returns the result.
// current is left untouched.
func ParseRules(raw map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(raw)
	return houseRules, err
}
