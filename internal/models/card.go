// internal/models/card.go
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Color is the native color of a card. Wild cards carry ColorWild; the color
// they take on once played lives in the game state as the active color.
type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorWild   Color = "wild"
)

// PlayColors are the four colors a wild card can be declared as.
var PlayColors = []Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// IsPlayColor reports whether c is one of the four suit colors.
func (c Color) IsPlayColor() bool {
	switch c {
	case ColorRed, ColorYellow, ColorGreen, ColorBlue:
		return true
	}
	return false
}

// Value is the face of a card: a digit or an action.
type Value string

const (
	Value0        Value = "0"
	Value1        Value = "1"
	Value2        Value = "2"
	Value3        Value = "3"
	Value4        Value = "4"
	Value5        Value = "5"
	Value6        Value = "6"
	Value7        Value = "7"
	Value8        Value = "8"
	Value9        Value = "9"
	ValueSkip     Value = "skip"
	ValueReverse  Value = "reverse"
	ValueDrawTwo  Value = "draw_two"
	ValueWild     Value = "wild"
	ValueDrawFour Value = "draw_four"
)

// NumberValues lists the digit faces in ascending order.
var NumberValues = []Value{Value0, Value1, Value2, Value3, Value4, Value5, Value6, Value7, Value8, Value9}

// Card is an immutable value. The ID tells apart the physical duplicates of
// the same face so that a move can reference exactly one of them.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Color Color     `json:"color"`
	Value Value     `json:"value"`
}

// IsWild reports whether the card is a Wild or a Wild Draw Four.
func (c Card) IsWild() bool {
	return c.Color == ColorWild
}

// IsAction reports whether the card is Skip, Reverse or Draw Two.
func (c Card) IsAction() bool {
	switch c.Value {
	case ValueSkip, ValueReverse, ValueDrawTwo:
		return true
	}
	return false
}

func (c Card) String() string {
	if c.IsWild() {
		if c.Value == ValueDrawFour {
			return "Wild Draw Four"
		}
		return "Wild"
	}
	return fmt.Sprintf("%s %s", c.Value.label(), c.Color.Label())
}

// Label is the capitalised color name used in log lines and notifications.
func (c Color) Label() string {
	switch c {
	case ColorRed:
		return "Red"
	case ColorYellow:
		return "Yellow"
	case ColorGreen:
		return "Green"
	case ColorBlue:
		return "Blue"
	case ColorWild:
		return "Wild"
	}
	return string(c)
}

func (v Value) label() string {
	switch v {
	case ValueSkip:
		return "Skip"
	case ValueReverse:
		return "Reverse"
	case ValueDrawTwo:
		return "Draw Two"
	case ValueWild:
		return "Wild"
	case ValueDrawFour:
		return "Draw Four"
	}
	return string(v)
}
