// internal/notifier/notifier.go

// Package notifier turns state transitions and call messages into short-lived
// UI events. Events are never part of the game state; they can be dropped or
// derived again from the same transition.
package notifier

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
)

// EventType is an enum-like type for UI events.
type EventType string

const (
	EventYourTurn     EventType = "your_turn"
	EventOpponentTurn EventType = "opponent_turn"
	EventDrewCards    EventType = "drew_cards"
	EventSkipped      EventType = "skipped"
	EventColorChanged EventType = "color_changed"
	EventCallOut      EventType = "call_out"
	EventWinner       EventType = "winner"
	EventRejected     EventType = "rejected"
)

// DefaultDisplayDuration is how long an event stays visible.
const DefaultDisplayDuration = 2500 * time.Millisecond

// Event is one transient notification.
type Event struct {
	Type     EventType    `json:"type"`
	Message  string       `json:"message"`
	PlayerID uuid.UUID    `json:"playerId,omitempty"`
	Count    int          `json:"count,omitempty"`
	Color    models.Color `json:"color,omitempty"`

	ExpiresAt time.Time `json:"expiresAt"`
}

// Derive lists the events implied by moving from prev to next, as seen by
// the player local. prev is nil for the first snapshot of a game.
func Derive(prev *game.GameState, next game.GameState, local uuid.UUID) []Event {
	var events []Event

	if prev != nil && prev.GameID == next.GameID {
		events = append(events, effectEvents(*prev, next)...)
	}

	if next.Winner != nil {
		if prev == nil || prev.Winner == nil {
			events = append(events, WinnerEvent(*next.Winner, nameOf(next, *next.Winner)))
		}
		return events
	}

	if prev == nil || prev.GameID != next.GameID || prev.ActivePlayerIndex != next.ActivePlayerIndex {
		events = append(events, turnEvent(next, local))
	}
	return events
}

func turnEvent(s game.GameState, local uuid.UUID) Event {
	active := s.ActivePlayer()
	if active.ID == local {
		return Event{Type: EventYourTurn, Message: "Your Turn", PlayerID: active.ID}
	}
	return Event{Type: EventOpponentTurn, Message: fmt.Sprintf("%s's Turn", active.Name), PlayerID: active.ID}
}

// effectEvents reports what a newly played card did, plus any multi-card draw.
func effectEvents(prev, next game.GameState) []Event {
	var events []Event

	for i := range next.Players {
		p := next.Players[i]
		if grew := len(p.Hand) - len(prev.Players[i].Hand); grew >= 2 {
			events = append(events, Event{
				Type:     EventDrewCards,
				Message:  fmt.Sprintf("%s drew %d cards", p.Name, grew),
				PlayerID: p.ID,
				Count:    grew,
			})
		}
	}

	prevTop, _ := prev.Top()
	top, ok := next.Top()
	if !ok || top.ID == prevTop.ID {
		return events
	}

	actor := prev.ActivePlayerIndex
	victim := next.Players[1-actor]
	switch top.Value {
	case models.ValueSkip, models.ValueReverse, models.ValueDrawTwo, models.ValueDrawFour:
		if next.Winner == nil {
			events = append(events, Event{
				Type:     EventSkipped,
				Message:  fmt.Sprintf("%s is skipped", victim.Name),
				PlayerID: victim.ID,
			})
		}
	}
	if top.IsWild() {
		events = append(events, Event{
			Type:    EventColorChanged,
			Message: fmt.Sprintf("Color changed to %s", next.ActiveColor.Label()),
			Color:   next.ActiveColor,
		})
	}
	return events
}

// CallEvent is raised when a call message arrives.
func CallEvent(actorID uuid.UUID, actorName string) Event {
	return Event{
		Type:     EventCallOut,
		Message:  fmt.Sprintf("%s calls %s!", actorName, game.CallKeyword),
		PlayerID: actorID,
	}
}

// WinnerEvent is the terminal notification.
func WinnerEvent(winnerID uuid.UUID, name string) Event {
	return Event{Type: EventWinner, Message: fmt.Sprintf("%s wins!", name), PlayerID: winnerID}
}

// RejectedEvent reports a move that was refused.
func RejectedEvent(err error) Event {
	return Event{Type: EventRejected, Message: err.Error()}
}

func nameOf(s game.GameState, id uuid.UUID) string {
	for _, p := range s.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id.String()
}

// Notifier keeps the currently visible events and hands each new one to an
// optional listener.
type Notifier struct {
	mu       sync.Mutex
	duration time.Duration
	now      func() time.Time
	events   []Event
	listener func(Event)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDisplayDuration overrides DefaultDisplayDuration.
func WithDisplayDuration(d time.Duration) Option {
	return func(n *Notifier) { n.duration = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithListener registers a callback invoked for every pushed event.
func WithListener(fn func(Event)) Option {
	return func(n *Notifier) { n.listener = fn }
}

// New builds a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{duration: DefaultDisplayDuration, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Observe derives and pushes the events of one transition.
func (n *Notifier) Observe(prev *game.GameState, next game.GameState, local uuid.UUID) []Event {
	events := Derive(prev, next, local)
	n.Push(events...)
	return events
}

// Push stamps each event with its expiry and stores it.
func (n *Notifier) Push(events ...Event) {
	n.mu.Lock()
	expires := n.now().Add(n.duration)
	stamped := make([]Event, len(events))
	for i, ev := range events {
		ev.ExpiresAt = expires
		stamped[i] = ev
	}
	n.events = append(n.prune(), stamped...)
	listener := n.listener
	n.mu.Unlock()

	if listener != nil {
		for _, ev := range stamped {
			listener(ev)
		}
	}
}

// Active returns the events that have not expired yet.
func (n *Notifier) Active() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = n.prune()
	return append([]Event(nil), n.events...)
}

// Clear drops every event, e.g. when leaving a lobby.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

// prune must be called with mu held.
func (n *Notifier) prune() []Event {
	now := n.now()
	kept := n.events[:0]
	for _, ev := range n.events {
		if now.Before(ev.ExpiresAt) {
			kept = append(kept, ev)
		}
	}
	return kept
}
