// internal/replication/relay.go
package replication

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Relay is the publish/subscribe channel keyed by lobby. Delivery is
// at-least-once and in order per sender; nothing is assumed across senders.
type Relay interface {
	Publish(ctx context.Context, lobbyID uuid.UUID, payload []byte) error
	Subscribe(ctx context.Context, lobbyID uuid.UUID, handler func(payload []byte)) (Subscription, error)
}

// Subscription is torn down when the player leaves the lobby.
type Subscription interface {
	Close() error
}

// MemoryRelay is an in-process Relay. Each subscription has its own
// delivery goroutine, so handlers may publish without deadlocking and see
// messages in publish order. Every subscriber, the sender included, receives
// every message.
type MemoryRelay struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[*memorySub]struct{}
	closed bool
}

var _ Relay = (*MemoryRelay)(nil)

// NewMemoryRelay returns an empty relay.
func NewMemoryRelay() *MemoryRelay {
	return &MemoryRelay{subs: make(map[uuid.UUID]map[*memorySub]struct{})}
}

type memorySub struct {
	relay   *MemoryRelay
	lobbyID uuid.UUID

	mu      sync.Mutex
	cond    *sync.Cond
	queue   [][]byte
	done    bool
	handler func([]byte)
	once    sync.Once
}

// Publish enqueues payload for every subscriber of the lobby.
func (r *MemoryRelay) Publish(ctx context.Context, lobbyID uuid.UUID, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRelayClosed
	}
	targets := make([]*memorySub, 0, len(r.subs[lobbyID]))
	for sub := range r.subs[lobbyID] {
		targets = append(targets, sub)
	}
	r.mu.Unlock()

	data := append([]byte(nil), payload...)
	for _, sub := range targets {
		sub.enqueue(data)
	}
	return nil
}

// Subscribe registers handler for the lobby until the subscription is closed.
func (r *MemoryRelay) Subscribe(_ context.Context, lobbyID uuid.UUID, handler func([]byte)) (Subscription, error) {
	sub := &memorySub{relay: r, lobbyID: lobbyID, handler: handler}
	sub.cond = sync.NewCond(&sub.mu)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRelayClosed
	}
	if r.subs[lobbyID] == nil {
		r.subs[lobbyID] = make(map[*memorySub]struct{})
	}
	r.subs[lobbyID][sub] = struct{}{}
	r.mu.Unlock()

	go sub.run()
	return sub, nil
}

// Subscribers counts the live subscriptions of a lobby.
func (r *MemoryRelay) Subscribers(lobbyID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[lobbyID])
}

// Close stops every subscription.
func (r *MemoryRelay) Close() error {
	r.mu.Lock()
	r.closed = true
	var all []*memorySub
	for _, subs := range r.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	r.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
	return nil
}

func (s *memorySub) enqueue(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.queue = append(s.queue, data)
	s.cond.Signal()
}

func (s *memorySub) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.done {
			s.cond.Wait()
		}
		if s.done {
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.handler(next)
	}
}

// Close unsubscribes. Messages still queued are dropped.
func (s *memorySub) Close() error {
	s.once.Do(func() {
		s.relay.mu.Lock()
		delete(s.relay.subs[s.lobbyID], s)
		if len(s.relay.subs[s.lobbyID]) == 0 {
			delete(s.relay.subs, s.lobbyID)
		}
		s.relay.mu.Unlock()

		s.mu.Lock()
		s.done = true
		s.queue = nil
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	return nil
}
