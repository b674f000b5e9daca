// internal/lobby/claims.go
package lobby

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Seat names one of the two places at a table.
type Seat string

const (
	SeatHost   Seat = "host"
	SeatJoiner Seat = "joiner"
)

// SeatClaimer hands out seats first come, first served. Claim is an atomic
// compare-and-set: it takes the seat only if nobody holds it, and always
// reports who holds it afterwards.
type SeatClaimer interface {
	Claim(ctx context.Context, lobbyID uuid.UUID, seat Seat, userID uuid.UUID) (holder uuid.UUID, err error)
	Holder(ctx context.Context, lobbyID uuid.UUID, seat Seat) (uuid.UUID, error)
	Release(ctx context.Context, lobbyID uuid.UUID) error
}

type claimKey struct {
	lobby uuid.UUID
	seat  Seat
}

// MemoryClaims is a single-process SeatClaimer.
type MemoryClaims struct {
	mu     sync.Mutex
	claims map[claimKey]uuid.UUID
}

var _ SeatClaimer = (*MemoryClaims)(nil)

func NewMemoryClaims() *MemoryClaims {
	return &MemoryClaims{claims: make(map[claimKey]uuid.UUID)}
}

func (m *MemoryClaims) Claim(_ context.Context, lobbyID uuid.UUID, seat Seat, userID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := claimKey{lobbyID, seat}
	if holder, ok := m.claims[k]; ok {
		return holder, nil
	}
	m.claims[k] = userID
	return userID, nil
}

func (m *MemoryClaims) Holder(_ context.Context, lobbyID uuid.UUID, seat Seat) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims[claimKey{lobbyID, seat}], nil
}

func (m *MemoryClaims) Release(_ context.Context, lobbyID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, claimKey{lobbyID, SeatHost})
	delete(m.claims, claimKey{lobbyID, SeatJoiner})
	return nil
}
