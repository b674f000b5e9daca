// internal/cache/claims.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/lobby"
	"github.com/redis/go-redis/v9"
)

// SeatClaims records who holds each seat of a lobby with SET NX, so two
// clients racing for the same seat cannot both win.
type SeatClaims struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ lobby.SeatClaimer = (*SeatClaims)(nil)

// NewSeatClaims stores claims under "<prefix>:lobby:<id>:<seat>" that expire
// after ttl.
func NewSeatClaims(client *redis.Client, prefix string, ttl time.Duration) *SeatClaims {
	return &SeatClaims{client: client, prefix: prefix, ttl: ttl}
}

func (c *SeatClaims) key(lobbyID uuid.UUID, seat lobby.Seat) string {
	return lobbyKey(c.prefix, lobbyID.String(), string(seat))
}

// Claim takes seat for userID if it is free and returns the holder either way.
func (c *SeatClaims) Claim(ctx context.Context, lobbyID uuid.UUID, seat lobby.Seat, userID uuid.UUID) (uuid.UUID, error) {
	key := c.key(lobbyID, seat)
	ok, err := c.client.SetNX(ctx, key, userID.String(), c.ttl).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	if ok {
		return userID, nil
	}
	return c.Holder(ctx, lobbyID, seat)
}

// Holder returns who holds seat, or uuid.Nil when nobody does.
func (c *SeatClaims) Holder(ctx context.Context, lobbyID uuid.UUID, seat lobby.Seat) (uuid.UUID, error) {
	key := c.key(lobbyID, seat)
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt claim %s: %w", key, err)
	}
	return id, nil
}

// Release frees both seats of a lobby.
func (c *SeatClaims) Release(ctx context.Context, lobbyID uuid.UUID) error {
	return c.client.Del(ctx, c.key(lobbyID, lobby.SeatHost), c.key(lobbyID, lobby.SeatJoiner)).Err()
}
