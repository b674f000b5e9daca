// internal/cache/relay.go
package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/replication"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRelay carries lobby messages over Redis pub/sub, one channel per
// lobby. Delivery is at most once and ordered per publisher connection.
type RedisRelay struct {
	client *redis.Client
	prefix string
	logger *logrus.Entry
}

var _ replication.Relay = (*RedisRelay)(nil)

// NewRedisRelay builds a relay on client with channels named
// "<prefix>:lobby:<id>".
func NewRedisRelay(client *redis.Client, prefix string, logger *logrus.Entry) *RedisRelay {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &RedisRelay{client: client, prefix: prefix, logger: logger}
}

// Channel is the pub/sub channel of a lobby.
func (r *RedisRelay) Channel(lobbyID uuid.UUID) string {
	return lobbyKey(r.prefix, lobbyID.String())
}

// Publish sends payload to every current subscriber of the lobby.
func (r *RedisRelay) Publish(ctx context.Context, lobbyID uuid.UUID, payload []byte) error {
	if err := r.client.Publish(ctx, r.Channel(lobbyID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.Channel(lobbyID), err)
	}
	return nil
}

// Subscribe delivers the lobby's messages to handler until the returned
// subscription is closed. It returns once Redis has confirmed the
// subscription, so nothing published afterwards is missed.
func (r *RedisRelay) Subscribe(ctx context.Context, lobbyID uuid.UUID, handler func([]byte)) (replication.Subscription, error) {
	ps := r.client.Subscribe(ctx, r.Channel(lobbyID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", r.Channel(lobbyID), err)
	}

	sub := &redisSub{ps: ps, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for msg := range ps.Channel() {
			handler([]byte(msg.Payload))
		}
		r.logger.WithField("lobby", lobbyID).Debug("relay subscription ended")
	}()
	return sub, nil
}

type redisSub struct {
	ps   *redis.PubSub
	done chan struct{}
}

// Close unsubscribes and waits for the delivery goroutine to finish.
func (s *redisSub) Close() error {
	err := s.ps.Close()
	<-s.done
	return err
}
