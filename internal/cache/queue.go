// internal/cache/queue.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/redis/go-redis/v9"
)

// ActionQueue is the Redis list between game clients and the historian.
type ActionQueue struct {
	client *redis.Client
	name   string
}

// NewActionQueue uses the list called name.
func NewActionQueue(client *redis.Client, name string) *ActionQueue {
	return &ActionQueue{client: client, name: name}
}

// Name is the list key.
func (q *ActionQueue) Name() string {
	return q.name
}

// LogAction serializes the action to JSON and pushes it to the queue. It does
// not block beyond the network send.
func (q *ActionQueue) LogAction(ctx context.Context, action models.GameAction) error {
	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal GameAction: %w", err)
	}
	if err := q.client.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// Pop waits up to timeout for the next action. ok is false when the wait
// timed out. A record that does not decode is dropped and reported.
func (q *ActionQueue) Pop(ctx context.Context, timeout time.Duration) (action models.GameAction, ok bool, err error) {
	res, err := q.client.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return models.GameAction{}, false, nil
	}
	if err != nil {
		return models.GameAction{}, false, err
	}
	// res[0] is the list name and res[1] the payload.
	if len(res) < 2 {
		return models.GameAction{}, false, nil
	}
	if err := json.Unmarshal([]byte(res[1]), &action); err != nil {
		return models.GameAction{}, false, fmt.Errorf("invalid action record: %w", err)
	}
	return action, true, nil
}
