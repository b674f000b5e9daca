// internal/cache/redis_test.go
package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/lobby"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient connects to REDIS_ADDR and skips the test when nothing answers.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func testPrefix() string {
	return "test-" + uuid.NewString()
}

func TestRedisRelayFanOut(t *testing.T) {
	client := testClient(t)
	relay := NewRedisRelay(client, testPrefix(), nil)
	ctx := context.Background()
	lobbyID := uuid.New()

	var mu sync.Mutex
	var got []string
	sub, err := relay.Subscribe(ctx, lobbyID, func(b []byte) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, string(b))
	})
	require.NoError(t, err)

	other, err := relay.Subscribe(ctx, uuid.New(), func([]byte) {
		assert.Fail(t, "message leaked into another lobby")
	})
	require.NoError(t, err)
	defer other.Close()

	for _, p := range []string{"one", "two", "three"} {
		require.NoError(t, relay.Publish(ctx, lobbyID, []byte(p)))
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"one", "two", "three"}, got)

	require.NoError(t, sub.Close())
	require.NoError(t, relay.Publish(ctx, lobbyID, []byte("late")))
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Len(t, got, 3)
	mu.Unlock()
}

func TestSeatClaimsFirstWins(t *testing.T) {
	client := testClient(t)
	claims := NewSeatClaims(client, testPrefix(), time.Minute)
	ctx := context.Background()
	lobbyID := uuid.New()
	defer claims.Release(ctx, lobbyID)

	const racers = 8
	ids := make([]uuid.UUID, racers)
	holders := make([]uuid.UUID, racers)
	var wg sync.WaitGroup
	for i := range ids {
		ids[i] = uuid.New()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := claims.Claim(ctx, lobbyID, lobby.SeatHost, ids[i])
			assert.NoError(t, err)
			holders[i] = h
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := range ids {
		assert.Equal(t, holders[0], holders[i], "everyone sees the same host")
		if holders[i] == ids[i] {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	holder, err := claims.Holder(ctx, lobbyID, lobby.SeatJoiner)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, holder)

	require.NoError(t, claims.Release(ctx, lobbyID))
	holder, err = claims.Holder(ctx, lobbyID, lobby.SeatHost)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, holder)
}

func TestActionQueue(t *testing.T) {
	client := testClient(t)
	q := NewActionQueue(client, testPrefix()+":actions")
	ctx := context.Background()
	defer client.Del(ctx, q.Name())

	_, ok, err := q.Pop(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok, "empty queue times out")

	action := models.GameAction{
		GameID:        uuid.New(),
		ActionIndex:   3,
		ActorUserID:   uuid.New(),
		ActionType:    "play_card",
		ActionPayload: map[string]interface{}{"description": "Alice played 7 Red"},
		Timestamp:     time.Now().UnixMilli(),
	}
	require.NoError(t, q.LogAction(ctx, action))

	got, ok, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, action, got)

	require.NoError(t, client.RPush(ctx, q.Name(), "garbage").Err())
	_, ok, err = q.Pop(ctx, time.Second)
	assert.Error(t, err)
	assert.False(t, ok)
}
