// internal/replication/relay_test.go
package replication

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRelayOrderedFanOut(t *testing.T) {
	relay := NewMemoryRelay()
	defer relay.Close()
	ctx := context.Background()
	lobby := uuid.New()

	var mu sync.Mutex
	got := map[string][]string{}
	for _, name := range []string{"a", "b"} {
		name := name
		_, err := relay.Subscribe(ctx, lobby, func(p []byte) {
			mu.Lock()
			defer mu.Unlock()
			got[name] = append(got[name], string(p))
		})
		require.NoError(t, err)
	}
	_, err := relay.Subscribe(ctx, uuid.New(), func([]byte) { t.Error("other lobby must not receive") })
	require.NoError(t, err)

	var want []string
	for i := 0; i < 50; i++ {
		msg := fmt.Sprintf("m%d", i)
		want = append(want, msg)
		require.NoError(t, relay.Publish(ctx, lobby, []byte(msg)))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got["a"]) == 50 && len(got["b"]) == 50
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got["a"])
	assert.Equal(t, want, got["b"])
}

func TestMemoryRelayUnsubscribe(t *testing.T) {
	relay := NewMemoryRelay()
	ctx := context.Background()
	lobby := uuid.New()

	sub, err := relay.Subscribe(ctx, lobby, func([]byte) {})
	require.NoError(t, err)
	assert.Equal(t, 1, relay.Subscribers(lobby))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close(), "closing twice is harmless")
	assert.Equal(t, 0, relay.Subscribers(lobby))
	assert.NoError(t, relay.Publish(ctx, lobby, []byte("nobody")))

	require.NoError(t, relay.Close())
	assert.ErrorIs(t, relay.Publish(ctx, lobby, []byte("x")), ErrRelayClosed)
	_, err = relay.Subscribe(ctx, lobby, func([]byte) {})
	assert.ErrorIs(t, err, ErrRelayClosed)
}

func TestMemoryRelayHandlerMayPublish(t *testing.T) {
	relay := NewMemoryRelay()
	defer relay.Close()
	ctx := context.Background()
	lobby := uuid.New()

	done := make(chan struct{})
	_, err := relay.Subscribe(ctx, lobby, func(p []byte) {
		if string(p) == "ping" {
			assert.NoError(t, relay.Publish(ctx, lobby, []byte("pong")))
			return
		}
		close(done)
	})
	require.NoError(t, err)
	require.NoError(t, relay.Publish(ctx, lobby, []byte("ping")))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reply never arrived")
	}
}
