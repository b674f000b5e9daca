// internal/transport/ws_test.go
package transport

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketURL(t *testing.T) {
	id := uuid.New()

	got, err := SocketURL("http://localhost:8080", id)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/lobby/ws/"+id.String(), got)

	got, err = SocketURL("https://arcade.example/api/", id)
	require.NoError(t, err)
	assert.Equal(t, "wss://arcade.example/api/lobby/ws/"+id.String(), got)

	got, err = SocketURL("ws://10.0.0.1:9000", id)
	require.NoError(t, err)
	assert.Equal(t, "ws://10.0.0.1:9000/lobby/ws/"+id.String(), got)
}

func TestPublishWithoutSocket(t *testing.T) {
	r := NewWSRelay("http://localhost:8080/", "token", nil)
	err := r.Publish(context.Background(), uuid.New(), []byte("{}"))
	assert.ErrorIs(t, err, ErrNotSubscribed)
}
