// internal/handlers/helpers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/auth"
	"github.com/jason-s-yu/arcade/internal/database"
	"github.com/jason-s-yu/arcade/internal/lobby"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/jason-s-yu/arcade/internal/replication"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeAccounts keeps accounts in memory with plain-text passwords.
type fakeAccounts struct {
	mu    sync.Mutex
	users map[string]models.User
}

func (f *fakeAccounts) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Username]; ok {
		return database.ErrUsernameTaken
	}
	u.ID = uuid.New()
	f.users[u.Username] = *u
	return nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok || u.Password != password {
		return nil, database.ErrInvalidCredentials
	}
	return &u, nil
}

func newTestServer(t *testing.T) (*Server, *replication.MemoryRelay) {
	t.Helper()
	require.NoError(t, auth.Init())
	logger, _ := test.NewNullLogger()
	relay := replication.NewMemoryRelay()
	t.Cleanup(func() { relay.Close() })
	return &Server{
		Lobbies:        lobby.NewService(lobby.NewLobbyStore(), lobby.NewMemoryClaims(), logger.WithField("test", t.Name())),
		Relay:          relay,
		Accounts:       &fakeAccounts{users: make(map[string]models.User)},
		Logger:         logger,
		AllowedOrigins: []string{"*"},
	}, relay
}

// guestToken signs a token for a fresh guest.
func guestToken(t *testing.T, name string) (models.Identity, string) {
	t.Helper()
	id := models.Identity{ID: uuid.New(), Name: name}
	token, err := auth.CreateJWT(id, true)
	require.NoError(t, err)
	return id, token
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
