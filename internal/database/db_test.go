// internal/database/db_test.go
package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/config"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/jason-s-yu/arcade/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connect points DB at the configured Postgres and skips when it is not
// reachable.
func connect(t *testing.T) {
	t.Helper()
	if DB == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := ConnectDB(ctx, config.Load().Postgres); err != nil {
			t.Skipf("postgres not reachable: %v", err)
		}
	}
	require.NoError(t, EnsureSchema(context.Background()))
}

func newUser(t *testing.T, password string) *models.User {
	t.Helper()
	u := &models.User{Username: "user-" + uuid.NewString()[:8], Password: password}
	require.NoError(t, CreateUser(context.Background(), u))
	return u
}

func TestUsers(t *testing.T) {
	connect(t)
	ctx := context.Background()

	u := newUser(t, "secret")
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.NotEqual(t, "secret", u.Password)
	assert.Equal(t, 1500, u.Elo1v1)

	byID, err := GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, byID.Username)

	got, err := AuthenticateUser(ctx, u.Username, "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = AuthenticateUser(ctx, u.Username, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = AuthenticateUser(ctx, "nobody-"+uuid.NewString(), "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	dup := &models.User{Username: u.Username, Password: "x"}
	assert.ErrorIs(t, CreateUser(ctx, dup), ErrUsernameTaken)

	_, err = GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecordResultRatesRegisteredPlayers(t *testing.T) {
	connect(t)
	ctx := context.Background()
	w, l := newUser(t, "a"), newUser(t, "b")

	require.NoError(t, StatsSink{}.RecordResult(ctx, w.ID, w.Username, l.ID, l.Username))

	winner, err := GetUserByID(ctx, w.ID)
	require.NoError(t, err)
	loser, err := GetUserByID(ctx, l.ID)
	require.NoError(t, err)

	expW, expL := rating.Update1v1(*w, *l)
	assert.Equal(t, expW.Elo1v1, winner.Elo1v1)
	assert.Equal(t, expL.Elo1v1, loser.Elo1v1)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 1, loser.Losses)
}

func TestRecordResultAgainstGuest(t *testing.T) {
	connect(t)
	ctx := context.Background()
	u := newUser(t, "a")

	require.NoError(t, StatsSink{}.RecordResult(ctx, uuid.New(), "Bot", u.ID, u.Username))
	got, err := GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500, got.Elo1v1, "unrated opponent")
	assert.Equal(t, 1, got.Losses)
}

func TestGameHistory(t *testing.T) {
	connect(t)
	ctx := context.Background()
	sink := HistorySink{}
	finished, idle := uuid.New(), uuid.New()
	actor := uuid.New()
	now := time.Now().UnixMilli()

	require.NoError(t, sink.InsertGameActions(ctx, []models.GameAction{
		{GameID: finished, ActionIndex: 1, ActorUserID: actor, ActionType: "play_card", Timestamp: now},
		{GameID: idle, ActionIndex: 1, ActorUserID: actor, ActionType: "draw_card", Timestamp: now},
		{GameID: finished, ActionIndex: 1, ActorUserID: actor, ActionType: GameEndAction, Timestamp: now},
	}))
	status, err := GameStatus(ctx, finished)
	require.NoError(t, err)
	assert.Equal(t, "completed", status)

	changed, err := sink.MarkGameAbandoned(ctx, finished)
	require.NoError(t, err)
	assert.False(t, changed, "completed games stay completed")

	changed, err = sink.MarkGameAbandoned(ctx, idle)
	require.NoError(t, err)
	assert.True(t, changed)
	status, err = GameStatus(ctx, idle)
	require.NoError(t, err)
	assert.Equal(t, "abandoned", status)
}
