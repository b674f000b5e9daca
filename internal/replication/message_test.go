// internal/replication/message_test.go
package replication

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSurvivesEncoding(t *testing.T) {
	host, joiner := identity("Alice"), identity("Bob")
	st := manualState(t, uuid.New(), host, joiner,
		[]face{{models.ColorRed, models.Value1}},
		[]face{{models.ColorBlue, models.Value2}},
		face{models.ColorRed, models.Value5}, 0)
	st.Log = []string{"Starting card is 5 Red"}

	data, err := Encode(UpdateMessage(host.ID, st, "Alice played 1 Red"))
	require.NoError(t, err)
	msg, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, KindUpdate, msg.Kind)
	assert.Equal(t, st.LobbyID, msg.LobbyID)
	assert.Equal(t, host.ID, msg.SenderID)
	assert.Equal(t, "Alice played 1 Red", msg.Move)
	require.NotNil(t, msg.Snapshot)
	assert.Equal(t, st, *msg.Snapshot)
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]struct {
		payload string
		want    error
	}{
		"not json":          {`{"kind":`, ErrMalformedMessage},
		"unknown kind":      {`{"kind":"chat","text":"hi"}`, ErrUnknownKind},
		"missing kind":      {`{}`, ErrUnknownKind},
		"update no state":   {`{"kind":"update"}`, ErrMalformedMessage},
		"call no actor":     {`{"kind":"call","actorName":"Bob"}`, ErrMalformedMessage},
		"gameEnd no winner": {`{"kind":"gameEnd"}`, ErrMalformedMessage},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(tc.payload))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCallAndGameEndMessages(t *testing.T) {
	lobby, sender, actor := uuid.New(), uuid.New(), uuid.New()

	data, err := Encode(CallMessage(lobby, sender, actor, "Bob"))
	require.NoError(t, err)
	msg, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, KindCall, msg.Kind)
	assert.Equal(t, actor, *msg.ActorID)
	assert.Equal(t, "Bob", msg.ActorName)
	assert.Nil(t, msg.Snapshot)

	data, err = Encode(GameEndMessage(lobby, sender, actor))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"gameEnd"`)
	msg, err = Decode(data)
	require.NoError(t, err)
	assert.Equal(t, actor, *msg.Winner)
}
