// cmd/play/render_test.go
package main

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/jason-s-yu/arcade/internal/replication"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand("p 2")
	require.NoError(t, err)
	assert.Equal(t, command{kind: cmdPlay, index: 2}, cmd)

	cmd, err = parseCommand("  P 0 g ")
	require.NoError(t, err)
	assert.Equal(t, command{kind: cmdPlay, index: 0, color: models.ColorGreen}, cmd)

	cmd, err = parseCommand("play 1 blue")
	require.NoError(t, err)
	assert.Equal(t, models.ColorBlue, cmd.color)

	for line, kind := range map[string]commandKind{"d": cmdDraw, "c": cmdCall, "uno": cmdCall, "q": cmdQuit, "?": cmdHelp} {
		cmd, err := parseCommand(line)
		require.NoError(t, err, line)
		assert.Equal(t, kind, cmd.kind, line)
	}

	for _, bad := range []string{"", "p", "p x", "p -1", "p 1 purple", "p 1 r extra", "jump"} {
		_, err := parseCommand(bad)
		assert.Error(t, err, bad)
	}
}

func TestRender(t *testing.T) {
	me, opp := uuid.New(), uuid.New()
	st := game.GameState{
		Players: [game.NumPlayers]models.Player{
			{ID: opp, Name: "Ada", Hand: []models.Card{{ID: uuid.New(), Color: models.ColorRed, Value: models.Value1}}, HasCalled: true},
			{ID: me, Name: "Bo", Hand: []models.Card{
				{ID: uuid.New(), Color: models.ColorBlue, Value: models.Value5},
				{ID: uuid.New(), Color: models.ColorGreen, Value: models.Value7},
			}},
		},
		DiscardPile:       []models.Card{{ID: uuid.New(), Color: models.ColorBlue, Value: models.Value3}},
		ActiveColor:       models.ColorBlue,
		ActivePlayerIndex: 1,
	}

	var buf bytes.Buffer
	scr := &screen{out: &buf}
	scr.render(replication.View{State: st, Self: 1})

	out := buf.String()
	assert.Contains(t, out, "Top: 3 Blue")
	assert.Contains(t, out, "Ada holds 1 card(s) and has called")
	assert.Contains(t, out, "*[0] 5 Blue")
	assert.Contains(t, out, " [1] 7 Green")
	assert.Contains(t, out, "Your move> ")

	buf.Reset()
	st.ActivePlayerIndex = 0
	st.Players[0].Bot = true
	st.Players[1].MustCall = true
	scr.render(replication.View{State: st, Self: 1})
	assert.Contains(t, buf.String(), "call it with c")
	assert.Contains(t, buf.String(), "Ada waits for your call")

	buf.Reset()
	st.Winner = &opp
	scr.render(replication.View{State: st, Self: 1})
	assert.Contains(t, buf.String(), "Ada won.")
}
