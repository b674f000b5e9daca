// internal/replication/peer_test.go
package replication

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveRemap(t *testing.T) {
	host, joiner := identity("Alice"), identity("Bob")
	st := manualState(t, uuid.New(), host, joiner,
		[]face{{models.ColorRed, models.Value1}, {models.ColorRed, models.Value2}},
		[]face{{models.ColorBlue, models.Value3}},
		face{models.ColorRed, models.Value5}, 1)

	hostView, err := NewPeerReconciler(host.ID).Apply(st)
	require.NoError(t, err)
	joinerView, err := NewPeerReconciler(joiner.ID).Apply(st)
	require.NoError(t, err)

	assert.Equal(t, 0, hostView.Self)
	assert.Equal(t, 1, joinerView.Self)
	assert.Len(t, hostView.Me().Hand, 2)
	assert.Len(t, joinerView.Me().Hand, 1)
	assert.Equal(t, joiner.ID, hostView.Opponent().ID)
	assert.Equal(t, host.ID, joinerView.Opponent().ID)
	assert.False(t, hostView.IsMyTurn())
	assert.True(t, joinerView.IsMyTurn())
}

func TestReconcilerIdempotent(t *testing.T) {
	host, joiner := identity("Alice"), identity("Bob")
	st := manualState(t, uuid.New(), host, joiner,
		[]face{{models.ColorRed, models.Value1}},
		[]face{{models.ColorBlue, models.Value3}},
		face{models.ColorRed, models.Value5}, 0)

	r := NewPeerReconciler(joiner.ID)
	once, err := r.Apply(st)
	require.NoError(t, err)
	twice, err := r.Apply(st)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	current, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, once, current)
}

func TestReconcilerReplacesWholesale(t *testing.T) {
	host, joiner := identity("Alice"), identity("Bob")
	lobby := uuid.New()
	first := manualState(t, lobby, host, joiner,
		[]face{{models.ColorRed, models.Value1}},
		[]face{{models.ColorBlue, models.Value3}},
		face{models.ColorRed, models.Value5}, 0)
	second := manualState(t, lobby, host, joiner,
		[]face{{models.ColorGreen, models.Value1}, {models.ColorGreen, models.Value2}},
		[]face{{models.ColorYellow, models.Value3}},
		face{models.ColorGreen, models.Value5}, 1)

	r := NewPeerReconciler(host.ID)
	_, err := r.Apply(first)
	require.NoError(t, err)
	v, err := r.Apply(second)
	require.NoError(t, err)
	assert.Equal(t, second, v.State)
}

func TestReconcilerRejects(t *testing.T) {
	host, joiner := identity("Alice"), identity("Bob")
	st := manualState(t, uuid.New(), host, joiner,
		[]face{{models.ColorRed, models.Value1}},
		[]face{{models.ColorBlue, models.Value3}},
		face{models.ColorRed, models.Value5}, 0)

	r := NewPeerReconciler(uuid.New())
	_, err := r.Apply(st)
	assert.ErrorIs(t, err, ErrNotSeated)
	_, ok := r.Current()
	assert.False(t, ok)

	r = NewPeerReconciler(host.ID)
	_, err = r.Apply(st)
	require.NoError(t, err)

	broken := st.Clone()
	broken.Deck = broken.Deck[1:]
	_, err = r.Apply(broken)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	current, _ := r.Current()
	assert.Equal(t, st, current.State, "previous state is kept")

	r.Reset()
	_, ok = r.Current()
	assert.False(t, ok)
}
