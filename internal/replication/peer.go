// internal/replication/peer.go
package replication

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
)

// View is a snapshot seen from one seat. Self is resolved from identity on
// every snapshot, never assumed from array position.
type View struct {
	State game.GameState
	Self  int
}

// Me is the local player's seat.
func (v View) Me() models.Player {
	return v.State.Players[v.Self]
}

// Opponent is the other seat.
func (v View) Opponent() models.Player {
	return v.State.Players[1-v.Self]
}

// IsMyTurn reports whether the local player owns the current turn.
func (v View) IsMyTurn() bool {
	return !v.State.IsOver() && v.State.ActivePlayerIndex == v.Self
}

// ResolveSlot maps an identity onto its seat in s.
func ResolveSlot(s game.GameState, local uuid.UUID) (int, error) {
	slot, err := s.SlotOf(local)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrNotSeated, err)
	}
	return slot, nil
}

// PeerReconciler holds a client's current snapshot. Every received snapshot
// replaces the previous one wholesale, so applying the same snapshot twice
// is the same as applying it once.
type PeerReconciler struct {
	local uuid.UUID
	view  *View
}

// NewPeerReconciler builds a reconciler for the local identity.
func NewPeerReconciler(local uuid.UUID) *PeerReconciler {
	return &PeerReconciler{local: local}
}

// Apply adopts snapshot as the local state and returns the local view. A
// snapshot that does not seat the local player or fails validation is
// rejected and the previous state is kept.
func (r *PeerReconciler) Apply(snapshot game.GameState) (View, error) {
	if err := snapshot.Validate(); err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	slot, err := ResolveSlot(snapshot, r.local)
	if err != nil {
		return View{}, err
	}
	v := View{State: snapshot.Clone(), Self: slot}
	r.view = &v
	return v, nil
}

// Current returns the adopted view, if any.
func (r *PeerReconciler) Current() (View, bool) {
	if r.view == nil {
		return View{}, false
	}
	return *r.view, true
}

// Reset discards the local state, e.g. when leaving the lobby.
func (r *PeerReconciler) Reset() {
	r.view = nil
}
