// internal/replication/host.go
package replication

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/sirupsen/logrus"
)

// HostController runs on the client that claimed the lobby at creation. It is
// the only place a game state is born, and it sends whole snapshots.
type HostController struct {
	local  models.Identity
	relay  Relay
	logger *logrus.Entry
	rand   *rand.Rand

	mu          sync.Mutex
	initialized map[uuid.UUID]bool
}

// NewHostController builds a controller for the local identity. relay may be
// nil for a purely local game.
func NewHostController(local models.Identity, relay Relay, logger *logrus.Entry) *HostController {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &HostController{
		local:       local,
		relay:       relay,
		logger:      logger,
		initialized: make(map[uuid.UUID]bool),
	}
}

// SetRand fixes the shuffle source, for tests and replays.
func (h *HostController) SetRand(r *rand.Rand) {
	h.rand = r
}

// InitializeGame deals the game for lobby. The caller must be the lobby's
// host and may do this once per lobby.
func (h *HostController) InitializeGame(lobby models.Lobby) (game.GameState, error) {
	if lobby.HostUserID != h.local.ID {
		return game.GameState{}, ErrNotHost
	}
	if !lobby.Full() {
		return game.GameState{}, ErrLobbyNotFull
	}
	rules, err := game.ParseRules(lobby.Rules, game.DefaultHouseRules())
	if err != nil {
		return game.GameState{}, fmt.Errorf("invalid house rules: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.initialized[lobby.ID] {
		return game.GameState{}, ErrAlreadyInitialized
	}

	hostName := lobby.HostName
	if hostName == "" {
		hostName = h.local.Name
	}
	s, err := game.NewGame(game.Setup{
		LobbyID: lobby.ID,
		Seats: [game.NumPlayers]game.Seat{
			{ID: lobby.HostUserID, Name: hostName},
			{ID: lobby.JoinerUserID, Name: lobby.JoinerName, Bot: lobby.JoinerIsBot},
		},
		Rules: rules,
		Rand:  h.rand,
	})
	if err != nil {
		return game.GameState{}, err
	}
	h.initialized[lobby.ID] = true

	h.logger.WithFields(logrus.Fields{
		"lobby":  lobby.ID,
		"game":   s.GameID,
		"joiner": lobby.JoinerUserID,
	}).Info("game initialized")
	return s, nil
}

// Broadcast sends one message to the lobby. It is fire-and-forget: no
// acknowledgement is awaited and nothing is retried.
func (h *HostController) Broadcast(ctx context.Context, lobbyID uuid.UUID, msg Message) error {
	return broadcast(ctx, h.relay, lobbyID, msg)
}

func broadcast(ctx context.Context, relay Relay, lobbyID uuid.UUID, msg Message) error {
	if relay == nil {
		return nil
	}
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := relay.Publish(ctx, lobbyID, data); err != nil {
		return fmt.Errorf("failed to publish %s to lobby %s: %w", msg.Kind, lobbyID, err)
	}
	return nil
}
