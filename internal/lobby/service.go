// internal/lobby/service.go

// Package lobby creates two-seat tables. The host seat is claimed atomically
// when the lobby is created, so exactly one client ever holds host authority
// for a lobby.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrLobbyNotFound = errors.New("lobby not found")
	ErrLobbyFull     = errors.New("lobby is full")
	ErrHostTaken     = errors.New("lobby host already claimed")
	ErrNotHost       = errors.New("only the host may do that")
	ErrInvalidRules  = errors.New("invalid house rules")
)

// BotName is the display name of the computer opponent.
const BotName = "Bot"

// Service owns lobby creation and seating.
type Service struct {
	store  *LobbyStore
	claims SeatClaimer
	logger *logrus.Entry
}

// NewService builds a service over claims. A nil logger uses the standard one.
func NewService(store *LobbyStore, claims SeatClaimer, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{store: store, claims: claims, logger: logger}
}

// CreateOptions are the creator's choices for a new lobby.
type CreateOptions struct {
	Rules map[string]interface{}
	// VersusBot seats the computer opponent immediately.
	VersusBot bool
}

// Create opens a lobby with host as its creator. The host seat is claimed
// before the lobby is visible to anyone.
func (s *Service) Create(ctx context.Context, host models.Identity, opts CreateOptions) (models.Lobby, error) {
	if _, err := game.ParseRules(opts.Rules, game.DefaultHouseRules()); err != nil {
		return models.Lobby{}, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	l := models.Lobby{
		ID:         uuid.New(),
		HostUserID: host.ID,
		HostName:   host.Name,
		Rules:      opts.Rules,
		CreatedAt:  time.Now(),
	}
	holder, err := s.claims.Claim(ctx, l.ID, SeatHost, host.ID)
	if err != nil {
		return models.Lobby{}, err
	}
	if holder != host.ID {
		return models.Lobby{}, ErrHostTaken
	}

	if opts.VersusBot {
		botID := uuid.New()
		if _, err := s.claims.Claim(ctx, l.ID, SeatJoiner, botID); err != nil {
			return models.Lobby{}, err
		}
		l.JoinerUserID = botID
		l.JoinerName = BotName
		l.JoinerIsBot = true
	}
	s.store.AddLobby(l)

	s.logger.WithFields(logrus.Fields{
		"lobby": l.ID,
		"host":  host.ID,
		"bot":   opts.VersusBot,
	}).Info("lobby created")
	return l, nil
}

// Join seats who as the second player. Joining a lobby you already sit in
// returns it unchanged; any other identity is refused once both seats are
// taken.
func (s *Service) Join(ctx context.Context, lobbyID uuid.UUID, who models.Identity) (models.Lobby, error) {
	l, ok := s.store.GetLobby(lobbyID)
	if !ok {
		return models.Lobby{}, ErrLobbyNotFound
	}
	if l.HostUserID == who.ID || l.JoinerUserID == who.ID {
		return l, nil
	}

	holder, err := s.claims.Claim(ctx, lobbyID, SeatJoiner, who.ID)
	if err != nil {
		return models.Lobby{}, err
	}
	if holder != who.ID {
		return models.Lobby{}, ErrLobbyFull
	}

	l, err = s.store.UpdateLobby(lobbyID, func(l *models.Lobby) error {
		l.JoinerUserID = who.ID
		l.JoinerName = who.Name
		return nil
	})
	if err != nil {
		return models.Lobby{}, err
	}
	s.logger.WithFields(logrus.Fields{"lobby": lobbyID, "joiner": who.ID}).Info("lobby joined")
	return l, nil
}

// SetOnline records whether the joiner's relay socket is open. The host
// waits for it before dealing, so the first snapshot is not published into
// an empty channel. Calls for anyone but the joiner are ignored.
func (s *Service) SetOnline(lobbyID, userID uuid.UUID, online bool) {
	_, err := s.store.UpdateLobby(lobbyID, func(l *models.Lobby) error {
		if l.JoinerUserID == userID && !l.JoinerIsBot {
			l.JoinerOnline = online
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrLobbyNotFound) {
		s.logger.WithField("lobby", lobbyID).Warnf("failed to update presence: %v", err)
	}
}

// Get returns a lobby's record.
func (s *Service) Get(lobbyID uuid.UUID) (models.Lobby, error) {
	l, ok := s.store.GetLobby(lobbyID)
	if !ok {
		return models.Lobby{}, ErrLobbyNotFound
	}
	return l, nil
}

// List returns every open lobby.
func (s *Service) List() []models.Lobby {
	return s.store.GetLobbies()
}

// Close removes a lobby and frees its seats. Only the host may close it.
func (s *Service) Close(ctx context.Context, lobbyID uuid.UUID, who uuid.UUID) error {
	l, ok := s.store.GetLobby(lobbyID)
	if !ok {
		return ErrLobbyNotFound
	}
	if l.HostUserID != who {
		return ErrNotHost
	}
	s.store.DeleteLobby(lobbyID)
	if err := s.claims.Release(ctx, lobbyID); err != nil {
		s.logger.WithField("lobby", lobbyID).Warnf("failed to release seats: %v", err)
	}
	s.logger.WithField("lobby", lobbyID).Info("lobby closed")
	return nil
}
