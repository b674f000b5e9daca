// internal/handlers/lobby.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/jason-s-yu/arcade/internal/lobby"
)

type createLobbyRequest struct {
	Rules     map[string]interface{} `json:"rules"`
	VersusBot bool                   `json:"versusBot"`
}

// CreateLobbyHandler opens a lobby with the caller as host.
func (s *Server) CreateLobbyHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r)
	if !ok {
		return
	}
	var req createLobbyRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "bad lobby request payload", http.StatusBadRequest)
		return
	}

	l, err := s.Lobbies.Create(r.Context(), claims.Identity, lobby.CreateOptions{
		Rules:     req.Rules,
		VersusBot: req.VersusBot,
	})
	if err != nil {
		s.lobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// JoinLobbyHandler takes the lobby's second seat.
func (s *Server) JoinLobbyHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r)
	if !ok {
		return
	}
	id, ok := pathLobbyID(w, r)
	if !ok {
		return
	}
	l, err := s.Lobbies.Join(r.Context(), id, claims.Identity)
	if err != nil {
		s.lobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// GetLobbyHandler returns one lobby. Hosts poll it to see when a joiner has
// arrived.
func (s *Server) GetLobbyHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(w, r); !ok {
		return
	}
	id, ok := pathLobbyID(w, r)
	if !ok {
		return
	}
	l, err := s.Lobbies.Get(id)
	if err != nil {
		s.lobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// ListLobbiesHandler returns every open lobby.
func (s *Server) ListLobbiesHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Lobbies.List())
}

// CloseLobbyHandler lets the host take a lobby down.
func (s *Server) CloseLobbyHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r)
	if !ok {
		return
	}
	id, ok := pathLobbyID(w, r)
	if !ok {
		return
	}
	if err := s.Lobbies.Close(r.Context(), id, claims.ID); err != nil {
		s.lobbyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lobbyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lobby.ErrLobbyNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, lobby.ErrLobbyFull), errors.Is(err, lobby.ErrHostTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, lobby.ErrInvalidRules):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, lobby.ErrNotHost):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		s.Logger.WithError(err).Error("lobby request failed")
		http.Error(w, "lobby request failed", http.StatusInternalServerError)
	}
}
