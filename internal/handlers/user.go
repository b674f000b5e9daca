// internal/handlers/user.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/auth"
	"github.com/jason-s-yu/arcade/internal/database"
	"github.com/jason-s-yu/arcade/internal/models"
)

// maxNameLength bounds display names and usernames.
const maxNameLength = 32

// Accounts is the account store behind /user/create and /user/login.
type Accounts interface {
	Create(ctx context.Context, user *models.User) error
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionResponse is returned by every endpoint that issues a token. The
// token is also set as the auth cookie.
type sessionResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Guest bool      `json:"guest"`
	Token string    `json:"token"`
}

func issueSession(w http.ResponseWriter, status int, id models.Identity, guest bool) {
	token, err := auth.CreateJWT(id, guest)
	if err != nil {
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}
	setAuthCookie(w, token)
	writeJSON(w, status, sessionResponse{ID: id.ID, Name: id.Name, Guest: guest, Token: token})
}

func cleanName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	return name, name != "" && len(name) <= maxNameLength
}

// GuestHandler issues a throwaway identity. Guests are never stored; their
// games are played but not rated.
func (s *Server) GuestHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	name, ok := cleanName(req.Name)
	if req.Name == "" {
		name, ok = "Guest", true
	}
	if !ok {
		http.Error(w, "invalid name", http.StatusBadRequest)
		return
	}
	issueSession(w, http.StatusOK, models.Identity{ID: uuid.New(), Name: name}, true)
}

// CreateUserHandler registers an account and signs it in.
func (s *Server) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	name, ok := cleanName(req.Username)
	if !ok || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user := models.User{Username: name, Password: req.Password}
	err := s.Accounts.Create(r.Context(), &user)
	if errors.Is(err, database.ErrUsernameTaken) {
		http.Error(w, "username already exists", http.StatusConflict)
		return
	}
	if err != nil {
		s.Logger.WithError(err).Error("failed to create user")
		http.Error(w, "error creating user", http.StatusInternalServerError)
		return
	}
	issueSession(w, http.StatusCreated, models.Identity{ID: user.ID, Name: user.Username}, false)
}

// LoginHandler checks credentials and returns a token, also set as the
// auth cookie.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := s.Accounts.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, database.ErrInvalidCredentials) {
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}
	if err != nil {
		s.Logger.WithError(err).Error("failed to authenticate user")
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}
	issueSession(w, http.StatusOK, models.Identity{ID: user.ID, Name: user.Username}, false)
}

// MeHandler echoes the caller's identity.
func (s *Server) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAuth(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: claims.ID, Name: claims.Name, Guest: claims.Guest})
}
