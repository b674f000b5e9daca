// internal/handlers/api_server.go

// Package handlers is the HTTP surface: identities, lobbies and the relay
// socket.
package handlers

import (
	"net/http"

	"github.com/jason-s-yu/arcade/internal/lobby"
	"github.com/jason-s-yu/arcade/internal/middleware"
	"github.com/jason-s-yu/arcade/internal/replication"
	"github.com/sirupsen/logrus"
)

// Server holds what the handlers need.
type Server struct {
	Lobbies        *lobby.Service
	Relay          replication.Relay
	Accounts       Accounts
	Logger         *logrus.Logger
	AllowedOrigins []string
}

// Routes registers every endpoint, each wrapped in request logging. The
// whole mux recovers from panics and answers CORS preflights.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.LogMiddleware(s.Logger)(h))
	}

	// identity
	handle("POST /auth/guest", s.GuestHandler)
	handle("GET /auth/me", s.MeHandler)
	if s.Accounts != nil {
		handle("POST /user/create", s.CreateUserHandler)
		handle("POST /user/login", s.LoginHandler)
	}

	// lobbies
	handle("POST /lobby/create", s.CreateLobbyHandler)
	handle("GET /lobby/list", s.ListLobbiesHandler)
	handle("GET /lobby/{id}", s.GetLobbyHandler)
	handle("DELETE /lobby/{id}", s.CloseLobbyHandler)
	handle("POST /lobby/join/{id}", s.JoinLobbyHandler)
	handle("GET /lobby/ws/{id}", s.RelayWSHandler)

	handle("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return middleware.CORS(s.AllowedOrigins)(middleware.Recover(s.Logger)(mux))
}
