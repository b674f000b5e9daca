// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/auth"
)

// AuthCookie is the cookie that carries the session token.
const AuthCookie = "auth_token"

var errMissingToken = errors.New("missing auth token")

// extractToken reads the token from the auth cookie or a Bearer header.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(AuthCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// authenticate verifies the request's token.
func authenticate(r *http.Request) (auth.Claims, error) {
	token := extractToken(r)
	if token == "" {
		return auth.Claims{}, errMissingToken
	}
	return auth.AuthenticateJWT(token)
}

// requireAuth writes 401 and returns false when the request is not signed in.
func requireAuth(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid or missing auth token", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

func pathLobbyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid lobby id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes an optional JSON body into v. An empty body is fine.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}
