// cmd/play/api.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/models"
)

// apiClient talks to the lobby server's HTTP endpoints.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

type session struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Guest bool      `json:"guest"`
	Token string    `json:"token"`
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// login signs in as a registered user when username is set, else as a guest.
func (c *apiClient) login(ctx context.Context, name, username, password string) (models.Identity, error) {
	var s session
	var err error
	if username != "" {
		err = c.do(ctx, http.MethodPost, "/user/login", map[string]string{"username": username, "password": password}, &s)
	} else {
		err = c.do(ctx, http.MethodPost, "/auth/guest", map[string]string{"name": name}, &s)
	}
	if err != nil {
		return models.Identity{}, err
	}
	c.token = s.Token
	return models.Identity{ID: s.ID, Name: s.Name}, nil
}

func (c *apiClient) createLobby(ctx context.Context, rules map[string]interface{}) (models.Lobby, error) {
	var l models.Lobby
	err := c.do(ctx, http.MethodPost, "/lobby/create", map[string]interface{}{"rules": rules}, &l)
	return l, err
}

func (c *apiClient) joinLobby(ctx context.Context, id uuid.UUID) (models.Lobby, error) {
	var l models.Lobby
	err := c.do(ctx, http.MethodPost, "/lobby/join/"+id.String(), nil, &l)
	return l, err
}

func (c *apiClient) getLobby(ctx context.Context, id uuid.UUID) (models.Lobby, error) {
	var l models.Lobby
	err := c.do(ctx, http.MethodGet, "/lobby/"+id.String(), nil, &l)
	return l, err
}

// waitForJoiner polls until the second seat is taken and its relay socket is
// open, so the init snapshot is not lost.
func (c *apiClient) waitForJoiner(ctx context.Context, id uuid.UUID, every time.Duration) (models.Lobby, error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		l, err := c.getLobby(ctx, id)
		if err != nil {
			return models.Lobby{}, err
		}
		if l.Full() && l.JoinerOnline {
			return l, nil
		}
		select {
		case <-ctx.Done():
			return models.Lobby{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
