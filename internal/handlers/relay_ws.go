// internal/handlers/relay_ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/middleware"
	"github.com/jason-s-yu/arcade/internal/replication"
	"github.com/jason-s-yu/arcade/internal/transport"
)

// outboundBuffer is how many relayed messages may wait for a slow socket.
const outboundBuffer = 64

// RelayWSHandler bridges a seated player's socket to the lobby's relay
// channel. Frames from the socket are published unchanged; everything
// published on the channel, including the caller's own frames, is written
// back. The server never looks inside the frames.
//
// The relay subscription is opened before the upgrade completes, so a client
// whose dial has returned cannot miss a message published afterwards.
func (s *Server) RelayWSHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathLobbyID(w, r)
	if !ok {
		return
	}
	logger := s.Logger.WithField("lobby", id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	who, code, reason := s.admit(r, id)
	var sub replication.Subscription
	out := make(chan []byte, outboundBuffer)
	if code == 0 {
		var err error
		sub, err = s.Relay.Subscribe(ctx, id, func(payload []byte) {
			select {
			case out <- payload:
			default:
				logger.Warn("relay socket backlog full, dropping message")
			}
		})
		if err != nil {
			logger.Errorf("relay subscribe failed: %v", err)
			http.Error(w, "relay unavailable", http.StatusServiceUnavailable)
			return
		}
		defer sub.Close()
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{transport.Subprotocol},
		OriginPatterns: s.AllowedOrigins,
	})
	if err != nil {
		logger.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	if c.Subprotocol() != transport.Subprotocol {
		c.Close(BadSubprotocolError, "client must speak the "+transport.Subprotocol+" subprotocol")
		return
	}
	if code != 0 {
		c.Close(code, reason)
		return
	}
	c.SetReadLimit(transport.MaxFrameBytes)
	logger = logger.WithField("user", who)
	middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
	s.Lobbies.SetOnline(id, who, true)
	defer s.Lobbies.SetOnline(id, who, false)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case payload := <-out:
				if err := c.Write(ctx, websocket.MessageText, payload); err != nil {
					logger.Debugf("relay write failed: %v", err)
					cancel()
					return
				}
			}
		}
	}()

	err = s.pump(ctx, c, id)
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
		err = nil
	}
	middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
	c.Close(websocket.StatusNormalClosure, "")
}

// admit decides whether the request may use the lobby's socket. A zero code
// means yes.
func (s *Server) admit(r *http.Request, lobbyID uuid.UUID) (uuid.UUID, websocket.StatusCode, string) {
	claims, err := authenticate(r)
	if err != nil {
		return uuid.Nil, InvalidAuthTokenError, "authentication failed"
	}
	l, err := s.Lobbies.Get(lobbyID)
	if err != nil {
		return uuid.Nil, InvalidLobbyIDError, "lobby does not exist"
	}
	if l.HostUserID != claims.ID && l.JoinerUserID != claims.ID {
		return uuid.Nil, NotSeatedError, "not seated in this lobby"
	}
	return claims.ID, 0, ""
}

// pump publishes every text frame read from c until the socket closes.
func (s *Server) pump(ctx context.Context, c *websocket.Conn, lobbyID uuid.UUID) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		if err := s.Relay.Publish(ctx, lobbyID, data); err != nil {
			return err
		}
	}
}
