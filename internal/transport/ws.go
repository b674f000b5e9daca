// internal/transport/ws.go

// Package transport is the client side of the lobby relay socket served at
// /lobby/ws/{id}.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/replication"
	"github.com/sirupsen/logrus"
)

// Subprotocol is the websocket subprotocol spoken on the relay socket.
const Subprotocol = "arcade-relay"

// MaxFrameBytes bounds one relayed message in either direction. A full
// snapshot is well below it.
const MaxFrameBytes = 1 << 20

// ErrNotSubscribed is returned when publishing to a lobby with no open socket.
var ErrNotSubscribed = errors.New("no relay socket for lobby")

// WSRelay implements replication.Relay over one websocket per lobby. Frames
// are relayed verbatim; the server fans them out to every socket of the
// lobby, including the sender's.
type WSRelay struct {
	baseURL string
	token   string
	logger  *logrus.Entry

	mu    sync.Mutex
	conns map[uuid.UUID]*websocket.Conn
}

var _ replication.Relay = (*WSRelay)(nil)

// NewWSRelay dials sockets under baseURL ("http://host:port" or
// "ws://host:port") authenticated with token.
func NewWSRelay(baseURL, token string, logger *logrus.Entry) *WSRelay {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &WSRelay{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
		conns:   make(map[uuid.UUID]*websocket.Conn),
	}
}

// SocketURL is the relay socket address of a lobby.
func SocketURL(baseURL string, lobbyID uuid.UUID) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/lobby/ws/" + lobbyID.String()
	return u.String(), nil
}

// Subscribe opens the lobby's socket and hands every received frame to
// handler until the subscription is closed.
func (r *WSRelay) Subscribe(ctx context.Context, lobbyID uuid.UUID, handler func([]byte)) (replication.Subscription, error) {
	target, err := SocketURL(r.baseURL, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("bad relay url: %w", err)
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+r.token)
	c, _, err := websocket.Dial(ctx, target, &websocket.DialOptions{
		Subprotocols: []string{Subprotocol},
		HTTPHeader:   header,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", target, err)
	}
	c.SetReadLimit(MaxFrameBytes)

	r.mu.Lock()
	if old, ok := r.conns[lobbyID]; ok {
		old.Close(websocket.StatusNormalClosure, "replaced")
	}
	r.conns[lobbyID] = c
	r.mu.Unlock()

	sub := &wsSub{relay: r, lobbyID: lobbyID, conn: c, done: make(chan struct{})}
	go sub.readLoop(handler)
	return sub, nil
}

// Publish writes payload as one text frame on the lobby's socket.
func (r *WSRelay) Publish(ctx context.Context, lobbyID uuid.UUID, payload []byte) error {
	r.mu.Lock()
	c, ok := r.conns[lobbyID]
	r.mu.Unlock()
	if !ok {
		return ErrNotSubscribed
	}
	return c.Write(ctx, websocket.MessageText, payload)
}

type wsSub struct {
	relay   *WSRelay
	lobbyID uuid.UUID
	conn    *websocket.Conn
	done    chan struct{}
	once    sync.Once
}

func (s *wsSub) readLoop(handler func([]byte)) {
	defer close(s.done)
	for {
		typ, data, err := s.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				s.relay.logger.WithField("lobby", s.lobbyID).Debugf("relay socket closed: %v", err)
			}
			s.forget()
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		handler(data)
	}
}

func (s *wsSub) forget() {
	s.relay.mu.Lock()
	if s.relay.conns[s.lobbyID] == s.conn {
		delete(s.relay.conns, s.lobbyID)
	}
	s.relay.mu.Unlock()
}

// Close closes the socket and waits for the read loop to exit.
func (s *wsSub) Close() error {
	var err error
	s.once.Do(func() {
		s.forget()
		err = s.conn.Close(websocket.StatusNormalClosure, "leaving lobby")
		<-s.done
	})
	return err
}
