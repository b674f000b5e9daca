// internal/replication/session.go
package replication

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/bot"
	"github.com/jason-s-yu/arcade/internal/game"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/jason-s-yu/arcade/internal/notifier"
	"github.com/sirupsen/logrus"
)

// StatsSink receives the outcome of a finished game exactly once.
type StatsSink interface {
	RecordResult(ctx context.Context, winnerID uuid.UUID, winnerName string, loserID uuid.UUID, loserName string) error
}

// ActionLog receives every transition this client wrote.
type ActionLog interface {
	LogAction(ctx context.Context, action models.GameAction) error
}

// ActionGameEnd is the action type logged when a game is decided.
const ActionGameEnd = "game_end"

// botMoveLimit bounds how many bot moves one trigger may chain.
const botMoveLimit = 64

// flushTimeout bounds the side effects of one inbound message.
const flushTimeout = 5 * time.Second

// Session is one client's side of a lobby. Local moves are only written
// while this client owns the turn; every written transition is broadcast as
// a whole snapshot, and every received snapshot replaces local state.
type Session struct {
	lobbyID    uuid.UUID
	local      models.Identity
	relay      Relay
	host       *HostController
	reconciler *PeerReconciler
	notifier   *notifier.Notifier
	stats      StatsSink
	actions    ActionLog
	logger     *logrus.Entry
	onChange   func(View)

	mu         sync.Mutex
	sub        Subscription
	drivesBots bool
	recorded   map[uuid.UUID]bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNotifier replaces the default notifier.
func WithNotifier(n *notifier.Notifier) SessionOption {
	return func(s *Session) { s.notifier = n }
}

// WithStatsSink sets where finished games are reported.
func WithStatsSink(sink StatsSink) SessionOption {
	return func(s *Session) { s.stats = sink }
}

// WithActionLog sets where transitions are logged for the historian.
func WithActionLog(log ActionLog) SessionOption {
	return func(s *Session) { s.actions = log }
}

// WithLogger sets the session logger.
func WithLogger(logger *logrus.Entry) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithStateListener is called with the local view after every adopted
// snapshot. It runs outside the session lock.
func WithStateListener(fn func(View)) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession builds a session for local in lobbyID. relay may be nil for a
// game against the bot.
func NewSession(lobbyID uuid.UUID, local models.Identity, relay Relay, opts ...SessionOption) *Session {
	s := &Session{
		lobbyID:  lobbyID,
		local:    local,
		relay:    relay,
		recorded: make(map[uuid.UUID]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	s.logger = s.logger.WithFields(logrus.Fields{"lobby": lobbyID, "player": local.ID})
	if s.notifier == nil {
		s.notifier = notifier.New()
	}
	s.host = NewHostController(local, relay, s.logger)
	s.reconciler = NewPeerReconciler(local.ID)
	return s
}

// Host exposes the session's host controller.
func (s *Session) Host() *HostController {
	return s.host
}

// Notifier exposes the session's notifier.
func (s *Session) Notifier() *notifier.Notifier {
	return s.notifier
}

// View returns the current local view.
func (s *Session) View() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Current()
}

// Join subscribes to the lobby channel. The subscription lives until Leave.
func (s *Session) Join(ctx context.Context) error {
	if s.relay == nil {
		return nil
	}
	sub, err := s.relay.Subscribe(ctx, s.lobbyID, s.handlePayload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	s.logger.Debug("joined lobby channel")
	return nil
}

// Leave unsubscribes and discards the local game. The peer is not told.
func (s *Session) Leave() error {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.reconciler.Reset()
	s.mu.Unlock()

	s.notifier.Clear()
	if sub != nil {
		return sub.Close()
	}
	return nil
}

// Start initializes the game as host and broadcasts the init snapshot. If
// the joiner seat is a bot, this session drives it from now on.
func (s *Session) Start(ctx context.Context, lobby models.Lobby) (View, error) {
	st, err := s.host.InitializeGame(lobby)
	if err != nil {
		return View{}, err
	}

	var out outbox
	s.mu.Lock()
	s.drivesBots = true
	view, err := s.adopt(&out, nil, st)
	if err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	out.messages = append(out.messages, InitMessage(s.local.ID, st))
	s.runBots(&out, false)
	if v, ok := s.reconciler.Current(); ok {
		view = v
	}
	s.mu.Unlock()

	s.flush(ctx, out)
	return view, nil
}

// Play plays a card from the local hand.
func (s *Session) Play(ctx context.Context, cardID uuid.UUID, chosen models.Color) error {
	return s.Submit(ctx, game.PlayCard(s.local.ID, cardID, chosen))
}

// Draw draws a card for the local player.
func (s *Session) Draw(ctx context.Context) error {
	return s.Submit(ctx, game.DrawCard(s.local.ID))
}

// Call declares the local player's last card.
func (s *Session) Call(ctx context.Context) error {
	return s.Submit(ctx, game.CallOut(s.local.ID))
}

// Submit runs a local move through the rule engine. A rejected move changes
// nothing and raises a transient notification. Against the bot, any move
// other than a call first lets a bot that is waiting on our call take its
// turn, which charges the missed call.
func (s *Session) Submit(ctx context.Context, m game.Move) error {
	m.PlayerID = s.local.ID

	var out outbox
	s.mu.Lock()
	if m.Kind != game.MoveCallOut {
		s.runBots(&out, true)
	}
	err := s.submit(&out, m)
	if err == nil {
		s.runBots(&out, false)
	}
	s.mu.Unlock()

	if err != nil && !errors.Is(err, ErrNoGame) {
		s.notifier.Push(notifier.RejectedEvent(err))
		s.logger.WithFields(logrus.Fields{"move": m.Kind}).Debugf("move rejected: %v", err)
	}
	s.flush(ctx, out)
	return err
}

// submit applies one local move. mu must be held.
func (s *Session) submit(out *outbox, m game.Move) error {
	view, ok := s.reconciler.Current()
	if !ok {
		return ErrNoGame
	}
	next, desc, err := game.ApplyMove(view.State, m)
	if err != nil {
		return err
	}

	// The turn owner writes transitions; against the bot this session owns
	// the bot's turns as well.
	authoritative := view.IsMyTurn() || (s.drivesBots && view.State.ActivePlayer().Bot)
	if m.Kind == game.MoveCallOut {
		out.messages = append(out.messages, CallMessage(s.lobbyID, s.local.ID, s.local.ID, s.local.Name))
	}
	// A call made out of turn stays local; the turn owner records it.
	_, err = s.commit(out, view.State, next, m, desc, authoritative)
	return err
}

// outbox collects the side effects of a transition so they can run after the
// lock is released.
type outbox struct {
	messages []Message
	actions  []models.GameAction
	views    []View
	result   *game.GameState
}

// adopt must be called with mu held.
func (s *Session) adopt(out *outbox, prev *game.GameState, next game.GameState) (View, error) {
	view, err := s.reconciler.Apply(next)
	if err != nil {
		return View{}, err
	}
	s.notifier.Observe(prev, view.State, s.local.ID)
	out.views = append(out.views, view)
	return view, nil
}

// commit adopts a locally written transition and queues its broadcast,
// action record and, for a winning move, the game result. mu must be held.
func (s *Session) commit(out *outbox, prev, next game.GameState, m game.Move, desc string, publish bool) (View, error) {
	view, err := s.adopt(out, &prev, next)
	if err != nil {
		return View{}, err
	}
	if !publish {
		return view, nil
	}
	out.messages = append(out.messages, UpdateMessage(s.local.ID, next, desc))
	out.actions = append(out.actions, models.GameAction{
		GameID:      next.GameID,
		ActionIndex: next.Version,
		ActorUserID: m.PlayerID,
		ActionType:  string(m.Kind),
		ActionPayload: map[string]interface{}{
			"cardId":      m.CardID,
			"chosenColor": m.ChosenColor,
			"description": desc,
		},
		Timestamp: time.Now().UnixMilli(),
	})

	if next.IsOver() && !prev.IsOver() {
		winner := *next.Winner
		out.messages = append(out.messages, GameEndMessage(s.lobbyID, s.local.ID, winner))
		out.actions = append(out.actions, models.GameAction{
			GameID:        next.GameID,
			ActionIndex:   next.Version,
			ActorUserID:   winner,
			ActionType:    ActionGameEnd,
			ActionPayload: map[string]interface{}{"winner": winner},
			Timestamp:     time.Now().UnixMilli(),
		})
		if !s.recorded[next.GameID] {
			s.recorded[next.GameID] = true
			final := next
			out.result = &final
		}
	}
	return view, nil
}

// runBots plays every bot turn that is due. Only the session that created
// the game drives bots. Bots wait while a human seat owes a call, since
// their next move would charge it; force plays through. mu must be held.
func (s *Session) runBots(out *outbox, force bool) {
	if !s.drivesBots {
		return
	}
	for i := 0; i < botMoveLimit; i++ {
		view, ok := s.reconciler.Current()
		if !ok || view.State.IsOver() {
			return
		}
		if !force && humanOwesCall(view.State) {
			return
		}
		slot := view.State.ActivePlayerIndex
		if !view.State.Players[slot].Bot {
			return
		}
		m, ok := bot.ChooseMove(view.State, slot)
		if !ok {
			return
		}
		next, desc, err := game.ApplyMove(view.State, m)
		if err != nil {
			s.logger.WithError(err).Error("bot produced an illegal move")
			return
		}
		if _, err := s.commit(out, view.State, next, m, desc, true); err != nil {
			s.logger.WithError(err).Error("failed to adopt bot move")
			return
		}
		if m.Kind == game.MoveDrawCard && next.ActivePlayerIndex == slot {
			// Nothing left to draw; the game stalls here.
			return
		}
	}
}

func humanOwesCall(st game.GameState) bool {
	for _, p := range st.Players {
		if !p.Bot && p.MustCall {
			return true
		}
	}
	return false
}

// flush publishes queued messages in order and runs the other side effects.
func (s *Session) flush(ctx context.Context, out outbox) {
	for _, msg := range out.messages {
		if err := broadcast(ctx, s.relay, s.lobbyID, msg); err != nil {
			s.logger.WithFields(logrus.Fields{"kind": msg.Kind}).Warnf("broadcast failed: %v", err)
		}
	}
	if s.onChange != nil {
		for _, v := range out.views {
			s.onChange(v)
		}
	}
	if s.actions != nil {
		for _, a := range out.actions {
			if err := s.actions.LogAction(ctx, a); err != nil {
				s.logger.WithFields(logrus.Fields{"action": a.ActionType}).Warnf("failed to log action: %v", err)
			}
		}
	}
	if out.result != nil && s.stats != nil {
		s.recordResult(ctx, *out.result)
	}
}

func (s *Session) recordResult(ctx context.Context, final game.GameState) {
	winnerSlot, err := final.SlotOf(*final.Winner)
	if err != nil {
		s.logger.WithError(err).Error("winner is not seated")
		return
	}
	winner := final.Players[winnerSlot]
	loser := final.Players[1-winnerSlot]
	if err := s.stats.RecordResult(ctx, winner.ID, winner.Name, loser.ID, loser.Name); err != nil {
		s.logger.WithFields(logrus.Fields{"game": final.GameID}).Warnf("failed to record result: %v", err)
		return
	}
	s.logger.WithFields(logrus.Fields{"game": final.GameID, "winner": winner.ID}).Info("game result recorded")
}

// handlePayload is the relay callback. Echoes of our own messages, other
// lobbies' traffic and anything undecodable are ignored.
func (s *Session) handlePayload(payload []byte) {
	msg, err := Decode(payload)
	if err != nil {
		s.logger.Debugf("ignoring message: %v", err)
		return
	}
	if msg.SenderID == s.local.ID || msg.LobbyID != s.lobbyID {
		return
	}

	var out outbox
	s.mu.Lock()
	switch msg.Kind {
	case KindInit, KindUpdate:
		var prev *game.GameState
		if v, ok := s.reconciler.Current(); ok {
			st := v.State
			prev = &st
		}
		if _, err := s.adopt(&out, prev, *msg.Snapshot); err != nil {
			s.logger.WithFields(logrus.Fields{"kind": msg.Kind}).Warnf("snapshot rejected: %v", err)
		}

	case KindCall:
		s.notifier.Push(notifier.CallEvent(*msg.ActorID, msg.ActorName))
		if v, ok := s.reconciler.Current(); ok && v.IsMyTurn() {
			m := game.CallOut(*msg.ActorID)
			if next, desc, err := game.ApplyMove(v.State, m); err == nil {
				if _, err := s.commit(&out, v.State, next, m, desc, true); err != nil {
					s.logger.WithError(err).Warn("failed to record remote call")
				}
			}
		}

	case KindGameEnd:
		if v, ok := s.reconciler.Current(); !ok || !v.State.IsOver() {
			name := msg.Winner.String()
			if ok {
				if slot, err := v.State.SlotOf(*msg.Winner); err == nil {
					name = v.State.Players[slot].Name
				}
			}
			s.notifier.Push(notifier.WinnerEvent(*msg.Winner, name))
		}
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	s.flush(ctx, out)
}
