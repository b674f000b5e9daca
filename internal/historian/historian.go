// internal/historian/historian.go

// Package historian drains the action queue into Postgres in batches and
// marks games abandoned after a period of inactivity.
package historian

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/config"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GameEndAction is the action type that completes a game.
const GameEndAction = "game_end"

// popTimeout bounds each blocking read so cancellation is noticed.
const popTimeout = 3 * time.Second

// Source yields queued actions. ok is false when the wait timed out.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (action models.GameAction, ok bool, err error)
}

// Sink persists actions and game status.
type Sink interface {
	InsertGameActions(ctx context.Context, actions []models.GameAction) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error)
}

// Service is the historian loop.
type Service struct {
	source Source
	sink   Sink
	cfg    config.Historian
	logger *logrus.Entry
	now    func() time.Time

	mu           sync.Mutex
	batch        []models.GameAction
	lastActivity map[uuid.UUID]time.Time
}

// New builds a historian. A nil logger uses the standard one.
func New(source Source, sink Sink, cfg config.Historian, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	return &Service{
		source:       source,
		sink:         sink,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		batch:        make([]models.GameAction, 0, cfg.BatchSize),
		lastActivity: make(map[uuid.UUID]time.Time),
	}
}

// Run reads, flushes and sweeps until ctx is cancelled, then flushes what is
// left. It returns the first loop error other than cancellation.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(gctx) })
	g.Go(func() error { return s.tick(gctx, s.cfg.FlushInterval, s.flushQuietly) })
	g.Go(func() error {
		return s.tick(gctx, s.cfg.SweepInterval, func(ctx context.Context) { s.Sweep(ctx) })
	})

	s.logger.Info("historian started")
	err := g.Wait()

	final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.flushQuietly(final)
	s.logger.Info("historian stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Service) readLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, ok, err := s.source.Pop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warnf("pop failed: %v", err)
			continue
		}
		if ok {
			s.Add(ctx, action)
		}
	}
}

func (s *Service) tick(ctx context.Context, every time.Duration, fn func(context.Context)) error {
	if every <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// Add queues one action and flushes when the batch is full. A game_end
// action stops tracking the game for abandonment.
func (s *Service) Add(ctx context.Context, action models.GameAction) {
	s.mu.Lock()
	s.batch = append(s.batch, action)
	if action.ActionType == GameEndAction {
		delete(s.lastActivity, action.GameID)
	} else {
		s.lastActivity[action.GameID] = s.now()
	}
	full := len(s.batch) >= s.cfg.BatchSize
	s.mu.Unlock()

	if full {
		s.flushQuietly(ctx)
	}
}

// Pending is the number of actions waiting to be flushed.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batch)
}

// Flush writes the current batch. On failure the batch is put back, up to a
// bound, and retried on the next flush.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	if len(s.batch) == 0 {
		s.mu.Unlock()
		return nil
	}
	pending := s.batch
	s.batch = make([]models.GameAction, 0, s.cfg.BatchSize)
	s.mu.Unlock()

	if err := s.sink.InsertGameActions(ctx, pending); err != nil {
		s.requeue(pending)
		return err
	}
	s.logger.WithField("count", len(pending)).Debug("flushed actions")
	return nil
}

func (s *Service) requeue(failed []models.GameAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = append(failed, s.batch...)
	if limit := 10 * s.cfg.BatchSize; len(s.batch) > limit {
		dropped := len(s.batch) - limit
		s.batch = s.batch[dropped:]
		s.logger.WithField("dropped", dropped).Error("historian backlog full, dropping oldest actions")
	}
}

func (s *Service) flushQuietly(ctx context.Context) {
	if err := s.Flush(ctx); err != nil {
		s.logger.Errorf("flush failed: %v", err)
	}
}

// Sweep marks every game idle for longer than the inactivity timeout as
// abandoned and returns how many it marked.
func (s *Service) Sweep(ctx context.Context) int {
	now := s.now()
	var stale []uuid.UUID
	s.mu.Lock()
	for id, last := range s.lastActivity {
		if now.Sub(last) > s.cfg.InactivityTimeout {
			stale = append(stale, id)
			delete(s.lastActivity, id)
		}
	}
	s.mu.Unlock()

	// Pending actions must land before their game is closed.
	if len(stale) > 0 {
		s.flushQuietly(ctx)
	}

	marked := 0
	for _, id := range stale {
		changed, err := s.sink.MarkGameAbandoned(ctx, id)
		if err != nil {
			s.logger.WithField("game", id).Errorf("failed to mark abandoned: %v", err)
			continue
		}
		if changed {
			marked++
			s.logger.WithField("game", id).Info("marked game abandoned due to inactivity")
		}
	}
	return marked
}
