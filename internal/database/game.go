// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/arcade/internal/models"
)

// GameEndAction marks the action that decides a game.
const GameEndAction = "game_end"

// HistorySink persists batches of game actions for the historian.
type HistorySink struct{}

// InsertGameActions writes a batch in one transaction. Each action's game
// row is created on first sight; a game_end action completes it. Replayed
// actions are ignored.
func (HistorySink) InsertGameActions(ctx context.Context, actions []models.GameAction) error {
	if len(actions) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, a := range actions {
			payload, err := json.Marshal(a.ActionPayload)
			if err != nil {
				return fmt.Errorf("action %d of game %s: %w", a.ActionIndex, a.GameID, err)
			}
			batch.Queue(`
				INSERT INTO games (id, status, start_time)
				VALUES ($1, 'in_progress', NOW())
				ON CONFLICT (id) DO NOTHING
			`, a.GameID)
			batch.Queue(`
				INSERT INTO game_actions (game_id, action_index, actor_user_id, action_type, action_payload, recorded_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT DO NOTHING
			`, a.GameID, a.ActionIndex, a.ActorUserID, a.ActionType, payload, time.UnixMilli(a.Timestamp))
			if a.ActionType == GameEndAction {
				batch.Queue(`
					UPDATE games
					SET status = 'completed', end_time = NOW()
					WHERE id = $1 AND status = 'in_progress'
				`, a.GameID)
			}
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("failed to insert %d game actions: %w", len(actions), err)
	}
	return nil
}

// MarkGameAbandoned closes a game that is still in progress. It reports
// whether a row changed.
func (HistorySink) MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	tag, err := DB.Exec(ctx, `
		UPDATE games
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to mark game %s abandoned: %w", gameID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GameStatus returns a game's status, for tests and tooling.
func GameStatus(ctx context.Context, gameID uuid.UUID) (string, error) {
	var status string
	err := DB.QueryRow(ctx, `SELECT status FROM games WHERE id = $1`, gameID).Scan(&status)
	return status, err
}
