// internal/database/rating.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/jason-s-yu/arcade/internal/rating"
	"github.com/sirupsen/logrus"
)

// StatsSink records finished games. Registered players on both sides are
// rated; a guest or bot on either side leaves ratings untouched but still
// counts the registered player's win or loss.
type StatsSink struct{}

// RecordResult stores the outcome in one transaction.
func (StatsSink) RecordResult(ctx context.Context, winnerID uuid.UUID, winnerName string, loserID uuid.UUID, loserName string) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var matchID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO match_results (winner_id, winner_name, loser_id, loser_name)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, winnerID, winnerName, loserID, loserName).Scan(&matchID)
		if err != nil {
			return err
		}

		winner, err := lockUser(ctx, tx, winnerID)
		if err != nil {
			return err
		}
		loser, err := lockUser(ctx, tx, loserID)
		if err != nil {
			return err
		}

		switch {
		case winner != nil && loser != nil:
			newW, newL := rating.Update1v1(*winner, *loser)
			if err := saveRating(ctx, tx, matchID, *winner, newW); err != nil {
				return err
			}
			return saveRating(ctx, tx, matchID, *loser, newL)
		case winner != nil:
			_, err := tx.Exec(ctx, `UPDATE users SET wins = wins + 1 WHERE id = $1`, winnerID)
			return err
		case loser != nil:
			_, err := tx.Exec(ctx, `UPDATE users SET losses = losses + 1 WHERE id = $1`, loserID)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}
	logrus.WithFields(logrus.Fields{"winner": winnerID, "loser": loserID}).Debug("match result stored")
	return nil
}

// lockUser loads a registered user for update, or nil for a guest.
func lockUser(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return u, err
}

func saveRating(ctx context.Context, tx pgx.Tx, matchID int64, before, after models.User) error {
	_, err := tx.Exec(ctx, `
		UPDATE users
		SET elo_1v1 = $1, phi_1v1 = $2, sigma_1v1 = $3, wins = $4, losses = $5
		WHERE id = $6
	`, after.Elo1v1, after.Phi1v1, after.Sigma1v1, after.Wins, after.Losses, after.ID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO ratings (user_id, match_id, old_rating, new_rating, rating_mode)
		VALUES ($1, $2, $3, $4, '1v1')
	`, after.ID, matchID, before.Elo1v1, after.Elo1v1)
	return err
}
