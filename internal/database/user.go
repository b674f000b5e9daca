// internal/database/user.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/arcade/internal/auth"
	"github.com/jason-s-yu/arcade/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// uniqueViolation is the Postgres error code for a duplicate key.
const uniqueViolation = "23505"

const userColumns = `id, username, password, is_ephemeral, elo_1v1, phi_1v1, sigma_1v1, wins, losses`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsEphemeral,
		&u.Elo1v1, &u.Phi1v1, &u.Sigma1v1, &u.Wins, &u.Losses)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser hashes user.Password and inserts the account, assigning an ID
// when none is set.
func CreateUser(ctx context.Context, user *models.User) error {
	user.Username = strings.TrimSpace(user.Username)
	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}

	hash, err := auth.HashPassword(user.Password, auth.DefaultHashParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (id, username, password, is_ephemeral)
	      VALUES ($1, $2, $3, $4)
	      RETURNING elo_1v1, phi_1v1, sigma_1v1`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, user.ID, user.Username, user.Password, user.IsEphemeral).
			Scan(&user.Elo1v1, &user.Phi1v1, &user.Sigma1v1)
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(DB.QueryRow(ctx, q, strings.TrimSpace(username)))
}

func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(DB.QueryRow(ctx, q, id))
}

// AuthenticateUser checks a username and password and returns the account.
// Unknown users and wrong passwords fail the same way.
func AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := GetUserByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.Password)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Accounts exposes the user functions to the HTTP layer.
type Accounts struct{}

func (Accounts) Create(ctx context.Context, user *models.User) error {
	return CreateUser(ctx, user)
}

func (Accounts) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	return AuthenticateUser(ctx, username, password)
}
