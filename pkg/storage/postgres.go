package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"memorylane/pkg/logger"
	"memorylane/pkg/models"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore is the pgx-backed credential store.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresStore connects to the database at url, verifies the connection
// and ensures the users table exists.
func NewPostgresStore(ctx context.Context, url string, log logger.Logger) (*PostgresStore, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := pool.Exec(ctx, usersSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure users table: %w", err)
	}

	log.Info("credential store connected")
	return &PostgresStore{pool: pool, logger: log}, nil
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`

	user := &models.User{}
	err := s.pool.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	query := `INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING`

	id := uuid.NewString()
	tag, err := s.pool.Exec(ctx, query, id, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// lost the bootstrap race or the account already existed;
		// either way the existing record wins
		s.logger.DebugWithFields("user already exists", map[string]interface{}{
			"username": username,
		})
		return s.GetByUsername(ctx, username)
	}

	s.logger.InfoWithFields("user created", map[string]interface{}{
		"username": username,
	})
	return s.GetByUsername(ctx, username)
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE username = $1`

	tag, err := s.pool.Exec(ctx, query, username, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no user named %q", username)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
