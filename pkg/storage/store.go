package storage

import (
	"context"

	"memorylane/pkg/models"
)

// UserStore is the credential store consulted by the auth service.
type UserStore interface {
	// GetByUsername returns the credential for username, or (nil, nil)
	// when no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create inserts a credential. When the username already exists the
	// existing record is returned unchanged; concurrent creators race on
	// the uniqueness constraint, not on application state.
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)

	// UpdatePassword replaces the stored hash for username.
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close()
}
