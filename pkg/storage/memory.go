package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"memorylane/pkg/models"
)

// MemoryStore is an in-memory UserStore used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User

	// FailPing simulates an unreachable store
	FailPing bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*models.User)}
}

func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[username]; ok {
		copied := *existing
		return &copied, nil
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[username] = user
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("no user named %q", username)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	if s.FailPing {
		return fmt.Errorf("store unreachable")
	}
	return nil
}

func (s *MemoryStore) Close() {}
