package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/google/uuid"
)

type usersStorage struct {
	mu      sync.RWMutex
	byEmail map[string]storage.User // key: lowercased email
}

func newUsersStorage() *usersStorage {
	return &usersStorage{byEmail: make(map[string]storage.User)}
}

func (s *usersStorage) CreateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(user.Email))
	if _, exists := s.byEmail[key]; exists {
		return storage.ErrConflict
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.byEmail[key] = *user
	return nil
}

func (s *usersStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}
