package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/meal-planner/internal/storage"
)

type profilesStorage struct {
	mu       sync.RWMutex
	profiles map[string]storage.Profile
}

func newProfilesStorage() *profilesStorage {
	return &profilesStorage{profiles: make(map[string]storage.Profile)}
}

func (s *profilesStorage) UpsertProfile(ctx context.Context, profile *storage.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.profiles[profile.ID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	stored := *profile
	stored.MedicalConditions = append([]string(nil), profile.MedicalConditions...)
	s.profiles[profile.ID] = stored
	return nil
}

func (s *profilesStorage) GetProfile(ctx context.Context, id string) (*storage.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p.MedicalConditions = append([]string(nil), p.MedicalConditions...)
	return &p, nil
}
