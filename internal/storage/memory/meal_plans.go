package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/google/uuid"
)

type mealPlansStorage struct {
	mu     sync.RWMutex
	plans  map[uuid.UUID]storage.GeneratedPlan
	byUser map[string][]uuid.UUID
}

func newMealPlansStorage() *mealPlansStorage {
	return &mealPlansStorage{
		plans:  make(map[uuid.UUID]storage.GeneratedPlan),
		byUser: make(map[string][]uuid.UUID),
	}
}

func (s *mealPlansStorage) CreatePlan(ctx context.Context, plan *storage.GeneratedPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	stored := *plan
	stored.Days = append([]byte(nil), plan.Days...)
	s.plans[plan.ID] = stored
	s.byUser[plan.UserID] = append(s.byUser[plan.UserID], plan.ID)
	return nil
}

func (s *mealPlansStorage) GetPlan(ctx context.Context, id uuid.UUID) (*storage.GeneratedPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *mealPlansStorage) ListPlans(ctx context.Context, userID string, limit int) ([]storage.GeneratedPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	result := make([]storage.GeneratedPlan, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		result = append(result, s.plans[ids[i]])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
