package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fdg312/meal-planner/internal/storage"
)

type mealsStorage struct {
	mu     sync.RWMutex
	meals  map[int64]storage.Meal
	nextID int64
}

func newMealsStorage() *mealsStorage {
	return &mealsStorage{
		meals:  make(map[int64]storage.Meal),
		nextID: 1,
	}
}

func (s *mealsStorage) ListMeals(ctx context.Context, filter storage.MealFilter) ([]storage.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.Meal, 0, len(s.meals))
	for _, m := range s.meals {
		if matchesFilter(m, filter) {
			result = append(result, m)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *mealsStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meal.ID = s.nextID
	s.nextID++
	s.meals[meal.ID] = *meal
	return nil
}

func (s *mealsStorage) DeleteMeal(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.meals, id)
	return nil
}

// matchesFilter mirrors the Postgres ILIKE / NOT ILIKE semantics.
func matchesFilter(m storage.Meal, filter storage.MealFilter) bool {
	if filter.DietType != "" && !containsFold(m.DietType, filter.DietType) {
		return false
	}
	if filter.MealType != "" && !containsFold(m.MealType, filter.MealType) {
		return false
	}
	for _, ing := range filter.ExcludeIngredients {
		if ing != "" && containsFold(m.Ingredients, ing) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
