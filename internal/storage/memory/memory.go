package memory

import (
	"github.com/fdg312/meal-planner/internal/storage"
)

// MemoryStorage: in-memory реализация Storage (для локальной разработки и тестов)
type MemoryStorage struct {
	users     *usersStorage
	profiles  *profilesStorage
	meals     *mealsStorage
	mealPlans *mealPlansStorage
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		users:     newUsersStorage(),
		profiles:  newProfilesStorage(),
		meals:     newMealsStorage(),
		mealPlans: newMealPlansStorage(),
	}
}

func (m *MemoryStorage) Users() storage.UsersStorage {
	return m.users
}

func (m *MemoryStorage) Profiles() storage.ProfilesStorage {
	return m.profiles
}

func (m *MemoryStorage) Meals() storage.MealsStorage {
	return m.meals
}

func (m *MemoryStorage) MealPlans() storage.MealPlansStorage {
	return m.mealPlans
}

// Close ничего не делает для in-memory storage
func (m *MemoryStorage) Close() error {
	return nil
}
