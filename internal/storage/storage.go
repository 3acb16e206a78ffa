package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound возвращается, когда запись не найдена
	ErrNotFound = errors.New("not found")
	// ErrConflict возвращается при нарушении уникальности (например, email)
	ErrConflict = errors.New("already exists")
)

// Storage объединяет все хранилища приложения
type Storage interface {
	Users() UsersStorage
	Profiles() ProfilesStorage
	Meals() MealsStorage
	MealPlans() MealPlansStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}

// User: учётная запись для входа по email/паролю
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string // user | admin
	CreatedAt    time.Time
}

type UsersStorage interface {
	// CreateUser создаёт пользователя; ErrConflict, если email занят
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail возвращает пользователя или ErrNotFound
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// Profile: анкета пользователя с пищевыми предпочтениями.
// Пустая строка означает отсутствие значения.
type Profile struct {
	ID                    string
	FullName              string
	Age                   *int
	Gender                string
	HeightCm              *float64
	WeightKg              *float64
	Goal                  string
	ActivityLevel         string
	MedicalConditions     []string
	DietType              string
	CulturalPreference    string
	ReligiousRestrictions string
	DislikedFoods         string // comma separated
	MealsPerDay           *int
	BreakfastTime         string
	LunchTime             string
	DinnerTime            string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type ProfilesStorage interface {
	// UpsertProfile создаёт или полностью перезаписывает профиль по ID
	UpsertProfile(ctx context.Context, profile *Profile) error

	// GetProfile возвращает профиль или ErrNotFound
	GetProfile(ctx context.Context, id string) (*Profile, error)
}

// Meal is a catalog record. JSON names follow the catalog columns and are what the
// planner model sees.
type Meal struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Calories        int     `json:"calories"`
	Protein         float64 `json:"protein"`
	Carbs           float64 `json:"carbs"`
	Fat             float64 `json:"fat"`
	DietType        string  `json:"dietType"`
	MealType        string  `json:"mealType"`
	Ingredients     string  `json:"ingredients"`
	SuitableFor     string  `json:"suitableFor"`
	Tags            string  `json:"tags"`
	PreparationTime int     `json:"preparationTime"`
}

// MealFilter narrows ListMeals. String matches are case-insensitive substrings;
// empty fields do not filter.
type MealFilter struct {
	DietType           string
	MealType           string
	ExcludeIngredients []string
}

type MealsStorage interface {
	// ListMeals возвращает блюда по фильтру, отсортированные по ID
	ListMeals(ctx context.Context, filter MealFilter) ([]Meal, error)

	// CreateMeal добавляет блюдо и проставляет ему ID
	CreateMeal(ctx context.Context, meal *Meal) error

	// DeleteMeal удаляет блюдо; ErrNotFound, если его нет
	DeleteMeal(ctx context.Context, id int64) error
}

// GeneratedPlan: сохранённый результат генерации плана
type GeneratedPlan struct {
	ID        uuid.UUID
	UserID    string
	Model     string
	Days      []byte // JSON array of day plans
	CreatedAt time.Time
}

type MealPlansStorage interface {
	// CreatePlan сохраняет план; ID и CreatedAt заполняются, если пусты
	CreatePlan(ctx context.Context, plan *GeneratedPlan) error

	// GetPlan возвращает план или ErrNotFound
	GetPlan(ctx context.Context, id uuid.UUID) (*GeneratedPlan, error)

	// ListPlans возвращает планы пользователя, новые первыми
	ListPlans(ctx context.Context, userID string, limit int) ([]GeneratedPlan, error)
}
