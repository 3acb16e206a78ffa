package meals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/meal-planner/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrNotFound   = errors.New("meal not found")
	ErrValidation = errors.New("validation failed")
)

// Service manages the meal catalog.
type Service struct {
	storage storage.MealsStorage
	logger  *zap.Logger
}

func NewService(st storage.MealsStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: st, logger: logger}
}

func (s *Service) List(ctx context.Context, dietType, mealType string) ([]storage.Meal, error) {
	return s.storage.ListMeals(ctx, storage.MealFilter{
		DietType: strings.TrimSpace(dietType),
		MealType: strings.TrimSpace(mealType),
	})
}

func (s *Service) Create(ctx context.Context, req CreateMealRequest) (*storage.Meal, error) {
	meal := &storage.Meal{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		Calories:        req.Calories,
		Protein:         req.Protein,
		Carbs:           req.Carbs,
		Fat:             req.Fat,
		DietType:        strings.TrimSpace(req.DietType),
		MealType:        strings.ToLower(strings.TrimSpace(req.MealType)),
		Ingredients:     strings.TrimSpace(req.Ingredients),
		SuitableFor:     strings.TrimSpace(req.SuitableFor),
		Tags:            strings.TrimSpace(req.Tags),
		PreparationTime: req.PreparationTime,
	}
	if err := validate(meal); err != nil {
		return nil, err
	}

	if err := s.storage.CreateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	s.logger.Info("meal created", zap.Int64("meal_id", meal.ID), zap.String("name", meal.Name))
	return meal, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteMeal(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete meal: %w", err)
	}
	s.logger.Info("meal deleted", zap.Int64("meal_id", id))
	return nil
}

func validate(m *storage.Meal) error {
	switch {
	case m.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case m.MealType == "":
		return fmt.Errorf("%w: mealType is required", ErrValidation)
	case m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0:
		return fmt.Errorf("%w: nutrition values must not be negative", ErrValidation)
	case m.PreparationTime < 0:
		return fmt.Errorf("%w: preparationTime must not be negative", ErrValidation)
	}
	return nil
}
