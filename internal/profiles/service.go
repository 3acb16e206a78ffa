package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/userctx"
	"go.uber.org/zap"
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrValidation = errors.New("validation failed")
)

// Service содержит бизнес-логику профилей
type Service struct {
	storage storage.ProfilesStorage
	logger  *zap.Logger
}

// NewService создаёт новый сервис
func NewService(st storage.ProfilesStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: st, logger: logger}
}

// SaveProfile создаёт или перезаписывает профиль.
// Без id в запросе берётся id аутентифицированного пользователя.
func (s *Service) SaveProfile(ctx context.Context, req SaveProfileRequest) (*ProfileDTO, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id, _ = userctx.GetUserID(ctx)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	if !userctx.CanAccess(ctx, id) {
		return nil, ErrNotFound
	}

	age := req.Age.Int()
	if age != nil && (*age < 0 || *age > 150) {
		return nil, fmt.Errorf("%w: age must be between 0 and 150", ErrValidation)
	}
	mealsPerDay := req.MealsPerDay.Int()
	if mealsPerDay != nil && (*mealsPerDay < 1 || *mealsPerDay > 10) {
		return nil, fmt.Errorf("%w: mealsPerDay must be between 1 and 10", ErrValidation)
	}
	for name, v := range map[string]*float64{"height": req.Height.Value, "weight": req.Weight.Value} {
		if v != nil && *v < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
		}
	}

	conditions := make([]string, 0, len(req.MedicalConditions))
	for _, c := range req.MedicalConditions {
		if c = strings.TrimSpace(c); c != "" {
			conditions = append(conditions, c)
		}
	}

	profile := &storage.Profile{
		ID:                    id,
		FullName:              strings.TrimSpace(req.FullName),
		Age:                   age,
		Gender:                strings.TrimSpace(req.Gender),
		HeightCm:              req.Height.Value,
		WeightKg:              req.Weight.Value,
		Goal:                  strings.TrimSpace(req.Goal),
		ActivityLevel:         strings.TrimSpace(req.ActivityLevel),
		MedicalConditions:     conditions,
		DietType:              strings.TrimSpace(req.DietType),
		CulturalPreference:    strings.TrimSpace(req.CulturalPreference),
		ReligiousRestrictions: strings.TrimSpace(req.ReligiousRestrictions),
		DislikedFoods:         req.DislikedFoods,
		MealsPerDay:           mealsPerDay,
		BreakfastTime:         strings.TrimSpace(req.MealTimes.Breakfast),
		LunchTime:             strings.TrimSpace(req.MealTimes.Lunch),
		DinnerTime:            strings.TrimSpace(req.MealTimes.Dinner),
	}

	if err := s.storage.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile saved", zap.String("profile_id", id))
	dto := toDTO(*profile)
	return &dto, nil
}

// GetProfile возвращает профиль по ID
func (s *Service) GetProfile(ctx context.Context, id string) (*ProfileDTO, error) {
	if !userctx.CanAccess(ctx, id) {
		return nil, ErrNotFound
	}

	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// toDTO конвертирует storage.Profile в ProfileDTO
func toDTO(p storage.Profile) ProfileDTO {
	conditions := p.MedicalConditions
	if conditions == nil {
		conditions = []string{}
	}
	return ProfileDTO{
		ID:                    p.ID,
		FullName:              p.FullName,
		Age:                   p.Age,
		Gender:                p.Gender,
		Height:                p.HeightCm,
		Weight:                p.WeightKg,
		Goal:                  p.Goal,
		ActivityLevel:         p.ActivityLevel,
		MedicalConditions:     conditions,
		DietType:              p.DietType,
		CulturalPreference:    p.CulturalPreference,
		ReligiousRestrictions: p.ReligiousRestrictions,
		DislikedFoods:         p.DislikedFoods,
		MealsPerDay:           p.MealsPerDay,
		MealTimes: MealTimes{
			Breakfast: p.BreakfastTime,
			Lunch:     p.LunchTime,
			Dinner:    p.DinnerTime,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
