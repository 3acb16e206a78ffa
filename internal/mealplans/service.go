package mealplans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/meal-planner/internal/ai"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrGenerationUnavailable = errors.New("meal plan generation unavailable")
	ErrGenerationTimeout     = errors.New("meal plan generation timed out")
	ErrPlanNotFound          = errors.New("meal plan not found")
)

var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Service generates and stores meal plans.
type Service struct {
	profiles  storage.ProfilesStorage
	meals     storage.MealsStorage
	plans     storage.MealPlansStorage
	completer ai.Completer
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates a meal plan service. A non-positive timeout disables the deadline.
func NewService(
	profiles storage.ProfilesStorage,
	meals storage.MealsStorage,
	plans storage.MealPlansStorage,
	completer ai.Completer,
	timeout time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:  profiles,
		meals:     meals,
		plans:     plans,
		completer: completer,
		timeout:   timeout,
		logger:    logger,
	}
}

// Generation is the outcome of one Generate call.
type Generation struct {
	Result      PlanResult
	PlanID      uuid.UUID // zero unless the plan was saved
	Preferences UserPreferences
	Meals       []storage.Meal
}

// Generate builds a 7-day plan for userID through the completer.
// Salvage failures are returned in Result, not as an error.
func (s *Service) Generate(ctx context.Context, userID string) (*Generation, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	prefs := Normalize(profile)

	meals, err := s.meals.ListMeals(ctx, storage.MealFilter{})
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	prompt := BuildPrompt(prefs, meals)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := s.completer.Complete(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			s.logger.Warn("completion timed out",
				zap.String("user_id", userID),
				zap.Duration("elapsed", time.Since(started)))
			return nil, ErrGenerationTimeout
		}
		s.logger.Error("completion failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}

	gen := &Generation{
		Result:      Salvage(raw),
		Preferences: prefs,
		Meals:       meals,
	}

	if !gen.Result.OK() {
		s.logger.Warn("model answer could not be salvaged",
			zap.String("user_id", userID),
			zap.String("kind", string(gen.Result.Kind)),
			zap.Int("raw_len", len(raw)))
		return gen, nil
	}

	s.logger.Info("meal plan generated",
		zap.String("user_id", userID),
		zap.Int("days", len(gen.Result.Days)),
		zap.Bool("extracted", gen.Result.Extracted),
		zap.Duration("elapsed", time.Since(started)))

	if s.plans != nil {
		gen.PlanID = s.save(ctx, userID, gen.Result.Days)
	}
	return gen, nil
}

// save stores the plan; failures are logged and reported as a zero id.
func (s *Service) save(ctx context.Context, userID string, days []DayPlan) uuid.UUID {
	data, err := json.Marshal(days)
	if err != nil {
		s.logger.Error("encode plan", zap.Error(err))
		return uuid.Nil
	}
	plan := &storage.GeneratedPlan{
		UserID: userID,
		Model:  s.completer.Model(),
		Days:   data,
	}
	if err := s.plans.CreatePlan(ctx, plan); err != nil {
		s.logger.Error("save generated plan", zap.String("user_id", userID), zap.Error(err))
		return uuid.Nil
	}
	return plan.ID
}

// BasicSlots holds the picks for one day; nil means nothing matched.
type BasicSlots struct {
	Breakfast *storage.Meal `json:"breakfast"`
	Lunch     *storage.Meal `json:"lunch"`
	Dinner    *storage.Meal `json:"dinner"`
	Snacks    *storage.Meal `json:"snacks"`
}

type BasicDay struct {
	Day   string     `json:"day"`
	Meals BasicSlots `json:"meals"`
}

type BasicPlan struct {
	DietType      string     `json:"dietType"`
	DislikedFoods []string   `json:"dislikedFoods"`
	MealsPerDay   *int       `json:"mealsPerDay"`
	Plan          []BasicDay `json:"plan"`
}

// Basic builds the rule-based weekly plan: the first matching meal per slot,
// repeated for every day of the week.
func (s *Service) Basic(ctx context.Context, userID string) (*BasicPlan, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	disliked := SplitList(profile.DislikedFoods)
	meals, err := s.meals.ListMeals(ctx, storage.MealFilter{
		DietType:           strings.TrimSpace(profile.DietType),
		ExcludeIngredients: disliked,
	})
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	var slots BasicSlots
	for i := range meals {
		m := &meals[i]
		mealType := strings.ToLower(m.MealType)
		switch {
		case slots.Breakfast == nil && mealType == "breakfast":
			slots.Breakfast = m
		case slots.Lunch == nil && mealType == "lunch":
			slots.Lunch = m
		case slots.Dinner == nil && strings.Contains(mealType, "dinner"):
			slots.Dinner = m
		case slots.Snacks == nil && mealType == "snack":
			slots.Snacks = m
		}
	}

	plan := &BasicPlan{
		DietType:      profile.DietType,
		DislikedFoods: disliked,
		MealsPerDay:   profile.MealsPerDay,
		Plan:          make([]BasicDay, 0, len(weekDays)),
	}
	for _, day := range weekDays {
		plan.Plan = append(plan.Plan, BasicDay{Day: day, Meals: slots})
	}
	return plan, nil
}

// StoredPlan is a persisted generation with decoded days.
type StoredPlan struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Model     string    `json:"model"`
	Days      []DayPlan `json:"days"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListPlans returns the user's saved plans, newest first.
func (s *Service) ListPlans(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	plans, err := s.plans.ListPlans(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]StoredPlan, 0, len(plans))
	for i := range plans {
		sp, err := decodePlan(&plans[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *sp)
	}
	return out, nil
}

// GetPlan returns one saved plan or ErrPlanNotFound.
func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*StoredPlan, error) {
	plan, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return decodePlan(plan)
}

func decodePlan(p *storage.GeneratedPlan) (*StoredPlan, error) {
	var days []DayPlan
	if err := json.Unmarshal(p.Days, &days); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", p.ID, err)
	}
	if days == nil {
		days = []DayPlan{}
	}
	return &StoredPlan{
		ID:        p.ID,
		UserID:    p.UserID,
		Model:     p.Model,
		Days:      days,
		CreatedAt: p.CreatedAt,
	}, nil
}
