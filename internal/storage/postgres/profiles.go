package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profilesStorage struct {
	pool *pgxpool.Pool
}

func newProfilesStorage(pool *pgxpool.Pool) *profilesStorage {
	return &profilesStorage{pool: pool}
}

func (s *profilesStorage) UpsertProfile(ctx context.Context, p *storage.Profile) error {
	query := `
		INSERT INTO profiles (
			id, full_name, age, gender, height_cm, weight_kg, goal, activity_level,
			medical_conditions, diet_type, cultural_preference, religious_restrictions,
			disliked_foods, meals_per_day, breakfast_time, lunch_time, dinner_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			goal = EXCLUDED.goal,
			activity_level = EXCLUDED.activity_level,
			medical_conditions = EXCLUDED.medical_conditions,
			diet_type = EXCLUDED.diet_type,
			cultural_preference = EXCLUDED.cultural_preference,
			religious_restrictions = EXCLUDED.religious_restrictions,
			disliked_foods = EXCLUDED.disliked_foods,
			meals_per_day = EXCLUDED.meals_per_day,
			breakfast_time = EXCLUDED.breakfast_time,
			lunch_time = EXCLUDED.lunch_time,
			dinner_time = EXCLUDED.dinner_time,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	medical := p.MedicalConditions
	if medical == nil {
		medical = []string{}
	}

	err := s.pool.QueryRow(ctx, query,
		p.ID,
		p.FullName,
		p.Age,
		p.Gender,
		p.HeightCm,
		p.WeightKg,
		p.Goal,
		p.ActivityLevel,
		medical,
		p.DietType,
		p.CulturalPreference,
		p.ReligiousRestrictions,
		p.DislikedFoods,
		p.MealsPerDay,
		p.BreakfastTime,
		p.LunchTime,
		p.DinnerTime,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (s *profilesStorage) GetProfile(ctx context.Context, id string) (*storage.Profile, error) {
	query := `
		SELECT id, full_name, age, gender, height_cm, weight_kg, goal, activity_level,
		       medical_conditions, diet_type, cultural_preference, religious_restrictions,
		       disliked_foods, meals_per_day, breakfast_time, lunch_time, dinner_time,
		       created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p storage.Profile
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.FullName,
		&p.Age,
		&p.Gender,
		&p.HeightCm,
		&p.WeightKg,
		&p.Goal,
		&p.ActivityLevel,
		&p.MedicalConditions,
		&p.DietType,
		&p.CulturalPreference,
		&p.ReligiousRestrictions,
		&p.DislikedFoods,
		&p.MealsPerDay,
		&p.BreakfastTime,
		&p.LunchTime,
		&p.DinnerTime,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}
