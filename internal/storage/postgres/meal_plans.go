package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type mealPlansStorage struct {
	pool *pgxpool.Pool
}

func newMealPlansStorage(pool *pgxpool.Pool) *mealPlansStorage {
	return &mealPlansStorage{pool: pool}
}

func (s *mealPlansStorage) CreatePlan(ctx context.Context, plan *storage.GeneratedPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	query := `
		INSERT INTO generated_meal_plans (id, user_id, model, days)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query, plan.ID, plan.UserID, plan.Model, plan.Days).Scan(&plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meal plan: %w", err)
	}
	return nil
}

func (s *mealPlansStorage) GetPlan(ctx context.Context, id uuid.UUID) (*storage.GeneratedPlan, error) {
	query := `
		SELECT id, user_id, model, days, created_at
		FROM generated_meal_plans
		WHERE id = $1
	`

	var p storage.GeneratedPlan
	err := s.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.UserID, &p.Model, &p.Days, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan: %w", err)
	}
	return &p, nil
}

func (s *mealPlansStorage) ListPlans(ctx context.Context, userID string, limit int) ([]storage.GeneratedPlan, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, model, days, created_at
		FROM generated_meal_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	plans := []storage.GeneratedPlan{}
	for rows.Next() {
		var p storage.GeneratedPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.Model, &p.Days, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal plans: %w", err)
	}
	return plans, nil
}
