package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

var mealColumns = []string{
	"id", "name", "description", "calories", "protein", "carbs", "fat",
	"diet_type", "meal_type", "ingredients", "suitable_for", "tags", "preparation_time",
}

type mealsStorage struct {
	pool *pgxpool.Pool
}

func newMealsStorage(pool *pgxpool.Pool) *mealsStorage {
	return &mealsStorage{pool: pool}
}

func (s *mealsStorage) ListMeals(ctx context.Context, filter storage.MealFilter) ([]storage.Meal, error) {
	sqlStr, args, err := listMealsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build meals query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []storage.Meal{}
	for rows.Next() {
		var m storage.Meal
		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Description,
			&m.Calories,
			&m.Protein,
			&m.Carbs,
			&m.Fat,
			&m.DietType,
			&m.MealType,
			&m.Ingredients,
			&m.SuitableFor,
			&m.Tags,
			&m.PreparationTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}
	return meals, nil
}

func (s *mealsStorage) CreateMeal(ctx context.Context, m *storage.Meal) error {
	sqlStr, args, err := psql.Insert("meals").
		Columns(mealColumns[1:]...).
		Values(
			m.Name,
			m.Description,
			m.Calories,
			m.Protein,
			m.Carbs,
			m.Fat,
			m.DietType,
			m.MealType,
			m.Ingredients,
			m.SuitableFor,
			m.Tags,
			m.PreparationTime,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build meal insert: %w", err)
	}

	if err := s.pool.QueryRow(ctx, sqlStr, args...).Scan(&m.ID); err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

func (s *mealsStorage) DeleteMeal(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("meals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build meal delete: %w", err)
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func listMealsQuery(filter storage.MealFilter) sq.SelectBuilder {
	query := psql.Select(mealColumns...).From("meals").OrderBy("id")

	if filter.DietType != "" {
		query = query.Where(sq.ILike{"diet_type": likePattern(filter.DietType)})
	}
	if filter.MealType != "" {
		query = query.Where(sq.ILike{"meal_type": likePattern(filter.MealType)})
	}
	for _, ing := range filter.ExcludeIngredients {
		if ing == "" {
			continue
		}
		query = query.Where(sq.NotILike{"ingredients": likePattern(ing)})
	}
	return query
}

// likePattern wraps v in % after escaping LIKE metacharacters.
func likePattern(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(v) + "%"
}
