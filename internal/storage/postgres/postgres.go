package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql строит запросы с плейсхолдерами $1, $2, ...
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStorage: Postgres реализация Storage
type PostgresStorage struct {
	pool      *pgxpool.Pool
	users     *usersStorage
	profiles  *profilesStorage
	meals     *mealsStorage
	mealPlans *mealPlansStorage
}

// New подключается к Postgres и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStorage{
		pool:      pool,
		users:     newUsersStorage(pool),
		profiles:  newProfilesStorage(pool),
		meals:     newMealsStorage(pool),
		mealPlans: newMealPlansStorage(pool),
	}, nil
}

func (p *PostgresStorage) Users() storage.UsersStorage {
	return p.users
}

func (p *PostgresStorage) Profiles() storage.ProfilesStorage {
	return p.profiles
}

func (p *PostgresStorage) Meals() storage.MealsStorage {
	return p.meals
}

func (p *PostgresStorage) MealPlans() storage.MealPlansStorage {
	return p.mealPlans
}

// Close закрывает пул соединений
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
