package postgres

import (
	"testing"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%nuts%", likePattern("nuts"))
	assert.Equal(t, `%50\% off\_x\\%`, likePattern(`50% off_x\`))
}

func TestListMealsQuery(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		sqlStr, args, err := listMealsQuery(storage.MealFilter{}).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id, name, description, calories, protein, carbs, fat, diet_type, meal_type, ingredients, suitable_for, tags, preparation_time FROM meals ORDER BY id", sqlStr)
		assert.Empty(t, args)
	})

	t.Run("diet type and exclusions", func(t *testing.T) {
		sqlStr, args, err := listMealsQuery(storage.MealFilter{
			DietType:           "vegan",
			ExcludeIngredients: []string{"nuts", "", "shellfish"},
		}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sqlStr, "diet_type ILIKE $1")
		assert.Contains(t, sqlStr, "ingredients NOT ILIKE $2")
		assert.Contains(t, sqlStr, "ingredients NOT ILIKE $3")
		assert.Equal(t, []interface{}{"%vegan%", "%nuts%", "%shellfish%"}, args)
	})
}
