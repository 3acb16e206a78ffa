package meals

import (
	"context"
	"fmt"

	"github.com/fdg312/meal-planner/internal/storage"
)

// SampleCatalog is loaded into an empty in-memory store so local runs have something to plan with.
var SampleCatalog = []storage.Meal{
	{Name: "Overnight Oats with Berries", Description: "Rolled oats soaked overnight with mixed berries", Calories: 380, Protein: 12, Carbs: 62, Fat: 9, DietType: "vegetarian", MealType: "breakfast", Ingredients: "oats, milk, blueberries, strawberries, honey", SuitableFor: "weight loss, maintenance", Tags: "quick, make-ahead", PreparationTime: 5},
	{Name: "Veggie Omelette", Description: "Three egg omelette with peppers and spinach", Calories: 320, Protein: 21, Carbs: 8, Fat: 22, DietType: "vegetarian, keto", MealType: "breakfast", Ingredients: "eggs, bell pepper, spinach, onion, cheese", SuitableFor: "muscle gain, weight loss", Tags: "high-protein, low-carb", PreparationTime: 15},
	{Name: "Greek Yogurt Parfait", Description: "Layered yogurt with granola and fruit", Calories: 300, Protein: 18, Carbs: 40, Fat: 7, DietType: "vegetarian", MealType: "breakfast", Ingredients: "greek yogurt, granola, banana, honey", SuitableFor: "maintenance", Tags: "quick", PreparationTime: 5},
	{Name: "Chickpea Quinoa Salad", Description: "Quinoa salad with chickpeas, cucumber and lemon", Calories: 520, Protein: 19, Carbs: 72, Fat: 16, DietType: "vegan, vegetarian", MealType: "lunch", Ingredients: "quinoa, chickpeas, cucumber, tomato, lemon, olive oil", SuitableFor: "weight loss, maintenance", Tags: "mediterranean, halal", PreparationTime: 20},
	{Name: "Grilled Chicken Wrap", Description: "Whole wheat wrap with grilled chicken and greens", Calories: 560, Protein: 38, Carbs: 48, Fat: 20, DietType: "omnivore", MealType: "lunch", Ingredients: "chicken breast, tortilla, lettuce, tomato, yogurt sauce", SuitableFor: "muscle gain", Tags: "high-protein, halal", PreparationTime: 20},
	{Name: "Lentil Soup", Description: "Red lentil soup with cumin and carrots", Calories: 410, Protein: 22, Carbs: 58, Fat: 8, DietType: "vegan, vegetarian", MealType: "lunch", Ingredients: "red lentils, carrot, onion, garlic, cumin", SuitableFor: "weight loss", Tags: "indian, halal, kosher", PreparationTime: 35},
	{Name: "Baked Salmon with Vegetables", Description: "Oven baked salmon with roasted broccoli", Calories: 640, Protein: 42, Carbs: 22, Fat: 40, DietType: "pescatarian, keto", MealType: "dinner", Ingredients: "salmon, broccoli, olive oil, lemon, garlic", SuitableFor: "muscle gain, heart health", Tags: "omega-3, kosher", PreparationTime: 30},
	{Name: "Tofu Stir Fry", Description: "Crispy tofu with vegetables over rice", Calories: 580, Protein: 26, Carbs: 70, Fat: 20, DietType: "vegan, vegetarian", MealType: "dinner", Ingredients: "tofu, soy sauce, broccoli, carrot, rice, ginger", SuitableFor: "maintenance", Tags: "asian", PreparationTime: 25},
	{Name: "Turkey Chili", Description: "Lean turkey chili with beans", Calories: 610, Protein: 45, Carbs: 50, Fat: 22, DietType: "omnivore", MealType: "dinner", Ingredients: "ground turkey, kidney beans, tomato, onion, chili powder", SuitableFor: "muscle gain", Tags: "high-protein", PreparationTime: 45},
	{Name: "Apple with Almond Butter", Description: "Sliced apple with a spoon of almond butter", Calories: 200, Protein: 4, Carbs: 25, Fat: 10, DietType: "vegan, vegetarian", MealType: "snack", Ingredients: "apple, almond butter", SuitableFor: "weight loss", Tags: "quick", PreparationTime: 2},
	{Name: "Hummus and Carrots", Description: "Carrot sticks with hummus", Calories: 180, Protein: 6, Carbs: 20, Fat: 9, DietType: "vegan, vegetarian", MealType: "snack", Ingredients: "chickpeas, tahini, carrot, lemon", SuitableFor: "weight loss, maintenance", Tags: "mediterranean, halal, kosher", PreparationTime: 5},
	{Name: "Trail Mix", Description: "Nuts, seeds and dried fruit", Calories: 250, Protein: 7, Carbs: 22, Fat: 16, DietType: "vegan, vegetarian", MealType: "snack", Ingredients: "almonds, cashews, raisins, pumpkin seeds", SuitableFor: "muscle gain", Tags: "quick, portable", PreparationTime: 1},
}

// Seed loads SampleCatalog when the catalog is empty. It reports how many meals were added.
func Seed(ctx context.Context, st storage.MealsStorage) (int, error) {
	existing, err := st.ListMeals(ctx, storage.MealFilter{})
	if err != nil {
		return 0, fmt.Errorf("list meals: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, m := range SampleCatalog {
		meal := m
		if err := st.CreateMeal(ctx, &meal); err != nil {
			return 0, fmt.Errorf("seed %q: %w", m.Name, err)
		}
	}
	return len(SampleCatalog), nil
}
