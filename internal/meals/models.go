package meals

import "github.com/fdg312/meal-planner/internal/storage"

// ListMealsResponse: ответ для GET /v1/meals
type ListMealsResponse struct {
	Meals []storage.Meal `json:"meals"`
	Total int            `json:"total"`
}

// CreateMealRequest: запрос для POST /v1/meals
type CreateMealRequest struct {
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

// ErrorResponse: формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
