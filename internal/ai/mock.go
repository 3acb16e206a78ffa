package ai

import (
	"context"
	"encoding/json"
)

// MockCompleter returns a fixed 7-day plan built from the sample catalog names.
type MockCompleter struct {
	Response string
}

func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Response: mockPlan()}
}

func (m *MockCompleter) Model() string {
	return "mock"
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Response, nil
}

func mockPlan() string {
	breakfasts := []string{"Overnight Oats with Berries", "Veggie Omelette", "Greek Yogurt Parfait"}
	lunches := []string{"Chickpea Quinoa Salad", "Grilled Chicken Wrap", "Lentil Soup"}
	dinners := []string{"Baked Salmon with Vegetables", "Tofu Stir Fry", "Turkey Chili"}
	snacks := []string{"Apple with Almond Butter", "Hummus and Carrots", "Trail Mix"}

	type day struct {
		Day       int    `json:"day"`
		Breakfast string `json:"breakfast"`
		Lunch     string `json:"lunch"`
		Dinner    string `json:"dinner"`
		Snack     string `json:"snack"`
	}

	days := make([]day, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, day{
			Day:       i + 1,
			Breakfast: breakfasts[i%len(breakfasts)],
			Lunch:     lunches[(i+1)%len(lunches)],
			Dinner:    dinners[(i+2)%len(dinners)],
			Snack:     snacks[i%len(snacks)],
		})
	}

	out, _ := json.MarshalIndent(days, "", "  ")
	return string(out)
}
