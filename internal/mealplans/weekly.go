package mealplans

import (
	"strings"

	"github.com/fdg312/meal-planner/internal/storage"
)

type WeeklyMeal struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

type WeeklyMeals struct {
	Breakfast WeeklyMeal `json:"breakfast"`
	Lunch     WeeklyMeal `json:"lunch"`
	Dinner    WeeklyMeal `json:"dinner"`
	Snacks    WeeklyMeal `json:"snacks"`
}

type WeeklyDay struct {
	Day   int         `json:"day"`
	Meals WeeklyMeals `json:"meals"`
}

// WeeklyView is the calendar shape consumed by the web client.
type WeeklyView struct {
	Plan     []WeeklyDay `json:"plan"`
	DietType string      `json:"dietType"`
}

// BuildWeeklyView reshapes generated days, filling calories from the catalog by name.
// Names not in the catalog get 0.
func BuildWeeklyView(days []DayPlan, meals []storage.Meal, dietType string) WeeklyView {
	calories := make(map[string]int, len(meals))
	for _, m := range meals {
		key := nameKey(m.Name)
		if _, seen := calories[key]; !seen {
			calories[key] = m.Calories
		}
	}
	lookup := func(name string) WeeklyMeal {
		return WeeklyMeal{Name: name, Calories: calories[nameKey(name)]}
	}

	view := WeeklyView{Plan: make([]WeeklyDay, 0, len(days)), DietType: dietType}
	for _, d := range days {
		view.Plan = append(view.Plan, WeeklyDay{
			Day: d.Day,
			Meals: WeeklyMeals{
				Breakfast: lookup(d.Breakfast),
				Lunch:     lookup(d.Lunch),
				Dinner:    lookup(d.Dinner),
				Snacks:    lookup(d.Snack),
			},
		})
	}
	return view
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
