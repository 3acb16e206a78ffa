package mealplans

import (
	"strings"

	"github.com/fdg312/meal-planner/internal/storage"
)

// CalorieTarget is applied to every user; profiles carry no calorie field yet.
const CalorieTarget = 2500

// UserPreferences is what the planner model sees about the user.
type UserPreferences struct {
	Age           *int     `json:"age"`
	Gender        string   `json:"gender"`
	Goal          string   `json:"goal"`
	DietType      string   `json:"diet_type"`
	CalorieTarget int      `json:"calorie_target"`
	Allergies     []string `json:"allergies"`
	PreferredTags []string `json:"preferred_tags"`
}

// Normalize converts a stored profile into planner preferences.
func Normalize(p *storage.Profile) UserPreferences {
	prefs := UserPreferences{
		Age:           p.Age,
		Gender:        p.Gender,
		Goal:          p.Goal,
		DietType:      p.DietType,
		CalorieTarget: CalorieTarget,
		Allergies:     SplitList(p.DislikedFoods),
		PreferredTags: []string{},
	}

	// cultural first, then religious
	if v := strings.TrimSpace(p.CulturalPreference); v != "" {
		prefs.PreferredTags = append(prefs.PreferredTags, v)
	}
	if v := strings.TrimSpace(p.ReligiousRestrictions); v != "" {
		prefs.PreferredTags = append(prefs.PreferredTags, v)
	}

	return prefs
}

// SplitList splits a comma separated field into trimmed, non-empty tokens.
// The result is never nil.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
