package mealplans

import (
	"strings"
	"testing"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	p := &storage.Profile{
		ID:                    "u1",
		Age:                   intPtr(30),
		Gender:                "female",
		Goal:                  "lose weight",
		DietType:              "vegan",
		CulturalPreference:    "Mediterranean",
		ReligiousRestrictions: "halal",
		DislikedFoods:         " nuts , shellfish,, ",
	}

	prefs := Normalize(p)

	assert.Equal(t, intPtr(30), prefs.Age)
	assert.Equal(t, "female", prefs.Gender)
	assert.Equal(t, "lose weight", prefs.Goal)
	assert.Equal(t, "vegan", prefs.DietType)
	assert.Equal(t, CalorieTarget, prefs.CalorieTarget)
	assert.Equal(t, []string{"nuts", "shellfish"}, prefs.Allergies)
	assert.Equal(t, []string{"Mediterranean", "halal"}, prefs.PreferredTags)
}

func TestNormalize_EmptyFields(t *testing.T) {
	prefs := Normalize(&storage.Profile{ID: "u1", ReligiousRestrictions: "kosher"})

	require.NotNil(t, prefs.Allergies)
	assert.Empty(t, prefs.Allergies)
	assert.Equal(t, []string{"kosher"}, prefs.PreferredTags)
	assert.Nil(t, prefs.Age)
	assert.Equal(t, 2500, prefs.CalorieTarget)
}

func TestBuildPrompt(t *testing.T) {
	prefs := UserPreferences{
		Age:           intPtr(30),
		Gender:        "male",
		DietType:      "vegetarian",
		CalorieTarget: 2500,
		Allergies:     []string{"nuts"},
		PreferredTags: []string{},
	}
	meals := []storage.Meal{{ID: 1, Name: "Mac & Cheese", Calories: 600, MealType: "dinner"}}

	prompt := BuildPrompt(prefs, meals)

	assert.Contains(t, prompt, "You are a professional nutrition meal planner.")
	assert.Contains(t, prompt, `The user profile is: {"age":30,"gender":"male","goal":"","diet_type":"vegetarian","calorie_target":2500,"allergies":["nuts"],"preferred_tags":[]}.`)
	assert.Contains(t, prompt, `"name":"Mac & Cheese"`)
	assert.Contains(t, prompt, "Ensure daily total calories are close to 2500 kcal.")
	assert.Contains(t, prompt, `Avoid meals with these allergies: ["nuts"].`)
	assert.Contains(t, prompt, "Only use meals from the database provided.")
	assert.Contains(t, prompt, "Return ONLY valid JSON.")
	assert.Contains(t, prompt, `"snack": "Meal name here"`)

	role := strings.Index(prompt, "professional nutrition")
	profile := strings.Index(prompt, "The user profile is")
	catalog := strings.Index(prompt, "available meals database")
	format := strings.Index(prompt, "Return ONLY valid JSON")
	assert.True(t, role < profile && profile < catalog && catalog < format)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	prefs := Normalize(&storage.Profile{ID: "u1", DislikedFoods: "fish"})
	meals := []storage.Meal{{ID: 1, Name: "Oats"}, {ID: 2, Name: "Soup"}}

	assert.Equal(t, BuildPrompt(prefs, meals), BuildPrompt(prefs, meals))
}

func TestBuildPrompt_EmptyCatalog(t *testing.T) {
	prompt := BuildPrompt(UserPreferences{CalorieTarget: 2500}, nil)

	assert.Contains(t, prompt, "Here is the available meals database: [].")
	assert.Contains(t, prompt, "Avoid meals with these allergies: [].")
}

func TestBuildPrompt_PreferredTagsVerbatim(t *testing.T) {
	tests := []struct {
		name string
		tag  string
	}{
		{name: "plain", tag: "Mediterranean"},
		{name: "quotes", tag: `Kosher "strict"`},
		{name: "backslash", tag: `back\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := Normalize(&storage.Profile{ID: "u1", CulturalPreference: tt.tag})

			prompt := BuildPrompt(prefs, nil)

			assert.True(t, strings.Contains(prompt, tt.tag), "prompt does not contain %q", tt.tag)
		})
	}
}

func TestBuildPrompt_NoTagsLine(t *testing.T) {
	prompt := BuildPrompt(UserPreferences{CalorieTarget: 2500, PreferredTags: []string{}}, nil)

	assert.NotContains(t, prompt, "Preferred tags:")
}

func TestNormalize_TagsAreTrimmed(t *testing.T) {
	prefs := Normalize(&storage.Profile{
		ID:                    "u1",
		CulturalPreference:    " Halal ",
		ReligiousRestrictions: "   ",
	})

	assert.Equal(t, []string{"Halal"}, prefs.PreferredTags)
}
