package mealplans

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fdg312/meal-planner/internal/storage"
)

const outputFormat = `Return ONLY valid JSON. No explanations, no notes, no code fences, nothing else.
The JSON format should look exactly like this:
[
  {
    "day": 1,
    "breakfast": "Meal name here",
    "lunch": "Meal name here",
    "dinner": "Meal name here",
    "snack": "Meal name here"
  }
]
`

// BuildPrompt renders the planner instruction. The whole catalog is embedded
// as-is; choosing suitable meals is left to the model.
func BuildPrompt(prefs UserPreferences, meals []storage.Meal) string {
	if meals == nil {
		meals = []storage.Meal{}
	}
	allergies := prefs.Allergies
	if allergies == nil {
		allergies = []string{}
	}

	var b strings.Builder
	b.WriteString("\nYou are a professional nutrition meal planner.\n")
	fmt.Fprintf(&b, "The user profile is: %s.\n", toJSON(prefs))
	fmt.Fprintf(&b, "Here is the available meals database: %s.\n", toJSON(meals))
	b.WriteString("Create a 7-day meal plan with breakfast, lunch, dinner, and snack each day.\n")
	fmt.Fprintf(&b, "Ensure daily total calories are close to %d kcal.\n", prefs.CalorieTarget)
	fmt.Fprintf(&b, "Avoid meals with these allergies: %s.\n", toJSON(allergies))
	// JSON escapes quotes and backslashes, so tags are also listed verbatim
	if len(prefs.PreferredTags) > 0 {
		fmt.Fprintf(&b, "Preferred tags: %s.\n", strings.Join(prefs.PreferredTags, ", "))
	}
	b.WriteString("Only use meals from the database provided.\n\n")
	b.WriteString(outputFormat)
	return b.String()
}

// toJSON encodes without HTML escaping so names like "Mac & Cheese" stay readable.
func toJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
