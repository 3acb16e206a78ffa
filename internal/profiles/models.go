package profiles

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// MealTimes: желаемое время приёмов пищи, "HH:MM" или пусто
type MealTimes struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// SaveProfileRequest: запрос для POST /v1/profiles.
// Числовые поля принимаются и числом, и строкой: веб-форма шлёт "" для пустых.
type SaveProfileRequest struct {
	ID                    string         `json:"id"`
	FullName              string         `json:"fullName"`
	Age                   optionalNumber `json:"age"`
	Gender                string         `json:"gender"`
	Height                optionalNumber `json:"height"`
	Weight                optionalNumber `json:"weight"`
	Goal                  string         `json:"goal"`
	ActivityLevel         string         `json:"activityLevel"`
	MedicalConditions     []string       `json:"medicalConditions"`
	DietType              string         `json:"dietType"`
	CulturalPreference    string         `json:"culturalPreference"`
	ReligiousRestrictions string         `json:"religiousRestrictions"`
	DislikedFoods         string         `json:"dislikedFoods"`
	MealsPerDay           optionalNumber `json:"mealsPerDay"`
	MealTimes             MealTimes      `json:"mealTimes"`
}

// ProfileDTO: DTO для API
type ProfileDTO struct {
	ID                    string    `json:"id"`
	FullName              string    `json:"fullName"`
	Age                   *int      `json:"age"`
	Gender                string    `json:"gender"`
	Height                *float64  `json:"height"`
	Weight                *float64  `json:"weight"`
	Goal                  string    `json:"goal"`
	ActivityLevel         string    `json:"activityLevel"`
	MedicalConditions     []string  `json:"medicalConditions"`
	DietType              string    `json:"dietType"`
	CulturalPreference    string    `json:"culturalPreference"`
	ReligiousRestrictions string    `json:"religiousRestrictions"`
	DislikedFoods         string    `json:"dislikedFoods"`
	MealsPerDay           *int      `json:"mealsPerDay"`
	MealTimes             MealTimes `json:"mealTimes"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// SaveProfileResponse: ответ для POST /v1/profiles
type SaveProfileResponse struct {
	Message string     `json:"message"`
	Profile ProfileDTO `json:"profile"`
}

// ErrorResponse: формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errNotANumber = errors.New("expected a number")

// optionalNumber: число или строка с числом; null и "" означают отсутствие значения
type optionalNumber struct {
	Value *float64
}

func (n *optionalNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			n.Value = nil
			return nil
		}
	} else {
		s = string(data)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errNotANumber
	}
	n.Value = &v
	return nil
}

func (n optionalNumber) Int() *int {
	if n.Value == nil {
		return nil
	}
	v := int(*n.Value)
	return &v
}
