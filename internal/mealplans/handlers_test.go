package mealplans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/ai"
	"github.com/fdg312/meal-planner/internal/userctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, completer ai.Completer) (*Handler, *http.ServeMux) {
	t.Helper()
	st := newStore(t)
	h := NewHandler(NewService(st.Profiles(), st.Meals(), st.MealPlans(), completer, 50*time.Millisecond, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate-meal-plan", h.HandleGenerate)
	mux.HandleFunc("GET /v1/meal-plans/basic", h.HandleBasic)
	mux.HandleFunc("GET /v1/meal-plans", h.HandleList)
	mux.HandleFunc("GET /v1/meal-plans/{id}", h.HandleGet)
	return h, mux
}

func doRequest(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeFlat(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body flatError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHandleGenerate_Success(t *testing.T) {
	_, mux := newTestHandler(t, answer(twoDays))

	rec := doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id": 42}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/v1/meal-plans/"))

	var days []DayPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &days))
	require.Len(t, days, 2)
	assert.Equal(t, "Tofu Stir Fry", days[0].Dinner)
}

func TestHandleGenerate_StoredPlanIsReadable(t *testing.T) {
	_, mux := newTestHandler(t, answer(twoDays))

	rec := doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id":"42"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(mux, http.MethodGet, rec.Header().Get("Location"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var plan StoredPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "42", plan.UserID)
	assert.Len(t, plan.Days, 2)

	rec = doRequest(mux, http.MethodGet, "/v1/meal-plans?user_id=42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListPlansResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Plans, 1)
}

func TestHandleGenerate_WeeklyView(t *testing.T) {
	_, mux := newTestHandler(t, answer(twoDays))

	rec := doRequest(mux, http.MethodPost, "/generate-meal-plan?view=weekly", `{"user_id":"42"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view WeeklyView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "vegan", view.DietType)
	require.Len(t, view.Plan, 2)
	assert.Equal(t, WeeklyMeal{Name: "Oats", Calories: 350}, view.Plan[0].Meals.Breakfast)
	assert.Equal(t, WeeklyMeal{Name: "Apple", Calories: 95}, view.Plan[0].Meals.Snacks)
}

func TestHandleGenerate_MissingUserID(t *testing.T) {
	cases := []string{`{}`, `{"user_id":""}`, `{"user_id":null}`, `{"user_id":0}`, ``}
	for _, body := range cases {
		completer := answer(twoDays)
		_, mux := newTestHandler(t, completer)

		rec := doRequest(mux, http.MethodPost, "/generate-meal-plan", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
		assert.Equal(t, "user_id is required", decodeFlat(t, rec))
		assert.Equal(t, 0, completer.calls)
	}
}

func TestHandleGenerate_InvalidBody(t *testing.T) {
	_, mux := newTestHandler(t, answer(twoDays))

	rec := doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", decodeFlat(t, rec))

	rec = doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_id must be a string or number", decodeFlat(t, rec))
}

func TestHandleGenerate_ProfileNotFound(t *testing.T) {
	completer := answer(twoDays)
	_, mux := newTestHandler(t, completer)

	rec := doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id":"999"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No profile found for user_id 999", decodeFlat(t, rec))
	assert.Equal(t, 0, completer.calls)
}

func TestHandleGenerate_SalvageFailures(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		kind    ResultKind
		message string
	}{
		{"no structure", "Sorry, no plan today.", KindNoStructureFound, "No JSON found in AI response"},
		{"parse failed", `Here: [{"day":1,,}]`, KindParseFailed, "JSON extraction failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mux := newTestHandler(t, answer(tt.raw))

			rec := doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id":"42"}`)

			require.Equal(t, http.StatusBadGateway, rec.Code)
			var body salvageError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.kind, body.Kind)
			assert.Equal(t, tt.raw, body.Raw)
		})
	}
}

func TestHandleGenerate_UpstreamErrors(t *testing.T) {
	unavailable := &mockCompleter{completeFn: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.Join(ai.ErrCompletionFailed, errors.New("connection refused"))
	}}
	_, mux := newTestHandler(t, unavailable)
	rec := doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id":"42"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "meal plan generation unavailable", decodeFlat(t, rec))

	slow := &mockCompleter{completeFn: func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	_, mux = newTestHandler(t, slow)
	rec = doRequest(mux, http.MethodPost, "/generate-meal-plan", `{"user_id":"42"}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "meal plan generation timed out", decodeFlat(t, rec))
}

func TestHandleGenerate_OtherUserIsHidden(t *testing.T) {
	h, _ := newTestHandler(t, answer(twoDays))

	req := httptest.NewRequest(http.MethodPost, "/generate-meal-plan", strings.NewReader(`{"user_id":"42"}`))
	req = req.WithContext(userctx.WithUserID(req.Context(), "someone-else"))
	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBasic(t *testing.T) {
	_, mux := newTestHandler(t, answer(""))

	rec := doRequest(mux, http.MethodGet, "/v1/meal-plans/basic?user_id=42", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var plan BasicPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Len(t, plan.Plan, 7)
	assert.Equal(t, "Oats", plan.Plan[0].Meals.Breakfast.Name)

	rec = doRequest(mux, http.MethodGet, "/v1/meal-plans/basic", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/v1/meal-plans/basic?user_id=nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "not_found", errResp.Error.Code)
}

func TestHandleBasic_UsesAuthenticatedUser(t *testing.T) {
	h, _ := newTestHandler(t, answer(""))

	req := httptest.NewRequest(http.MethodGet, "/v1/meal-plans/basic", nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), "42"))
	rec := httptest.NewRecorder()
	h.HandleBasic(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleList_InvalidLimit(t *testing.T) {
	_, mux := newTestHandler(t, answer(""))

	rec := doRequest(mux, http.MethodGet, "/v1/meal-plans?user_id=42&limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGet_InvalidAndMissing(t *testing.T) {
	_, mux := newTestHandler(t, answer(""))

	rec := doRequest(mux, http.MethodGet, "/v1/meal-plans/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/v1/meal-plans/6f1c1f0e-2b7e-4c39-9d1f-1b2a3c4d5e6f", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
