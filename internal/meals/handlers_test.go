package meals

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	store := memory.New()
	n, err := Seed(context.Background(), store.Meals())
	require.NoError(t, err)
	require.Equal(t, len(SampleCatalog), n)

	h := NewHandler(NewService(store.Meals(), nil))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/meals", h.HandleList)
	mux.HandleFunc("POST /v1/meals", h.HandleCreate)
	mux.HandleFunc("DELETE /v1/meals/{id}", h.HandleDelete)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func listMeals(t *testing.T, mux http.Handler, target string) ListMealsResponse {
	t.Helper()
	w := serve(mux, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp ListMealsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandleList_Filters(t *testing.T) {
	mux := newTestMux(t)

	all := listMeals(t, mux, "/v1/meals")
	assert.Equal(t, len(SampleCatalog), all.Total)
	assert.Equal(t, int64(1), all.Meals[0].ID)

	snacks := listMeals(t, mux, "/v1/meals?meal_type=SNACK")
	assert.Equal(t, 3, snacks.Total)

	veganDinners := listMeals(t, mux, "/v1/meals?diet_type=vegan&meal_type=dinner")
	require.Equal(t, 1, veganDinners.Total)
	assert.Equal(t, "Tofu Stir Fry", veganDinners.Meals[0].Name)
}

func TestHandleCreateAndDelete(t *testing.T) {
	mux := newTestMux(t)

	w := serve(mux, http.MethodPost, "/v1/meals", `{"name":"Miso Soup","mealType":"Lunch","dietType":"vegan","calories":120}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID       int64  `json:"id"`
		MealType string `json:"mealType"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, int64(len(SampleCatalog)+1), created.ID)
	assert.Equal(t, "lunch", created.MealType)

	w = serve(mux, http.MethodDelete, "/v1/meals/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(mux, http.MethodDelete, "/v1/meals/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(mux, http.MethodDelete, "/v1/meals/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreate_Validation(t *testing.T) {
	mux := newTestMux(t)

	for _, body := range []string{
		`{"mealType":"lunch"}`,
		`{"name":"Soup"}`,
		`{"name":"Soup","mealType":"lunch","calories":-1}`,
		`not json`,
	} {
		w := serve(mux, http.MethodPost, "/v1/meals", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestSeed_SkipsNonEmptyCatalog(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := Seed(ctx, store.Meals())
	require.NoError(t, err)

	n, err := Seed(ctx, store.Meals())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
