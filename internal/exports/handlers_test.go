package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/fdg312/meal-planner/internal/userctx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planID = uuid.MustParse("3b0d6f55-1d7e-4b4a-9d55-6f5a2c1e7a10")

type fakePlans struct {
	plans map[uuid.UUID]*mealplans.StoredPlan
}

func (f *fakePlans) GetPlan(ctx context.Context, id uuid.UUID) (*mealplans.StoredPlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, mealplans.ErrPlanNotFound
	}
	return p, nil
}

type fakeStore struct {
	puts map[string][]byte
	objs []blob.Object
}

func (f *fakeStore) Put(ctx context.Context, obj blob.Object) (int64, error) {
	f.puts[obj.Key] = obj.Data
	f.objs = append(f.objs, obj)
	return int64(len(obj.Data)), nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://s3.example.com/" + key + "?ttl=" + ttl.String(), nil
}

func testPlans() *fakePlans {
	return &fakePlans{plans: map[uuid.UUID]*mealplans.StoredPlan{
		planID: {
			ID:     planID,
			UserID: "42",
			Model:  "mock",
			Days: []mealplans.DayPlan{
				{Day: 1, Breakfast: "Veggie Omelette", Lunch: "Lentil Soup", Dinner: "Tofu Stir Fry", Snack: "Trail Mix"},
				{Day: 2, Breakfast: "Crème brûlée oats", Lunch: "Salad, with commas", Dinner: "Turkey Chili", Snack: "Apple"},
			},
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}}
}

func newMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/meal-plans/{id}/export", NewHandlers(svc).HandleExport)
	return mux
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestExportCSV_Local(t *testing.T) {
	mux := newMux(NewService(testPlans(), nil, config.S3Config{}, nil))

	w := get(mux, "/v1/meal-plans/"+planID.String()+"/export?format=csv")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "meal-plan-"+planID.String()+".csv")

	rows, err := csv.NewReader(bytes.NewReader(w.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"day", "breakfast", "lunch", "dinner", "snack"}, rows[0])
	assert.Equal(t, []string{"2", "Crème brûlée oats", "Salad, with commas", "Turkey Chili", "Apple"}, rows[2])
}

func TestExportPDF_DefaultFormat(t *testing.T) {
	mux := newMux(NewService(testPlans(), nil, config.S3Config{}, nil))

	w := get(mux, "/v1/meal-plans/"+planID.String()+"/export")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestExport_S3Presigned(t *testing.T) {
	store := &fakeStore{puts: map[string][]byte{}}
	svc := NewService(testPlans(), store, config.S3Config{PresignTTLSeconds: 600}, nil)

	w := get(newMux(svc), "/v1/meal-plans/"+planID.String()+"/export?format=csv")

	require.Equal(t, http.StatusOK, w.Code)
	var resp LinkResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 600, resp.ExpiresIn)
	assert.Contains(t, resp.URL, "exports/"+planID.String()+".csv")
	assert.Contains(t, store.puts, "exports/"+planID.String()+".csv")
	require.Len(t, store.objs, 1)
	assert.Equal(t, "text/csv", store.objs[0].ContentType)
	assert.Equal(t, "meal-plan-"+planID.String()+".csv", store.objs[0].Filename)
}

func TestExport_S3PublicURL(t *testing.T) {
	store := &fakeStore{puts: map[string][]byte{}}
	svc := NewService(testPlans(), store, config.S3Config{
		PublicBaseURL:   "https://cdn.example.com",
		PreferPublicURL: true,
	}, nil)

	exp, err := svc.Export(context.Background(), planID, FormatPDF)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/exports/"+planID.String()+".pdf", exp.URL)
	assert.Zero(t, exp.ExpiresIn)
	assert.Nil(t, exp.Data)
}

func TestExport_Errors(t *testing.T) {
	mux := newMux(NewService(testPlans(), nil, config.S3Config{}, nil))

	assert.Equal(t, http.StatusBadRequest, get(mux, "/v1/meal-plans/nope/export").Code)
	assert.Equal(t, http.StatusBadRequest, get(mux, "/v1/meal-plans/"+planID.String()+"/export?format=docx").Code)
	assert.Equal(t, http.StatusNotFound, get(mux, "/v1/meal-plans/"+uuid.NewString()+"/export").Code)
}

func TestExport_OtherUsersPlanIsHidden(t *testing.T) {
	svc := NewService(testPlans(), nil, config.S3Config{}, nil)
	ctx := userctx.WithUserID(context.Background(), "7")

	_, err := svc.Export(ctx, planID, FormatCSV)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	admin := userctx.WithRole(ctx, userctx.RoleAdmin)
	_, err = svc.Export(admin, planID, FormatCSV)
	assert.NoError(t, err)
}
