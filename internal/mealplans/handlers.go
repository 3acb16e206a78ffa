package mealplans

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/meal-planner/internal/userctx"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for meal plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new meal plans handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate handles POST /generate-meal-plan and POST /v1/meal-plans/generate.
// Errors use the flat {"error": "..."} body the web client expects.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	// an empty body is treated as a request without user_id
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, errBadUserID) {
			writeFlat(w, http.StatusBadRequest, errBadUserID.Error())
			return
		}
		writeFlat(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userID := string(req.UserID)
	if userID == "" {
		writeFlat(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if !userctx.CanAccess(r.Context(), userID) {
		writeFlat(w, http.StatusNotFound, notFoundMessage(userID))
		return
	}

	gen, err := h.service.Generate(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			writeFlat(w, http.StatusNotFound, notFoundMessage(userID))
		case errors.Is(err, ErrGenerationTimeout):
			writeFlat(w, http.StatusGatewayTimeout, ErrGenerationTimeout.Error())
		case errors.Is(err, ErrGenerationUnavailable):
			writeFlat(w, http.StatusServiceUnavailable, ErrGenerationUnavailable.Error())
		default:
			writeFlat(w, http.StatusInternalServerError, "Failed to generate meal plan")
		}
		return
	}

	if !gen.Result.OK() {
		sendJSON(w, http.StatusBadGateway, salvageError{
			Error: gen.Result.Message(),
			Kind:  gen.Result.Kind,
			Raw:   gen.Result.RawText,
		})
		return
	}

	if gen.PlanID != uuid.Nil {
		w.Header().Set("Location", "/v1/meal-plans/"+gen.PlanID.String())
	}

	if r.URL.Query().Get("view") == "weekly" {
		sendJSON(w, http.StatusOK, BuildWeeklyView(gen.Result.Days, gen.Meals, gen.Preferences.DietType))
		return
	}
	sendJSON(w, http.StatusOK, gen.Result.Days)
}

// HandleBasic handles GET /v1/meal-plans/basic?user_id=
func (h *Handler) HandleBasic(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUserID(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Basic(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "not_found", notFoundMessage(userID))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to build meal plan")
		return
	}

	sendJSON(w, http.StatusOK, plan)
}

// HandleList handles GET /v1/meal-plans?user_id=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	plans, err := h.service.ListPlans(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list meal plans")
		return
	}

	sendJSON(w, http.StatusOK, ListPlansResponse{Plans: plans})
}

// HandleGet handles GET /v1/meal-plans/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid meal plan ID")
		return
	}

	plan, err := h.service.GetPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get meal plan")
		return
	}
	if !userctx.CanAccess(r.Context(), plan.UserID) {
		writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
		return
	}

	sendJSON(w, http.StatusOK, plan)
}

// resolveUserID reads ?user_id=, falling back to the authenticated user.
func (h *Handler) resolveUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		userID, _ = userctx.GetUserID(r.Context())
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return "", false
	}
	if !userctx.CanAccess(r.Context(), userID) {
		writeError(w, http.StatusNotFound, "not_found", notFoundMessage(userID))
		return "", false
	}
	return userID, true
}

func notFoundMessage(userID string) string {
	return fmt.Sprintf("No profile found for user_id %s", userID)
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeFlat(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, flatError{Error: message})
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
