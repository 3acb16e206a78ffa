package meals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Handler handles HTTP requests for the meal catalog.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/meals?diet_type=&meal_type=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.service.List(r.Context(), q.Get("diet_type"), q.Get("meal_type"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list meals")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListMealsResponse{Meals: items, Total: len(items)})
}

// HandleCreate handles POST /v1/meals
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	meal, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create meal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(meal)
}

// HandleDelete handles DELETE /v1/meals/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid meal ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Meal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete meal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
