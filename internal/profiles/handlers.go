package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Handler содержит HTTP обработчики для профилей
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSave обрабатывает POST /v1/profiles
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, errNotANumber) {
			h.sendError(w, http.StatusBadRequest, "invalid_request", "age, height, weight and mealsPerDay must be numbers")
			return
		}
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	profile, err := h.service.SaveProfile(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			h.sendError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "))
		case errors.Is(err, ErrNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to save profile")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, SaveProfileResponse{
		Message: "Profile saved successfully",
		Profile: *profile,
	})
}

// HandleGet обрабатывает GET /v1/profiles/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid profile ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to get profile")
		return
	}

	h.sendJSON(w, http.StatusOK, profile)
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
