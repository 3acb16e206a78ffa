package exports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleExport handles GET /v1/meal-plans/{id}/export?format=pdf|csv
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid meal plan ID")
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = FormatPDF
	}

	exp, err := h.service.Export(r.Context(), planID, format)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			writeError(w, http.StatusBadRequest, "invalid_format", "format must be pdf or csv")
		case errors.Is(err, ErrPlanNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to export meal plan")
		}
		return
	}

	if exp.URL != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LinkResponse{URL: exp.URL, ExpiresIn: exp.ExpiresIn})
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", blob.ContentDisposition(exp.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Data)
}

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
