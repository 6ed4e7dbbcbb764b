package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/http/response"
)

type submitResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id,omitempty"`
}

type submitErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// SubmitForm is the public intake endpoint. Validation happens before any
// persistence; the response is written as soon as the row is stored, and
// notification emails go out on their own afterwards.
func (h *Handlers) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitErrorResponse{
			Success: false,
			Error:   "Invalid JSON format",
		})
		return
	}

	sub, err := h.intakeService.Submit(r.Context(), &req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, submitErrorResponse{
				Success: false,
				Error:   verr.Error(),
				Fields:  verr.Fields,
			})
			return
		}
		response.InternalError(w, "Failed to store submission")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success: true,
		ID:      sub.ID,
	})
}
