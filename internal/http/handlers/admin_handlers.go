package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/http/response"
)

// Admin handlers. All of these sit behind the admin API guard.

// ListSubmissions supports form, status and date-range filters.
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.intakeService.ListSubmissions(r.Context(), parseSubmissionFilter(r))
	if err != nil {
		response.InternalError(w, "Failed to list submissions")
		return
	}

	if subs == nil {
		subs = []domain.FormSubmission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handlers) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid submission ID")
		return
	}

	sub, err := h.intakeService.GetSubmission(r.Context(), id)
	if err != nil {
		response.InternalError(w, "Failed to get submission")
		return
	}
	if sub == nil {
		response.NotFound(w, "Submission not found")
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

func (h *Handlers) UpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid submission ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		response.BadRequest(w, "Status is required")
		return
	}

	sub, err := h.intakeService.UpdateSubmissionStatus(r.Context(), id, req.Status)
	if err != nil {
		response.InternalError(w, "Failed to update submission")
		return
	}
	if sub == nil {
		response.NotFound(w, "Submission not found")
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	users, err := h.authService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "Failed to list users")
		return
	}

	userInfos := make([]*domain.UserInfo, len(users))
	for i, user := range users {
		userInfos[i] = user.ToUserInfo()
	}

	writeJSON(w, http.StatusOK, userInfos)
}
