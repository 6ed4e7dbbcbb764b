package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/halcyonweb/backoffice/internal/http/middleware"
	"github.com/halcyonweb/backoffice/internal/repository"
	"github.com/halcyonweb/backoffice/internal/service"
	"github.com/halcyonweb/backoffice/pkg/config"
)

type Handlers struct {
	authService   service.AuthService
	intakeService service.IntakeService
	guard         *middleware.Guard
	config        *config.Config
}

func New(
	authService service.AuthService,
	intakeService service.IntakeService,
	guard *middleware.Guard,
	config *config.Config,
) *Handlers {
	return &Handlers{
		authService:   authService,
		intakeService: intakeService,
		guard:         guard,
		config:        config,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

func parseSubmissionFilter(r *http.Request) repository.SubmissionFilter {
	filter := repository.SubmissionFilter{
		FormName: r.URL.Query().Get("form"),
		Status:   r.URL.Query().Get("status"),
	}
	filter.Limit, filter.Offset = parsePagination(r)

	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}

	return filter
}
