package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/http/middleware"
	"github.com/halcyonweb/backoffice/internal/http/response"
	"github.com/halcyonweb/backoffice/internal/service"
)

// Login handles credential sign-in. On success the session token is set as
// an HTTP-only cookie and also returned in the body for API clients.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			// One message for every credential failure.
			response.WriteError(w, http.StatusUnauthorized, "Invalid email or password", response.CodeUnauthorized)
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Sign-in failed")
		}
		return
	}

	h.guard.SetSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusOK, resp)
}

// Logout expires the session cookie. The token itself stays valid until
// its horizon; there is no server-side revocation.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.guard.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Signed out",
	})
}

// Me returns the current session's claims; the admin UI uses it to
// bootstrap.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Missing or invalid session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    claims.Sub,
		"email": claims.Email,
		"role":  claims.Role,
	})
}
