package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/halcyonweb/backoffice/internal/domain"
	mw "github.com/halcyonweb/backoffice/internal/http/middleware"
	"github.com/halcyonweb/backoffice/internal/http/response"
	"github.com/halcyonweb/backoffice/pkg/config"
	"github.com/halcyonweb/backoffice/pkg/token"
)

const testSecret = "test-secret"

func newGuard() *mw.Guard {
	return mw.NewGuard(
		config.SessionConfig{
			Secret:     testSecret,
			TTL:        30 * 24 * time.Hour,
			CookieName: "session",
		},
		config.SiteConfig{
			SignInPath: "/signin",
		},
	)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func sessionCookie(t *testing.T, sub int64, role string, ttl time.Duration) *http.Cookie {
	t.Helper()
	raw, err := token.Issue(sub, "user@example.com", role, testSecret, ttl)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return &http.Cookie{Name: "session", Value: raw}
}

func TestPageGuardNoSessionRedirectsToSignIn(t *testing.T) {
	h := newGuard().RequirePage(domain.RoleAdmin)(okHandler())

	req := httptest.NewRequest("GET", "/admin", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/signin" {
		t.Errorf("expected redirect to /signin, got %q", loc)
	}
}

func TestPageGuardWrongRoleRedirectsHome(t *testing.T) {
	h := newGuard().RequirePage(domain.RoleAdmin)(okHandler())

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(sessionCookie(t, 1, domain.RoleUser, time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	// Home, not sign-in: a signed-in user bounced to sign-in would loop.
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
}

func TestPageGuardAdminAllowed(t *testing.T) {
	guard := newGuard()
	var got *token.Claims
	h := guard.RequirePage(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = mw.Claims(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(sessionCookie(t, 7, domain.RoleAdmin, time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.Sub != 7 || got.Role != domain.RoleAdmin {
		t.Errorf("expected claims on the request context, got %+v", got)
	}
}

func TestPageGuardExpiredSessionRedirectsToSignIn(t *testing.T) {
	h := newGuard().RequirePage(domain.RoleAdmin)(okHandler())

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(sessionCookie(t, 1, domain.RoleAdmin, -time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/signin" {
		t.Errorf("expected redirect to /signin, got %q", loc)
	}
}

func TestAPIGuardRejections(t *testing.T) {
	h := newGuard().RequireAPI(domain.RoleAdmin)(okHandler())

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/submissions", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/submissions", nil)
		req.AddCookie(sessionCookie(t, 1, domain.RoleUser, time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/submissions", nil)
		req.AddCookie(sessionCookie(t, 1, domain.RoleAdmin, time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestAPIGuardTokenFailureCodes(t *testing.T) {
	h := newGuard().RequireAPI(domain.RoleAdmin)(okHandler())

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wantCode string
	}{
		{"expired", sessionCookie(t, 1, domain.RoleAdmin, -time.Hour), response.CodeExpiredToken},
		{"garbage", &http.Cookie{Name: "session", Value: "not-a-token"}, response.CodeInvalidToken},
		{"none", nil, response.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/admin/submissions", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			var body response.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
		})
	}
}

func TestGuardBearerFallback(t *testing.T) {
	h := newGuard().RequireAPI(domain.RoleAdmin)(okHandler())

	raw, err := token.Issue(1, "admin@example.com", domain.RoleAdmin, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 via bearer token, got %d", rec.Code)
	}
}

func TestGuardAnyAuthenticatedRole(t *testing.T) {
	h := newGuard().RequireAPI("")(okHandler())

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.AddCookie(sessionCookie(t, 1, domain.RoleUser, time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for any valid session, got %d", rec.Code)
	}
}
