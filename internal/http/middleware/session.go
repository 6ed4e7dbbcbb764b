package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/http/response"
	"github.com/halcyonweb/backoffice/pkg/config"
	"github.com/halcyonweb/backoffice/pkg/logger"
	"github.com/halcyonweb/backoffice/pkg/token"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// Guard decides allow/redirect for every protected request. It is
// stateless: the only state it touches is the session cookie it may
// silently reissue when sliding expiry is on.
type Guard struct {
	session config.SessionConfig
	site    config.SiteConfig
}

func NewGuard(session config.SessionConfig, site config.SiteConfig) *Guard {
	return &Guard{session: session, site: site}
}

// RequirePage protects browser-facing routes. No session redirects to
// sign-in; a valid session with the wrong role redirects to the site root
// instead, which avoids a redirect loop through sign-in and says nothing
// about why access was denied.
func (g *Guard) RequirePage(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := g.validate(w, r)
			if claims == nil {
				http.Redirect(w, r, g.site.SignInPath, http.StatusSeeOther)
				return
			}
			if !roleAllowed(claims.Role, requiredRole) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireAPI protects JSON routes with structured 401/403 rejections. The
// error code tells an API client whether to re-authenticate (expired) or
// give up (invalid).
func (g *Guard) RequireAPI(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := g.validate(w, r)
			if claims == nil {
				switch {
				case errors.Is(err, token.ErrExpired):
					response.WriteError(w, http.StatusUnauthorized, "Session expired", response.CodeExpiredToken)
				case errors.Is(err, token.ErrInvalid):
					response.WriteError(w, http.StatusUnauthorized, "Invalid session", response.CodeInvalidToken)
				default:
					response.Unauthorized(w, "Missing or invalid session")
				}
				return
			}
			if !roleAllowed(claims.Role, requiredRole) {
				response.Forbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// validate extracts and checks the session token. A nil claims result
// means "no session"; the error says why (nil when no token was sent).
func (g *Guard) validate(w http.ResponseWriter, r *http.Request) (*token.Claims, error) {
	raw := g.sessionToken(r)
	if raw == "" {
		return nil, nil
	}

	claims, err := token.Parse(raw, g.session.Secret)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			logger.DebugContext(r.Context(), "Session token expired", "path", r.URL.Path)
		} else {
			logger.WarnContext(r.Context(), "Invalid session token", "path", r.URL.Path)
		}
		return nil, err
	}

	if g.session.Sliding && token.ShouldRenew(claims, g.session.TTL) {
		if fresh, err := token.Issue(claims.Sub, claims.Email, claims.Role, g.session.Secret, g.session.TTL); err == nil {
			g.SetSessionCookie(w, fresh)
		}
	}

	return claims, nil
}

// sessionToken reads the cookie first and falls back to a bearer header
// for API clients.
func (g *Guard) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(g.session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return ""
}

func (g *Guard) SetSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(g.session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   g.session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (g *Guard) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func roleAllowed(have, required string) bool {
	if required == "" {
		return true
	}
	return have == required || have == domain.RoleAdmin
}

func withClaims(ctx context.Context, claims *token.Claims) context.Context {
	ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
	return context.WithValue(ctx, CtxClaims, claims)
}

// Claims returns the session claims the guard stored on the request, or
// nil on unguarded routes.
func Claims(r *http.Request) *token.Claims {
	if v := r.Context().Value(CtxClaims); v != nil {
		if c, ok := v.(*token.Claims); ok {
			return c
		}
	}
	return nil
}
