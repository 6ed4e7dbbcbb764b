// Package token implements the stateless session protocol: signed claims
// carrying a user's identity and role for a fixed horizon, verified without
// a server-side lookup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired marks a token whose signature checked out but whose
	// horizon has elapsed. Callers treat it the same as ErrInvalid
	// ("no session") but may log it differently.
	ErrExpired = errors.New("session token expired")
	ErrInvalid = errors.New("invalid session token")
)

type Claims struct {
	Sub   int64  `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a session token for the given identity. The role claim is a
// point-in-time copy of the user's role; it goes stale until reissued.
func Issue(sub int64, email, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub:   sub,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{"backoffice"},
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// Parse verifies signature and expiry. An expired-but-authentic token
// returns ErrExpired; everything else returns ErrInvalid.
func Parse(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// ShouldRenew reports whether a validated token has passed the half-life
// of its horizon. Used for optional sliding-expiry cookie reissue.
func ShouldRenew(c *Claims, ttl time.Duration) bool {
	if c.IssuedAt == nil {
		return false
	}
	return time.Since(c.IssuedAt.Time) > ttl/2
}
