package token

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	raw, err := Issue(42, "admin@example.com", "admin", testSecret, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := Parse(raw, testSecret)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if claims.Sub != 42 {
		t.Errorf("expected sub 42, got %d", claims.Sub)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("expected email admin@example.com, got %s", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %s", claims.Role)
	}
}

func TestParseExpired(t *testing.T) {
	raw, err := Issue(1, "user@example.com", "user", testSecret, -time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = Parse(raw, testSecret)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	raw, err := Issue(1, "user@example.com", "user", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = Parse(raw, "other-secret")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("not-a-token", testSecret)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestShouldRenew(t *testing.T) {
	raw, err := Issue(1, "user@example.com", "user", testSecret, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := Parse(raw, testSecret)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ShouldRenew(claims, 30*24*time.Hour) {
		t.Error("fresh token should not need renewal")
	}

	// Pretend the token was issued past its half-life.
	claims.IssuedAt.Time = time.Now().Add(-16 * 24 * time.Hour)
	if !ShouldRenew(claims, 30*24*time.Hour) {
		t.Error("token past half-life should need renewal")
	}
}
