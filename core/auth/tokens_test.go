package auth

import (
	"testing"
	"time"

	"ajali/core/rbac"
	"ajali/core/store"
)

func TestIssueAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user := &store.User{ID: "u-1", Email: "alice@example.com", Role: rbac.RoleCitizen}
	token, claims, err := tm.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti")
	}
	parsed, err := tm.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if parsed.Subject != "u-1" || parsed.Role != rbac.RoleCitizen || parsed.Email != "alice@example.com" {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
	actor := parsed.Actor()
	if actor.ID != "u-1" || actor.Role != rbac.RoleCitizen {
		t.Fatalf("actor mismatch: %+v", actor)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", time.Hour)
	token, _, err := tm.Issue(&store.User{ID: "u-1", Role: rbac.RoleCitizen})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := NewTokenManager("secret-b", time.Hour)
	if _, err := other.Validate(token); err == nil {
		t.Fatalf("expected validation failure with wrong secret")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", -2*time.Minute)
	token, _, err := tm.Issue(&store.User{ID: "u-1", Role: rbac.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tm.Validate(token); err != ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestPasswordRoundtrip(t *testing.T) {
	hash := MustHashPassword("hunter22", "pepper")
	if err := CheckPassword(hash, "hunter22", "pepper"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := CheckPassword(hash, "hunter22", "other-pepper"); err == nil {
		t.Fatalf("expected pepper mismatch to fail")
	}
	if err := CheckPassword(hash, "wrong", "pepper"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
}
