package httpapi

import (
	"testing"
	"time"

	"storepos/backend/internal/domain"
)

func TestAuthManagerIssueAndParse(t *testing.T) {
	manager := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour)
	user := domain.User{
		ID:          7,
		Username:    "kasir",
		Permissions: domain.Permissions{Transactions: 1},
	}

	token, expiresAt, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected expiry in the future, got %s", expiresAt)
	}

	actor, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if actor.UserID != 7 || actor.Username != "kasir" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if !actor.Has(domain.PermTransactions) || actor.Has(domain.PermUsers) {
		t.Fatalf("permissions not carried through token: %+v", actor.Permissions)
	}
}

func TestAuthManagerRejectsForeignToken(t *testing.T) {
	issuer := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour)
	token, _, err := issuer.Issue(domain.User{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	other := NewAuthManager("fedcba9876543210fedcba9876543210", time.Hour)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
	if _, err := issuer.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}

func TestAuthManagerDisabledWithoutSecret(t *testing.T) {
	if NewAuthManager("", time.Hour).Enabled() {
		t.Fatalf("expected manager without secret to be disabled")
	}
	var nilManager *AuthManager
	if nilManager.Enabled() {
		t.Fatalf("expected nil manager to be disabled")
	}
	if _, _, err := NewAuthManager("", 0).Issue(domain.User{ID: 1}); err == nil {
		t.Fatalf("expected issue to fail while disabled")
	}
}
