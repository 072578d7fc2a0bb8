package auth

import (
	"testing"
	"time"

	"repairorder/internal/entity"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	user := &entity.DbUser{ID: 42, Username: "budi", Role: entity.UserRoleAdmin}
	token, expiresAt, err := mgr.GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, status, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if status != TokenValid {
		t.Fatalf("expected valid status, got %s", status)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %d, got %d", user.ID, claims.UserID)
	}
	if claims.Username != user.Username {
		t.Fatalf("expected username %s, got %s", user.Username, claims.Username)
	}
	if claims.Role != user.Role {
		t.Fatalf("expected role %s, got %s", user.Role, claims.Role)
	}
	if !claims.Identity().IsAdmin() {
		t.Fatal("expected admin identity")
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewManagerDefaultsExpiry(t *testing.T) {
	mgr, err := NewManager("secret", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mgr.expiry != DefaultTokenTTL {
		t.Fatalf("expected default expiry %s, got %s", DefaultTokenTTL, mgr.expiry)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", DefaultTokenTTL)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}
	issuedAt := time.Now().Add(-25 * time.Hour)
	mgr.now = func() time.Time { return issuedAt }

	token, _, err := mgr.GenerateToken(&entity.DbUser{ID: 7, Username: "sari", Role: entity.UserRoleUser})
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}

	mgr.now = time.Now
	claims, status, err := mgr.Verify(token)
	if err == nil {
		t.Fatal("expected expired token to fail verification")
	}
	if status != TokenExpired {
		t.Fatalf("expected expired status, got %s", status)
	}
	if claims != nil {
		t.Fatal("expected no claims for expired token")
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, _ := NewManager("secret-one", "issuer", time.Hour)
	verifier, _ := NewManager("secret-two", "issuer", time.Hour)

	token, _, err := issuer.GenerateToken(&entity.DbUser{ID: 1, Username: "admin", Role: entity.UserRoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}

	if _, status, err := verifier.Verify(token); err == nil || status != TokenInvalid {
		t.Fatalf("expected invalid status, got %s (err=%v)", status, err)
	}
	if _, status, _ := verifier.Verify("not-a-jwt"); status != TokenInvalid {
		t.Fatalf("expected invalid status for garbage, got %s", status)
	}
}
