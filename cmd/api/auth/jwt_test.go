package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	manager, err := NewJWTManager("")
	if err == nil {
		t.Fatalf("expected error when secret is empty")
	}
	if manager != nil {
		t.Fatalf("expected nil manager when secret is empty")
	}
}

func TestJWTManagerSignAndParseRoundTrip(t *testing.T) {
	manager, err := NewJWTManager("test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userID := uuid.New()
	token, err := manager.Sign(userID)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a three-part token, got %q", token)
	}

	parsed, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != userID {
		t.Fatalf("expected user id %s, got %s", userID, parsed)
	}
}

func TestJWTManagerRejectsWrongSecret(t *testing.T) {
	signer, _ := NewJWTManager("secret-one")
	verifier, _ := NewJWTManager("secret-two")

	token, err := signer.Sign(uuid.New())
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Fatalf("expected parse to fail with a different secret")
	}
}

func TestJWTManagerRejectsExpiredToken(t *testing.T) {
	manager, _ := NewJWTManager("test-secret")
	manager.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }

	token, err := manager.Sign(uuid.New())
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse to fail for an expired token")
	}
}

func TestJWTManagerRejectsNonUUIDSubject(t *testing.T) {
	manager, _ := NewJWTManager("test-secret")

	claims := jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse to fail for a non-uuid subject")
	}
}
