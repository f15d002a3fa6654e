package auth

import "testing"

func TestHashPasswordRejectsShortPasswords(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatalf("expected error for a password below the minimum length")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "correct-horse") {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatalf("expected mismatching password to fail")
	}
}
