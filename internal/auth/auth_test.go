package auth

import (
	"testing"
	"time"
)

const secret = "test-secret"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MakeToken("patient-1", RolePatient, secret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SubjectID != "patient-1" {
		t.Errorf("subject mismatch: %s", claims.SubjectID)
	}
	if claims.Role != RolePatient {
		t.Errorf("role mismatch: %s", claims.Role)
	}

	// expiry ~15 min out
	diff := time.Until(claims.ExpiresAt.Time)
	if diff < 14*time.Minute || diff > 16*time.Minute {
		t.Errorf("expected ~15min expiry, got %v", diff)
	}
}

func TestTokenRejection(t *testing.T) {
	tok, _ := MakeToken("hospital-1", RoleHospital, secret)

	if _, err := ParseToken(tok, "wrong-secret"); err == nil {
		t.Error("wrong secret accepted")
	}
	if _, err := ParseToken("not.a.token", secret); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestRefreshTokenGeneration(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) != 64 { // 32 bytes hex = 64 chars
		t.Errorf("expected 64 char raw token, got %d", len(raw))
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}
	if HashRefreshToken(raw) != hash {
		t.Error("hash mismatch")
	}

	raw2, _, _ := GenerateRefreshToken()
	if raw == raw2 {
		t.Error("two generated tokens are identical")
	}
}
