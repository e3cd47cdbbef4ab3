package util

import (
	"testing"
	"time"

	"testit_backend/internal/model"
)

func testUser() *model.User {
	u := &model.User{
		Email:     "teacher@example.com",
		IsTeacher: true,
	}
	u.ID = 42
	return u
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "teacher@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if !claims.IsTeacher {
		t.Error("IsTeacher lost in round trip")
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "test-secret"); err == nil {
		t.Error("expected error for expired token")
	}
}
