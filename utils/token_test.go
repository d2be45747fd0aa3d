package utils

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"wedding-server/models"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Model: gorm.Model{ID: 42}, Email: "ana@example.com", IsAdmin: true}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Error("IsAdmin should be true")
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(&models.User{Model: gorm.Model{ID: 1}})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseToken(tampered); err == nil {
		t.Error("ParseToken() should reject a tampered signature")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateToken(&models.User{Model: gorm.Model{ID: 1}})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken() should reject a token signed with another secret")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Error("ParseToken() should reject malformed input")
	}
	if _, err := ParseToken(strings.Repeat("a", 64)); err == nil {
		t.Error("ParseToken() should reject non-JWT input")
	}
}
