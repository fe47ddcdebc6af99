package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mroshb/quizline/pkg/errors"
)

const testSecret = "test_secret_key_minimum_32_chars"

func TestGenerateAdminToken(t *testing.T) {
	tests := []struct {
		name    string
		subject string
	}{
		{
			name:    "Named operator",
			subject: "alice",
		},
		{
			name:    "Empty subject",
			subject: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateAdminToken(tt.subject, testSecret, time.Hour)
			if err != nil {
				t.Fatalf("GenerateAdminToken() error = %v", err)
			}

			if token == "" {
				t.Error("GenerateAdminToken() returned empty token")
			}

			claims, err := ValidateAdminToken(token, testSecret)
			if err != nil {
				t.Fatalf("ValidateAdminToken() error = %v", err)
			}

			if claims.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", claims.Subject, tt.subject)
			}
			if claims.Role != RoleAdmin {
				t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
			}
			if claims.ExpiresAt.Time.Before(time.Now()) {
				t.Error("Token already expired")
			}
		})
	}
}

func TestValidateAdminToken_Invalid(t *testing.T) {
	expired, err := GenerateAdminToken("bob", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAdminToken() error = %v", err)
	}
	foreign, err := GenerateAdminToken("bob", "another_secret_key_minimum_32_chars", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Invalid format",
			token: "invalid.token.here",
		},
		{
			name:  "Expired token",
			token: expired,
		},
		{
			name:  "Signed with another secret",
			token: foreign,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAdminToken(tt.token, testSecret)
			if err == nil {
				t.Fatal("ValidateAdminToken() expected error for invalid token, got nil")
			}
			if !errors.HasCode(err, errors.ErrCodeUnauthorized) {
				t.Errorf("ValidateAdminToken() error = %v, want code %s", err, errors.ErrCodeUnauthorized)
			}
		})
	}
}

func TestValidateAdminToken_WrongRole(t *testing.T) {
	claims := &Claims{
		Role: "player",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "carol",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	_, err = ValidateAdminToken(token, testSecret)
	if !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("ValidateAdminToken() error = %v, want code %s", err, errors.ErrCodeUnauthorized)
	}
}
