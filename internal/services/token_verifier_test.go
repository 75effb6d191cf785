package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret, subject, name string, expiresIn time.Duration) string {
	t.Helper()
	claims := idTokenClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return token
}

func TestVerifyValidToken(t *testing.T) {
	v := NewJWTVerifier(testLogger(t), testSecret)
	token := signTestToken(t, testSecret, "firebase-uid-1234", "Alice", time.Hour)

	identity, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UserID != "firebase-uid-1234" {
		t.Errorf("UserID=%q, want firebase-uid-1234", identity.UserID)
	}
	if identity.DisplayName != "Alice" {
		t.Errorf("DisplayName=%q, want Alice", identity.DisplayName)
	}
}

func TestVerifyDefaultsDisplayName(t *testing.T) {
	v := NewJWTVerifier(testLogger(t), testSecret)
	token := signTestToken(t, testSecret, "firebase-uid-1234", "", time.Hour)

	identity, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.DisplayName != "User_1234" {
		t.Errorf("DisplayName=%q, want User_1234", identity.DisplayName)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	v := NewJWTVerifier(testLogger(t), testSecret)
	cases := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: signTestToken(t, testSecret, "uid", "Alice", -time.Hour)},
		{name: "foreign_signature", token: signTestToken(t, "other-secret", "uid", "Alice", time.Hour)},
		{name: "missing_subject", token: signTestToken(t, testSecret, "", "Alice", time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tc.token); err == nil {
				t.Fatalf("Verify accepted %s token", tc.name)
			}
		})
	}
}
