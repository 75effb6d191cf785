package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
)

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	UserID      string
	DisplayName string
}

// TokenVerifier validates a bearer credential issued by the identity
// provider and yields the embedded claims.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*Identity, error)
}

type jwtVerifier struct {
	log       *logger.Logger
	secretKey string
}

func NewJWTVerifier(log *logger.Logger, secretKey string) TokenVerifier {
	verifierLog := log.With("service", "JWTVerifier")
	return &jwtVerifier{log: verifierLog, secretKey: secretKey}
}

type idTokenClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func (v *jwtVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &idTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*idTokenClaims)
	if !ok || !parsedToken.Valid {
		return nil, fmt.Errorf("Invalid or expired JWT token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("Token has no subject")
	}

	displayName := strings.TrimSpace(claims.Name)
	if displayName == "" {
		displayName = defaultDisplayName(claims.Subject)
	}
	return &Identity{UserID: claims.Subject, DisplayName: displayName}, nil
}

func defaultDisplayName(uid string) string {
	suffix := uid
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "User_" + suffix
}
