package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/requestdata"
	"github.com/ayursutra/ayursutra-backend/internal/services"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier services.TokenVerifier
}

func NewAuthMiddleware(log *logger.Logger, verifier services.TokenVerifier) *AuthMiddleware {
	middlewareLog := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLog, verifier: verifier}
}

// RequireAuth verifies the bearer token before any handler logic runs and
// places the verified identity in the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Authorization token missing or invalid"})
			return
		}
		identity, err := am.verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Warn("Token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid or expired authentication token"})
			return
		}
		rd := &requestdata.RequestData{
			TokenString: tokenString,
			UserID:      identity.UserID,
			DisplayName: identity.DisplayName,
		}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
