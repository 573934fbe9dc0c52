package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/screenhub/auth-service/internal/token"
)

// claimsKey is the gin context key under which verified claims are stored.
const claimsKey = "auth_claims"

// TokenVerifier verifies a bearer token and returns its identity claims.
type TokenVerifier interface {
	Parse(tokenString string) (*token.Claims, error)
}

// AuthMiddleware guards protected endpoints. It extracts the bearer token
// from the Authorization header, verifies signature and expiry, and stores
// the claims for downstream handlers. No database lookup happens here:
// claims from a verified token are trusted at face value.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) || authHeader == bearerPrefix {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("Token verification failed")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the verified claims stored by AuthMiddleware.
func ClaimsFromContext(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}
