package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware
const (
	AccountKey = "account"
	RoleKey    = "role"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
// On success the token subject and role are stored under AccountKey and RoleKey.
func JWTAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const BearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			abortUnauthorized(c, "Authorization header must start with Bearer ")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(BearerSchema):]))
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
			} else {
				abortUnauthorized(c, "Invalid token")
			}
			return
		}

		c.Set(AccountKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// CurrentAccount returns the authenticated account address, if any
func CurrentAccount(c *gin.Context) (string, bool) {
	account := c.GetString(AccountKey)
	return account, account != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "kind": "Unauthenticated"})
}
