package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/service"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id.
	ContextUserID = "user_id"
	// ContextClaims is the gin context key holding the full access claims.
	ContextClaims = "claims"
)

// AuthMiddleware validates the bearer access token and stores the
// identity claims on the request context.
func AuthMiddleware(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, apperr.New(apperr.Unauthorized, "authorization header is required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, apperr.New(apperr.Unauthorized, "invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := sessions.ValidateAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// currentUserID reads the authenticated user id set by AuthMiddleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
