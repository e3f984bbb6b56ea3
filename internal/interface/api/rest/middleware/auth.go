package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/jwt"
)

const (
	CtxUserRole = "userRole"
	CtxUserID   = "userID"
)

func abort(c *gin.Context, status int, kind apperror.Kind, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "type": kind})
}

func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, apperror.CredentialRejected, "missing Authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || tokenStr == "" {
			abort(c, http.StatusUnauthorized, apperror.CredentialRejected, "invalid token format")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			abort(c, http.StatusUnauthorized, apperror.CredentialRejected, "invalid token")
			return
		}

		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserID, claims.UserID)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, Subject(c).Role) {
			abort(c, http.StatusForbidden, apperror.NotAuthorized, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// Subject returns the authenticated caller set by AuthMiddleware.
func Subject(c *gin.Context) user.Subject {
	return user.Subject{
		ID:   c.GetString(CtxUserID),
		Role: user.Role(c.GetString(CtxUserRole)),
	}
}
