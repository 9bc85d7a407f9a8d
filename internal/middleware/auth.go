package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/pkg/apperrors"
	"jobportal_backend/pkg/contextkeys"
)

// AuthMiddleware - middleware проверки JWT и отзыва токена
func AuthMiddleware(tokens *auth.TokenManager, denylist auth.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		if denylist != nil {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Недоступный redis не должен выкидывать всех пользователей
				logger.CtxWarn(c.Request.Context(), "Token denylist check failed", "error", err)
			} else if revoked {
				apperrors.HandleError(c, apperrors.ErrInvalidToken)
				return
			}
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.UserRoleKey, claims.Role)
		c.Set(contextkeys.TokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(contextkeys.TokenExpKey, claims.ExpiresAt.Time)
		}
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RoleMiddleware - middleware ограничения по роли из токена.
// Наличие профиля роли проверяет уже IdentityService.
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != requiredRole {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: this section is for "+string(requiredRole)+" accounts"))
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

// GetUserRole извлекает роль пользователя из контекста
func GetUserRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get(contextkeys.UserRoleKey)
	if !exists {
		return ""
	}
	switch role := roleVal.(type) {
	case models.UserRole:
		return role
	case string:
		return models.UserRole(role)
	}
	return ""
}

// GetTokenInfo возвращает jti и оставшееся время жизни текущего токена
func GetTokenInfo(c *gin.Context) (string, time.Duration) {
	id := c.GetString(contextkeys.TokenIDKey)
	exp := c.GetTime(contextkeys.TokenExpKey)
	if exp.IsZero() {
		return id, 0
	}
	return id, time.Until(exp)
}
