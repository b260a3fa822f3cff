package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequireRole creates middleware that only allows authenticated users with the
// given role to continue. It must run after JWTAuthMiddleware so the role is
// available in the context.
func RequireRole(role identity.Role, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, logger, "", role, http.StatusUnauthorized,
				dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		if identity.Role(claims.Role) != role {
			handleRoleDenied(c, logger, claims.Role, role, http.StatusForbidden,
				dto.ErrCodeForbidden, "This action requires the "+string(role)+" role")
			return
		}

		c.Next()
	}
}

// RequireVendor allows only users holding the vendor role.
func RequireVendor(logger *zap.Logger) gin.HandlerFunc {
	return RequireRole(identity.RoleVendor, logger)
}

// RequireBuyer allows only users holding the buyer role.
func RequireBuyer(logger *zap.Logger) gin.HandlerFunc {
	return RequireRole(identity.RoleBuyer, logger)
}

func handleRoleDenied(c *gin.Context, logger *zap.Logger, actual string, required identity.Role, status int, code, message string) {
	if logger != nil {
		logger.Warn("Role check denied",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("required_role", string(required)),
			zap.String("actual_role", actual),
			zap.String("user_id", GetJWTUserID(c)),
		)
	}

	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID))
}
