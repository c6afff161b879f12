package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// RequireCapability lets the request through only when the authenticated
// user's role grants c. It must run after AuthMiddleware.
func RequireCapability(capability domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
			return
		}
		if !user.Role.Can(capability) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role gate denied request",
				slog.String("capability", capability.String()))
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
			return
		}
		c.Next()
	}
}
