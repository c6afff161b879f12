package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// TokenVerifier resolves a session token to the current user record.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// abortWithError writes the API error envelope and stops the chain.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

// AuthMiddleware requires a valid bearer token and stores a fresh read of the
// user in the request context. Role changes therefore apply on the next request.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization header format must be Bearer {token}")
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Session token rejected", slog.String("error", err.Error()))
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired session")
			return
		}

		enrichedLogger := logger.With(
			slog.String("user_id", user.UserID),
			slog.String("company_id", user.CompanyID),
			slog.String("role", string(user.Role)),
		)
		ctx := WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Next()
	}
}
