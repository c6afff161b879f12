package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: the specific duplicates are checked before the generic sentinels.
var errorMappings = []errorMapping{
	{apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request"},
	{apperrors.ErrDuplicateCompany, http.StatusBadRequest, "DUPLICATE_COMPANY", "A company with this name already exists"},
	{apperrors.ErrDuplicateUser, http.StatusBadRequest, "DUPLICATE_USER", "A user with this email already exists"},
	{apperrors.ErrInvalidManager, http.StatusBadRequest, "INVALID_MANAGER", "Manager must be a MANAGER of your company"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action"},
	{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Resource not found"},
	{apperrors.ErrAlreadyDecided, http.StatusBadRequest, "ALREADY_DECIDED", "This expense has already been decided"},
	{apperrors.ErrConflict, http.StatusConflict, "CONFLICT", "The resource was modified concurrently"},
}

// respondWithError maps a service error to its HTTP status and error envelope.
// Errors outside the taxonomy become a generic 500; their detail is only logged.
func respondWithError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError && appErr.Message != "" {
			message = appErr.Message
		}
		logger.Warn("Request failed", slog.String("code", m.code), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(m.status, ErrorResponse{Error: message, Code: m.code})
		return
	}

	logger.Error("Unhandled error", slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: "INTERNAL_ERROR"})
}

// respondBindError reports a request body that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error(), Code: "VALIDATION_ERROR"})
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondWithError(c, apperrors.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}
