package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
// It is also returned when a resource exists but lies outside the caller's tenant.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateCompany indicates that a company with the same name already exists.
var ErrDuplicateCompany = fmt.Errorf("company already exists: %w", ErrDuplicate)

// ErrDuplicateUser indicates that a user with the same email already exists.
var ErrDuplicateUser = fmt.Errorf("user already exists: %w", ErrDuplicate)

// ErrInvalidManager indicates that a manager reference does not resolve to a MANAGER of the same company.
var ErrInvalidManager = errors.New("invalid manager")

// ErrInvalidCredentials is returned for every failed login, whatever the cause.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUnauthenticated indicates a missing, malformed, expired or foreign session token.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyDecided indicates an approval decision was already recorded.
var ErrAlreadyDecided = errors.New("approval already decided")

// ErrConflict indicates an optimistic-lock or state conflict.
var ErrConflict = errors.New("conflict")

// AppError carries an HTTP status hint and a client-safe message alongside the
// underlying cause. It unwraps to Err so errors.Is keeps working on sentinels.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationFailedError wraps ErrValidation with a message.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewConflictError wraps ErrConflict with a message.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}
