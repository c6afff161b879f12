package repositories

import (
	"context"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user by ID regardless of company.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by normalised email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserInCompany retrieves a user only if it belongs to companyID.
	FindUserInCompany(ctx context.Context, companyID, userID string) (*domain.User, error)

	// FindUsersByCompany lists every user of a company, newest first, with manager display fields resolved.
	FindUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error)

	// FindEmployees lists EMPLOYEE users of a company, optionally only those reporting to managerID.
	FindEmployees(ctx context.Context, companyID string, managerID *string) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicateUser if the email is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUserManager sets or clears the reporting line of a user inside companyID.
	UpdateUserManager(ctx context.Context, companyID, userID string, managerID *string, updatedBy string, updatedAt time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
