package services

import (
	"context"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers returns every user of the actor's company, newest first.
	ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error)

	// ListEmployees returns the actor's direct reports (MANAGER) or all company employees (ADMIN).
	ListEmployees(ctx context.Context, actor *domain.User) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateSubordinateUser adds a MANAGER or EMPLOYEE to the actor's company.
	CreateSubordinateUser(ctx context.Context, actor *domain.User, req dto.CreateUserRequest) (*domain.User, error)

	// AssignManager sets or clears an employee's manager inside the actor's company.
	AssignManager(ctx context.Context, actor *domain.User, req dto.AssignManagerRequest) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
